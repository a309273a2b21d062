package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/customseal/internal/domain"
)

const (
	adminCookie = "admin_token"
	adminTTL    = 12 * time.Hour
)

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) signAdminToken(email string, now time.Time) (string, error) {
	claims := adminClaims{Email: email, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTTL)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.adminSecret)
}

func (s *Server) verifyAdminToken(tok string) (*adminClaims, error) {
	t, err := jwt.ParseWithClaims(tok, &adminClaims{}, func(*jwt.Token) (any, error) { return s.adminSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*adminClaims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if _, allowed := s.adminAllowed[strings.ToLower(c.Email)]; !allowed {
		return nil, errors.New("email no autorizado")
	}
	return c, nil
}

// requireAdmin acepta el token por header Bearer o por cookie.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if _, err := s.verifyAdminToken(strings.TrimSpace(auth[7:])); err == nil {
			return true
		}
	}
	if c, err := r.Cookie(adminCookie); err == nil && c.Value != "" {
		if _, err := s.verifyAdminToken(c.Value); err == nil {
			return true
		}
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
	return false
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth no configurado", http.StatusInternalServerError)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth no configurado", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", http.StatusBadRequest)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("exchange oauth")
		http.Error(w, "oauth", http.StatusBadRequest)
		return
	}
	resp, err := s.oauthCfg.Client(r.Context(), tok).Get(s.userInfoURL)
	if err != nil {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("userinfo")
		http.Error(w, "userinfo", http.StatusBadRequest)
		return
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	_ = json.Unmarshal(body, &info)
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" || !info.EmailVerified {
		http.Error(w, "email", http.StatusBadRequest)
		return
	}
	if _, ok := s.adminAllowed[email]; !ok {
		log.Warn().Str("email", email).Msg("login admin rechazado")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	signed, err := s.signAdminToken(email, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("firmar token admin")
		http.Error(w, "token", http.StatusInternalServerError)
		return
	}
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{Name: adminCookie, Value: signed, Path: "/", MaxAge: int(adminTTL.Seconds()), HttpOnly: true, Secure: secure, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, "/admin/designs", http.StatusFound)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{Name: adminCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: secure, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, "/", http.StatusFound)
}

func designFilter(r *http.Request) domain.DesignFilter {
	q := r.URL.Query()
	f := domain.DesignFilter{
		Kind:    domain.SubmissionKind(strings.TrimSpace(q.Get("kind"))),
		FrameID: strings.TrimSpace(q.Get("frame")),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 0 || f.PageSize > 200 {
		f.PageSize = 200
	}
	return f
}

func (s *Server) handleAdminDesigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	if s.designs == nil {
		http.Error(w, "persistencia no configurada", http.StatusServiceUnavailable)
		return
	}
	f := designFilter(r)
	list, total, err := s.designs.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("listar diseños")
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": list, "total": total, "page": f.Page})
}

func (s *Server) handleAdminDesignsXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	if s.designs == nil {
		http.Error(w, "persistencia no configurada", http.StatusServiceUnavailable)
		return
	}
	var buf bytes.Buffer
	n, err := s.designs.Export(r.Context(), &buf, designFilter(r))
	if err != nil {
		log.Error().Err(err).Msg("exportar diseños")
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="designs.xlsx"`)
	w.Header().Set("X-Designs-Count", strconv.Itoa(n))
	_, _ = w.Write(buf.Bytes())
}
