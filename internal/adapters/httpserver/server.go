package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/customseal/internal/domain"
	"github.com/phenrril/customseal/internal/usecase"
)

type Options struct {
	UploadsDir     string
	MaxUploadBytes int64
	SessionKey     string
	SessionTTL     time.Duration
	AdminAllowed   []string
	AdminSecret    string
}

type Server struct {
	mux      *http.ServeMux
	tmpl     *template.Template
	wizard   *usecase.WizardUC
	designs  *usecase.DesignUC
	oauthCfg *oauth2.Config

	uploadsDir  string
	maxUpload   int64
	sessionKey  []byte
	sessionTTL  time.Duration
	userInfoURL string

	adminAllowed map[string]struct{}
	adminSecret  []byte
}

func New(t *template.Template, wizard *usecase.WizardUC, designs *usecase.DesignUC, oauthCfg *oauth2.Config, opts Options) http.Handler {
	return newServer(t, wizard, designs, oauthCfg, opts).Handler()
}

func newServer(t *template.Template, wizard *usecase.WizardUC, designs *usecase.DesignUC, oauthCfg *oauth2.Config, opts Options) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		tmpl:        t,
		wizard:      wizard,
		designs:     designs,
		oauthCfg:    oauthCfg,
		uploadsDir:  opts.UploadsDir,
		maxUpload:   opts.MaxUploadBytes,
		sessionKey:  []byte(opts.SessionKey),
		sessionTTL:  opts.SessionTTL,
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
	if s.uploadsDir == "" {
		s.uploadsDir = "uploads"
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 100 << 20
	}
	if len(s.sessionKey) == 0 {
		s.sessionKey = []byte("dev-insecure")
	}
	allowed := map[string]struct{}{}
	for _, e := range opts.AdminAllowed {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	s.adminAllowed = allowed
	sec := opts.AdminSecret
	if sec == "" {
		sec = string(s.sessionKey)
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return Chain(s.mux,
		SecurityHeaders,
		Recovery,
		Logging,
		RequestID,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/uploads/", s.handleUpload)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// wizard HTML
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/start", s.handleStart)
	s.mux.HandleFunc("/frames", s.handleFrames)
	s.mux.HandleFunc("/measurements", s.handleMeasurements)
	s.mux.HandleFunc("/preview", s.handlePreview)
	s.mux.HandleFunc("/scan", s.handleScan)
	s.mux.HandleFunc("/scan/change", s.handleScanChange)
	s.mux.HandleFunc("/scan/submit", s.handleScanSubmit)
	s.mux.HandleFunc("/confirmation", s.stepPage(domain.StepConfirmation))
	s.mux.HandleFunc("/back", s.handleBack)
	s.mux.HandleFunc("/start-over", s.handleStartOver)
	s.mux.HandleFunc("/reset", s.handleReset)

	// API JSON
	s.mux.HandleFunc("/api/frames", s.apiFrames)
	s.mux.HandleFunc("/api/session", s.apiSession)
	s.mux.HandleFunc("/api/session/events", s.apiEvents)
	s.mux.HandleFunc("/api/session/enter", s.apiEnter)
	s.mux.HandleFunc("/api/session/scan", s.apiScan)
	s.mux.HandleFunc("/api/session/alignment", s.apiAlignment)
	s.mux.HandleFunc("/api/session/alignment/reset", s.apiAlignmentReset)
	s.mux.HandleFunc("/api/session/reset", s.apiReset)

	// admin
	s.mux.HandleFunc("/admin/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	s.mux.HandleFunc("/admin/designs", s.handleAdminDesigns)
	s.mux.HandleFunc("/admin/designs.xlsx", s.handleAdminDesignsXLSX)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

const sessionCookie = "seal_sess"

func (s *Server) sign(payload []byte) string {
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func (s *Server) sessionID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return uuid.Nil, false
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return uuid.Nil, false
	}
	id, err := uuid.ParseBytes(payload)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) writeSessionCookie(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	c := &http.Cookie{Name: sessionCookie, Value: s.sign([]byte(id.String())), Path: "/", HttpOnly: true, Secure: secure, SameSite: http.SameSiteLaxMode}
	if s.sessionTTL > 0 {
		c.MaxAge = int(s.sessionTTL.Seconds())
	}
	http.SetCookie(w, c)
}

// withSession corre fn sobre la sesión del request; si no hay cookie válida
// o la sesión expiró crea una nueva.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*domain.Session) error) (domain.SessionView, error) {
	if id, ok := s.sessionID(r); ok {
		view, err := s.wizard.Do(r.Context(), id, fn)
		if !errors.Is(err, domain.ErrNotFound) {
			return view, err
		}
	}
	view, err := s.wizard.Start(r.Context())
	if err != nil {
		return view, err
	}
	id := uuid.MustParse(view.ID)
	s.writeSessionCookie(w, r, id)
	return s.wizard.Do(r.Context(), id, fn)
}

// handleUpload sirve sólo el scan staged de la sesión del request. No lista
// directorios ni expone archivos de otras sesiones.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/uploads/")
	id, ok := s.sessionID(r)
	if key == "" || strings.HasSuffix(key, "/") || !ok {
		http.NotFound(w, r)
		return
	}
	view, err := s.wizard.Do(r.Context(), id, noop)
	if err != nil || view.Scan == nil || view.Scan.Handle.Key == "" || view.Scan.Handle.Key != key {
		http.NotFound(w, r)
		return
	}
	clean := path.Clean("/" + key)
	w.Header().Set("Cache-Control", "private, no-store")
	http.ServeFile(w, r, filepath.Join(s.uploadsDir, filepath.FromSlash(clean)))
}

func stepPath(step domain.Step) string {
	if step == domain.StepHome || step == "" {
		return "/"
	}
	return "/" + string(step)
}

func noop(*domain.Session) error { return nil }
