package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/customseal/internal/domain"
	"github.com/phenrril/customseal/internal/usecase"
)

type sessionResponse struct {
	Flow    string             `json:"flow"`
	Steps   []domain.Step      `json:"steps"`
	Session domain.SessionView `json:"session"`
}

type errorResponse struct {
	Error    string             `json:"error"`
	Field    string             `json:"field,omitempty"`
	Redirect string             `json:"redirect,omitempty"`
	Session  domain.SessionView `json:"session"`
}

func (s *Server) sessionJSON(w http.ResponseWriter, view domain.SessionView) {
	flow := s.wizard.Flow()
	writeJSON(w, http.StatusOK, sessionResponse{Flow: string(flow), Steps: flow.Steps(), Session: view})
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, view domain.SessionView, err error) {
	var mp *domain.MissingPrerequisiteError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &mp):
		writeJSON(w, http.StatusConflict, errorResponse{Error: mp.Error(), Redirect: string(mp.Redirect), Session: view})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field, Session: view})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("req_id", requestID(r)).Msg("api")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) apiDo(w http.ResponseWriter, r *http.Request, fn func(*domain.Session) error) {
	view, err := s.withSession(w, r, fn)
	if err != nil {
		s.apiError(w, r, view, err)
		return
	}
	s.sessionJSON(w, view)
}

func (s *Server) apiFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.wizard.Frames())
}

func (s *Server) apiSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.apiDo(w, r, noop)
}

type eventRequest struct {
	Event        string              `json:"event"`
	FrameID      string              `json:"frameId"`
	Measurements domain.Measurements `json:"measurements"`
}

// apiEvents dispara un evento del wizard. stage_file va por /api/session/scan.
func (s *Server) apiEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "json inválido"})
		return
	}
	kind := usecase.EventKind(strings.TrimSpace(req.Event))
	if kind == usecase.EventStageFile {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "use /api/session/scan to upload"})
		return
	}
	ev := usecase.Event{Kind: kind, FrameID: req.FrameID, Measurements: req.Measurements}
	s.apiDo(w, r, func(sess *domain.Session) error {
		return s.wizard.Fire(r.Context(), sess, ev)
	})
}

func (s *Server) apiEnter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Step string `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "json inválido"})
		return
	}
	s.apiDo(w, r, func(sess *domain.Session) error {
		return s.wizard.Enter(r.Context(), sess, domain.Step(req.Step))
	})
}

func (s *Server) apiScan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodDelete:
		s.apiDo(w, r, func(sess *domain.Session) error {
			return s.wizard.ChangeFile(r.Context(), sess)
		})
		return
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart inválido"})
		return
	}
	defer r.MultipartForm.RemoveAll()
	var (
		name string
		body io.Reader
	)
	file, fh, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		name, body = fh.Filename, file
	}
	s.apiDo(w, r, func(sess *domain.Session) error {
		return s.wizard.StageFile(r.Context(), sess, name, body)
	})
}

type alignmentUpdate struct {
	Param string          `json:"param"`
	Axis  string          `json:"axis"`
	Value json.RawMessage `json:"value"`
}

// sliderText acepta el valor como número JSON o como el texto crudo del slider.
func (u alignmentUpdate) sliderText() string {
	var s string
	if err := json.Unmarshal(u.Value, &s); err == nil {
		return s
	}
	return string(u.Value)
}

// apiAlignment aplica una o varias actualizaciones; si alguna falla no se
// aplica ninguna.
func (s *Server) apiAlignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body"})
		return
	}
	var updates []alignmentUpdate
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(raw, &updates)
	} else {
		var one alignmentUpdate
		err = json.Unmarshal(raw, &one)
		updates = []alignmentUpdate{one}
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "json inválido"})
		return
	}
	s.apiDo(w, r, func(sess *domain.Session) error {
		saved := sess.Alignment
		for _, u := range updates {
			if err := s.wizard.SetAlignment(r.Context(), sess, domain.AlignmentParam(u.Param), u.Axis, u.sliderText()); err != nil {
				sess.Alignment = saved
				return err
			}
		}
		return nil
	})
}

func (s *Server) apiAlignmentReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.apiDo(w, r, func(sess *domain.Session) error {
		return s.wizard.ResetAlignment(r.Context(), sess)
	})
}

func (s *Server) apiReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.apiDo(w, r, func(sess *domain.Session) error {
		s.wizard.Reset(r.Context(), sess)
		return nil
	})
}
