package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/customseal/internal/domain"
)

func (s *Server) renderStep(w http.ResponseWriter, view domain.SessionView, data map[string]any, status int) {
	if data == nil {
		data = map[string]any{}
	}
	flow := s.wizard.Flow()
	data["Session"] = view
	data["Flow"] = string(flow)
	data["Steps"] = flow.Steps()
	_, data["CanGoBack"] = flow.Previous(view.Step)
	switch view.Step {
	case domain.StepFrames:
		data["Frames"] = s.wizard.Frames()
	case domain.StepMeasurements:
		if _, ok := data["Form"]; !ok {
			form := domain.Measurements{}
			if view.Measurements != nil {
				form = *view.Measurements
			}
			data["Form"] = form
		}
	case domain.StepPreview:
		data["Sliders"] = slidersFor(view.Alignment)
	case domain.StepScan:
		data["Accept"] = strings.Join(domain.ScanExtensions, ",")
	}
	s.render(w, status, string(view.Step)+".html", data)
}

// wizardError mapea los errores del controlador: prerequisito faltante
// redirige, validación re-renderiza el paso con el mensaje inline.
func (s *Server) wizardError(w http.ResponseWriter, r *http.Request, view domain.SessionView, err error, data map[string]any) {
	var mp *domain.MissingPrerequisiteError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &mp):
		http.Redirect(w, r, stepPath(mp.Redirect), http.StatusSeeOther)
	case errors.As(err, &ve):
		if data == nil {
			data = map[string]any{}
		}
		data["Error"] = ve.Message
		data["ErrorField"] = ve.Field
		s.renderStep(w, view, data, http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("req_id", requestID(r)).Msg("wizard")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// stepPage es el GET de un paso: navegación directa con chequeo de prerequisitos.
func (s *Server) stepPage(step domain.Step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		view, err := s.withSession(w, r, func(sess *domain.Session) error {
			return s.wizard.Enter(r.Context(), sess, step)
		})
		if err != nil {
			if domain.IsValidation(err) {
				http.NotFound(w, r)
				return
			}
			s.wizardError(w, r, view, err, nil)
			return
		}
		s.renderStep(w, view, nil, http.StatusOK)
	}
}

// postAction corre fn y redirige al paso resultante (PRG).
func (s *Server) postAction(w http.ResponseWriter, r *http.Request, fn func(*domain.Session) error) {
	view, err := s.withSession(w, r, fn)
	if err != nil {
		s.wizardError(w, r, view, err, nil)
		return
	}
	http.Redirect(w, r, stepPath(view.Step), http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.stepPage(domain.StepHome)(w, r)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.GetStarted(r.Context(), sess)
	})
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.stepPage(domain.StepFrames)(w, r)
	case http.MethodPost:
		frameID := strings.TrimSpace(r.FormValue("frame"))
		s.postAction(w, r, func(sess *domain.Session) error {
			return s.wizard.SelectFrame(r.Context(), sess, frameID)
		})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.stepPage(domain.StepMeasurements)(w, r)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		form := domain.Measurements{
			FaceWidth:    r.PostFormValue("faceWidth"),
			NoseBridge:   r.PostFormValue("noseBridge"),
			TempleLength: r.PostFormValue("templeLength"),
			Email:        r.PostFormValue("email"),
		}
		view, err := s.withSession(w, r, func(sess *domain.Session) error {
			return s.wizard.SubmitMeasurements(r.Context(), sess, form)
		})
		if err != nil {
			s.wizardError(w, r, view, err, map[string]any{"Form": form})
			return
		}
		http.Redirect(w, r, stepPath(view.Step), http.StatusSeeOther)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

type slider struct {
	Name  string
	Label string
	Param domain.AlignmentParam
	Axis  string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

var sliderDefs = []slider{
	{Name: "position_x", Label: "Position X", Param: domain.ParamPosition, Axis: "x", Min: domain.PositionMin, Max: domain.PositionMax, Step: 0.005},
	{Name: "position_y", Label: "Position Y", Param: domain.ParamPosition, Axis: "y", Min: domain.PositionMin, Max: domain.PositionMax, Step: 0.005},
	{Name: "position_z", Label: "Position Z", Param: domain.ParamPosition, Axis: "z", Min: domain.PositionMin, Max: domain.PositionMax, Step: 0.005},
	{Name: "rotation_x", Label: "Rotation X", Param: domain.ParamRotation, Axis: "x", Min: domain.RotationMin, Max: domain.RotationMax, Step: 0.01},
	{Name: "rotation_y", Label: "Rotation Y", Param: domain.ParamRotation, Axis: "y", Min: domain.RotationMin, Max: domain.RotationMax, Step: 0.01},
	{Name: "rotation_z", Label: "Rotation Z", Param: domain.ParamRotation, Axis: "z", Min: domain.RotationMin, Max: domain.RotationMax, Step: 0.01},
	{Name: "scale", Label: "Scale", Param: domain.ParamScale, Min: domain.ScaleMin, Max: domain.ScaleMax, Step: 0.0005},
	{Name: "head_x", Label: "Head tilt", Param: domain.ParamHeadRotation, Axis: "x", Min: domain.HeadRotationMin, Max: domain.HeadRotationMax, Step: 0.01},
	{Name: "head_y", Label: "Head turn", Param: domain.ParamHeadRotation, Axis: "y", Min: domain.HeadRotationMin, Max: domain.HeadRotationMax, Step: 0.01},
}

func slidersFor(a domain.Alignment) []slider {
	out := make([]slider, len(sliderDefs))
	copy(out, sliderDefs)
	for i := range out {
		sl := &out[i]
		switch sl.Param {
		case domain.ParamPosition:
			ax, _ := domain.ParseAxis(sl.Axis)
			sl.Value = a.GlassesPosition[ax]
		case domain.ParamRotation:
			ax, _ := domain.ParseAxis(sl.Axis)
			sl.Value = a.GlassesRotation[ax]
		case domain.ParamHeadRotation:
			ax, _ := domain.ParseAxis(sl.Axis)
			sl.Value = a.HeadRotation[ax]
		case domain.ParamScale:
			sl.Value = a.GlassesScale
		}
	}
	return out
}

// handlePreview: action=apply|reset|continue. Los sliders enviados se
// aplican todos o ninguno.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.stepPage(domain.StepPreview)(w, r)
		return
	case http.MethodPost:
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	action := r.PostFormValue("action")
	ctx := r.Context()
	view, err := s.withSession(w, r, func(sess *domain.Session) error {
		if action == "reset" {
			return s.wizard.ResetAlignment(ctx, sess)
		}
		saved := sess.Alignment
		for _, sl := range sliderDefs {
			text, ok := r.PostForm[sl.Name]
			if !ok || len(text) == 0 {
				continue
			}
			if err := s.wizard.SetAlignment(ctx, sess, sl.Param, sl.Axis, text[0]); err != nil {
				sess.Alignment = saved
				return err
			}
		}
		if action == "continue" {
			return s.wizard.Continue(ctx, sess)
		}
		return nil
	})
	if err != nil {
		s.wizardError(w, r, view, err, nil)
		return
	}
	http.Redirect(w, r, stepPath(view.Step), http.StatusSeeOther)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.stepPage(domain.StepScan)(w, r)
		return
	case http.MethodPost:
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	// margen de 1MB para los campos del form
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		view, _ := s.withSession(w, r, noop)
		s.wizardError(w, r, view, &domain.ValidationError{Field: "file", Message: "The upload failed or the file is too large."}, nil)
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
	} else if !errors.Is(err, http.ErrMissingFile) {
		http.Error(w, "multipart", http.StatusBadRequest)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.StageFile(r.Context(), sess, name, body)
	})
}

func (s *Server) handleScanChange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.ChangeFile(r.Context(), sess)
	})
}

func (s *Server) handleScanSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.SubmitScan(r.Context(), sess)
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.Back(r.Context(), sess)
	})
}

func (s *Server) handleStartOver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		return s.wizard.StartOver(r.Context(), sess)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.postAction(w, r, func(sess *domain.Session) error {
		s.wizard.Reset(r.Context(), sess)
		return nil
	})
}
