package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/customseal/internal/domain"
)

// WizardUC es el controlador del wizard: decide el paso activo, valida
// transiciones y resetea la sesión.
type WizardUC struct {
	Sessions domain.SessionRepo
	Catalog  domain.FrameCatalog
	Scans    domain.ScanStorage
	Designs  domain.DesignRepo
	Notifier domain.Notifier
	Now      func() time.Time

	flow  Flow
	table transitionTable
}

func NewWizardUC(flow Flow, sessions domain.SessionRepo, catalog domain.FrameCatalog, scans domain.ScanStorage, designs domain.DesignRepo, notifier domain.Notifier) *WizardUC {
	if flow != FlowMeasurements {
		flow = FlowScan
	}
	uc := &WizardUC{
		Sessions: sessions,
		Catalog:  catalog,
		Scans:    scans,
		Designs:  designs,
		Notifier: notifier,
		Now:      time.Now,
		flow:     flow,
	}
	uc.table = uc.buildTable()
	return uc
}

func (uc *WizardUC) Flow() Flow { return uc.flow }

func (uc *WizardUC) Frames() []domain.FrameStyle { return uc.Catalog.List() }

// Fire aplica un evento sobre la sesión. Si un guard falla no hay efectos,
// salvo la redirección de un MissingPrerequisiteError.
func (uc *WizardUC) Fire(ctx context.Context, s *domain.Session, ev Event) error {
	tr, ok := uc.table.lookup(s.Step, ev.Kind)
	if !ok {
		return &domain.ValidationError{Field: "event", Message: fmt.Sprintf("%s is not available on the %s step", ev.Kind, s.Step)}
	}
	for _, guard := range tr.guards {
		if err := guard(s, ev); err != nil {
			redirectOn(s, err)
			log.Debug().Err(err).Str("session", s.ID.String()).Str("step", string(s.Step)).Str("event", string(ev.Kind)).Msg("transición rechazada")
			return err
		}
	}
	if tr.effect != nil {
		if err := tr.effect(ctx, s, ev); err != nil {
			return fmt.Errorf("%s: %w", ev.Kind, err)
		}
	}
	if tr.to != "" {
		s.Step = tr.to
	}
	s.UpdatedAt = uc.Now()
	return nil
}

func (uc *WizardUC) GetStarted(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventGetStarted})
}

func (uc *WizardUC) SelectFrame(ctx context.Context, s *domain.Session, frameID string) error {
	return uc.Fire(ctx, s, Event{Kind: EventSelectFrame, FrameID: frameID})
}

func (uc *WizardUC) SubmitMeasurements(ctx context.Context, s *domain.Session, m domain.Measurements) error {
	return uc.Fire(ctx, s, Event{Kind: EventSubmitMeasurements, Measurements: m})
}

func (uc *WizardUC) StageFile(ctx context.Context, s *domain.Session, fileName string, body io.Reader) error {
	return uc.Fire(ctx, s, Event{Kind: EventStageFile, Upload: &Upload{FileName: fileName, Body: body}})
}

func (uc *WizardUC) ChangeFile(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventChangeFile})
}

func (uc *WizardUC) SubmitScan(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventSubmitScan})
}

func (uc *WizardUC) Continue(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventContinue})
}

func (uc *WizardUC) Back(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventBack})
}

func (uc *WizardUC) StartOver(ctx context.Context, s *domain.Session) error {
	return uc.Fire(ctx, s, Event{Kind: EventStartOver})
}

// Enter es la navegación directa a un paso (URL). Sin los datos previos
// redirige y no toca nada más.
func (uc *WizardUC) Enter(ctx context.Context, s *domain.Session, step domain.Step) error {
	if !step.Valid() {
		return &domain.ValidationError{Field: "step", Message: fmt.Sprintf("unknown step %q", step)}
	}
	if !uc.flow.Has(step) {
		return &domain.ValidationError{Field: "step", Message: fmt.Sprintf("step %s is not part of the %s flow", step, uc.flow)}
	}
	if err := uc.prerequisites(s, step); err != nil {
		redirectOn(s, err)
		return err
	}
	s.Step = step
	return nil
}

func (uc *WizardUC) prerequisites(s *domain.Session, step domain.Step) error {
	switch step {
	case domain.StepMeasurements, domain.StepPreview, domain.StepScan:
		if s.Frame == nil {
			return &domain.MissingPrerequisiteError{Step: step, Missing: "selected frame", Redirect: domain.StepFrames}
		}
	case domain.StepConfirmation:
		if s.Frame == nil {
			return &domain.MissingPrerequisiteError{Step: step, Missing: "selected frame", Redirect: domain.StepFrames}
		}
		if s.Submission == nil {
			return &domain.MissingPrerequisiteError{Step: step, Missing: "submission", Redirect: uc.flow.SubmissionStep()}
		}
		if uc.flow == FlowScan && s.Scan == nil {
			return &domain.MissingPrerequisiteError{Step: step, Missing: "staged scan", Redirect: domain.StepScan}
		}
	}
	return nil
}

// SetAlignment parsea el texto del slider y modifica un solo componente.
// Para la escala el eje se ignora.
func (uc *WizardUC) SetAlignment(_ context.Context, s *domain.Session, param domain.AlignmentParam, axisText, valueText string) error {
	if err := uc.checkPreview(s); err != nil {
		return err
	}
	axis := domain.AxisX
	if param != domain.ParamScale {
		ax, err := domain.ParseAxis(axisText)
		if err != nil {
			return err
		}
		axis = ax
	}
	v, err := domain.ParseSlider(string(param), valueText)
	if err != nil {
		return err
	}
	next := s.Alignment
	if err := next.Set(param, axis, v); err != nil {
		return err
	}
	s.Alignment = next
	s.UpdatedAt = uc.Now()
	return nil
}

func (uc *WizardUC) ResetAlignment(_ context.Context, s *domain.Session) error {
	if err := uc.checkPreview(s); err != nil {
		return err
	}
	s.Alignment.Reset()
	s.UpdatedAt = uc.Now()
	return nil
}

func (uc *WizardUC) checkPreview(s *domain.Session) error {
	if s.Step != domain.StepPreview {
		return &domain.ValidationError{Field: "alignment", Message: "alignment can only be adjusted on the preview step"}
	}
	if err := requireFrame(domain.StepPreview)(s, Event{}); err != nil {
		redirectOn(s, err)
		return err
	}
	return nil
}

// Reset es el punto único de reinicio: libera el scan y vuelve a home.
func (uc *WizardUC) Reset(ctx context.Context, s *domain.Session) {
	uc.reset(ctx, s)
	s.UpdatedAt = uc.Now()
}

func (uc *WizardUC) reset(ctx context.Context, s *domain.Session) {
	uc.release(ctx, s.Scan)
	s.Clear()
}

func (uc *WizardUC) release(ctx context.Context, sc *domain.ScanSubmission) {
	if sc == nil || sc.Handle.IsZero() || uc.Scans == nil {
		return
	}
	if err := uc.Scans.Release(ctx, sc.Handle); err != nil {
		log.Warn().Err(err).Str("key", sc.Handle.Key).Msg("no se pudo liberar scan")
	}
}

// persistDesign registra el diseño confirmado. Los errores se loguean; la
// confirmación nunca falla por esto.
func (uc *WizardUC) persistDesign(ctx context.Context, s *domain.Session) {
	if uc.Designs == nil {
		return
	}
	d, err := domain.NewDesign(s, uc.Now())
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID.String()).Msg("diseño incompleto")
		return
	}
	// reenviar después de un back actualiza el mismo registro y no vuelve a notificar
	if prev := s.Recorded; prev != nil {
		d.ID = prev.ID
		d.CreatedAt = prev.CreatedAt
		d.Notified = prev.Notified
	}
	if uc.Notifier != nil && d.Email != "" && !d.Notified {
		if err := uc.Notifier.NotifyDesign(ctx, d); err != nil {
			log.Warn().Err(err).Str("design", d.ID.String()).Msg("notificación fallida")
		} else {
			d.Notified = true
		}
	}
	if err := uc.Designs.Save(ctx, d); err != nil {
		log.Error().Err(err).Str("design", d.ID.String()).Msg("guardar diseño")
		return
	}
	s.Recorded = d
}

func redirectOn(s *domain.Session, err error) {
	var mp *domain.MissingPrerequisiteError
	if errors.As(err, &mp) && mp.Redirect != "" {
		s.Step = mp.Redirect
	}
}

// Start crea una sesión nueva en home.
func (uc *WizardUC) Start(ctx context.Context) (domain.SessionView, error) {
	s, err := uc.Sessions.Create(ctx)
	if err != nil {
		return domain.SessionView{}, err
	}
	return s.View(), nil
}

// Do corre fn con la sesión bloqueada y devuelve la vista resultante,
// también cuando fn falla.
func (uc *WizardUC) Do(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (domain.SessionView, error) {
	var view domain.SessionView
	err := uc.Sessions.Update(ctx, id, func(s *domain.Session) error {
		ferr := fn(s)
		view = s.View()
		return ferr
	})
	return view, err
}

// SweepIdle descarta sesiones inactivas liberando sus scans.
func (uc *WizardUC) SweepIdle(ctx context.Context, ttl time.Duration) (int, error) {
	return uc.Sessions.Sweep(ctx, uc.Now().Add(-ttl), func(s *domain.Session) {
		uc.release(ctx, s.Scan)
	})
}

func (uc *WizardUC) RunJanitor(ctx context.Context, ttl, every time.Duration) {
	if ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := uc.SweepIdle(ctx, ttl)
			if err != nil {
				log.Error().Err(err).Msg("sweep sesiones")
				continue
			}
			if n > 0 {
				log.Info().Int("sesiones", n).Msg("sesiones expiradas liberadas")
			}
		}
	}
}
