package domain

import (
	"time"

	"github.com/google/uuid"
)

type Step string

const (
	StepHome         Step = "home"
	StepFrames       Step = "frames"
	StepMeasurements Step = "measurements"
	StepPreview      Step = "preview"
	StepScan         Step = "scan"
	StepConfirmation Step = "confirmation"
)

var Steps = []Step{StepHome, StepFrames, StepMeasurements, StepPreview, StepScan, StepConfirmation}

func (s Step) Valid() bool {
	for _, v := range Steps {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStep(s string) (Step, error) {
	st := Step(s)
	if !st.Valid() {
		return "", invalid("step", "unknown step %q", s)
	}
	return st, nil
}

type SubmissionKind string

const (
	KindMeasurements SubmissionKind = "measurements"
	KindScan         SubmissionKind = "scan"
)

// Submission es el resultado del paso de carga: medidas o scan.
type Submission interface {
	Kind() SubmissionKind
	isSubmission()
}

type MeasurementsSubmission struct {
	Measurements
}

func (MeasurementsSubmission) Kind() SubmissionKind { return KindMeasurements }
func (MeasurementsSubmission) isSubmission()        {}

func (ScanSubmission) Kind() SubmissionKind { return KindScan }
func (ScanSubmission) isSubmission()        {}

// Session es el agregado del wizard. Sólo se modifica a través del controlador.
type Session struct {
	ID                uuid.UUID
	Step              Step
	Frame             *FrameStyle
	Scan              *ScanSubmission
	Measurements      *Measurements
	Alignment         Alignment
	AlignmentSnapshot *Alignment
	Submission        Submission
	// Recorded es el último diseño guardado para esta sesión; se reusa su ID.
	Recorded  *Design
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSession(id uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        id,
		Step:      StepHome,
		Alignment: DefaultAlignment(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clear vuelve la sesión al estado inicial. El handle del scan debe
// liberarse antes de llamar.
func (s *Session) Clear() {
	s.Step = StepHome
	s.Frame = nil
	s.Scan = nil
	s.Measurements = nil
	s.Alignment = DefaultAlignment()
	s.AlignmentSnapshot = nil
	s.Submission = nil
	s.Recorded = nil
}

type SubmissionView struct {
	Kind         SubmissionKind  `json:"kind"`
	Measurements *Measurements   `json:"measurements,omitempty"`
	Scan         *ScanSubmission `json:"scan,omitempty"`
}

// SessionView es la foto plana que recibe cada pantalla.
type SessionView struct {
	ID                string          `json:"id"`
	Step              Step            `json:"step"`
	Frame             *FrameStyle     `json:"selectedFrame"`
	Scan              *ScanSubmission `json:"scan"`
	Measurements      *Measurements   `json:"measurements"`
	Alignment         Alignment       `json:"alignment"`
	AlignmentSnapshot *Alignment      `json:"alignmentSnapshot,omitempty"`
	Submission        *SubmissionView `json:"submission,omitempty"`
}

func (s *Session) View() SessionView {
	v := SessionView{
		ID:        s.ID.String(),
		Step:      s.Step,
		Alignment: s.Alignment,
	}
	if s.Frame != nil {
		f := *s.Frame
		v.Frame = &f
	}
	if s.Scan != nil {
		sc := *s.Scan
		v.Scan = &sc
	}
	if s.Measurements != nil {
		m := *s.Measurements
		v.Measurements = &m
	}
	if s.AlignmentSnapshot != nil {
		a := *s.AlignmentSnapshot
		v.AlignmentSnapshot = &a
	}
	switch sub := s.Submission.(type) {
	case MeasurementsSubmission:
		m := sub.Measurements
		v.Submission = &SubmissionView{Kind: KindMeasurements, Measurements: &m}
	case ScanSubmission:
		sc := sub
		v.Submission = &SubmissionView{Kind: KindScan, Scan: &sc}
	}
	return v
}
