package usecase

import (
	"context"
	"io"

	"github.com/phenrril/customseal/internal/domain"
)

type EventKind string

const (
	EventGetStarted         EventKind = "get_started"
	EventSelectFrame        EventKind = "select_frame"
	EventSubmitMeasurements EventKind = "submit_measurements"
	EventStageFile          EventKind = "stage_file"
	EventChangeFile         EventKind = "change_file"
	EventSubmitScan         EventKind = "submit_scan"
	EventContinue           EventKind = "continue"
	EventBack               EventKind = "back"
	EventStartOver          EventKind = "start_over"
)

type Upload struct {
	FileName string
	Body     io.Reader
}

// Event es una acción del usuario. Sólo se leen los campos del Kind.
type Event struct {
	Kind         EventKind
	FrameID      string
	Measurements domain.Measurements
	Upload       *Upload
}

type guardFunc func(s *domain.Session, ev Event) error

type effectFunc func(ctx context.Context, s *domain.Session, ev Event) error

// transition con to vacío deja la sesión en el mismo paso.
type transition struct {
	to     domain.Step
	guards []guardFunc
	effect effectFunc
}

type transitionTable map[domain.Step]map[EventKind]transition

func (t transitionTable) add(from domain.Step, ev EventKind, tr transition) {
	if t[from] == nil {
		t[from] = map[EventKind]transition{}
	}
	t[from][ev] = tr
}

func (t transitionTable) lookup(from domain.Step, ev EventKind) (transition, bool) {
	tr, ok := t[from][ev]
	return tr, ok
}

func (uc *WizardUC) buildTable() transitionTable {
	steps := uc.flow.Steps()
	t := transitionTable{}

	t.add(domain.StepHome, EventGetStarted, transition{to: domain.StepFrames})
	t.add(domain.StepFrames, EventSelectFrame, transition{
		to:     steps[2],
		guards: []guardFunc{uc.frameInCatalog},
		effect: uc.recordFrame,
	})

	switch uc.flow {
	case FlowMeasurements:
		t.add(domain.StepMeasurements, EventSubmitMeasurements, transition{
			to:     domain.StepConfirmation,
			guards: []guardFunc{requireFrame(domain.StepMeasurements), measurementsComplete},
			effect: uc.recordMeasurements,
		})
	default:
		t.add(domain.StepPreview, EventContinue, transition{
			to:     domain.StepScan,
			guards: []guardFunc{requireFrame(domain.StepPreview)},
			effect: snapshotAlignment,
		})
		t.add(domain.StepScan, EventStageFile, transition{
			guards: []guardFunc{requireFrame(domain.StepScan), uploadAllowed},
			effect: uc.stageFile,
		})
		t.add(domain.StepScan, EventChangeFile, transition{effect: uc.clearStaged})
		t.add(domain.StepScan, EventSubmitScan, transition{
			to:     domain.StepConfirmation,
			guards: []guardFunc{requireFrame(domain.StepScan), fileStaged},
			effect: uc.recordScan,
		})
	}

	t.add(domain.StepConfirmation, EventStartOver, transition{to: domain.StepHome, effect: uc.resetEffect})

	for i := 1; i < len(steps); i++ {
		t.add(steps[i], EventBack, transition{to: steps[i-1]})
	}
	return t
}

func (uc *WizardUC) frameInCatalog(_ *domain.Session, ev Event) error {
	if _, ok := uc.Catalog.Find(ev.FrameID); !ok {
		return &domain.ValidationError{Field: "frame", Message: "unknown frame style"}
	}
	return nil
}

func requireFrame(step domain.Step) guardFunc {
	return func(s *domain.Session, _ Event) error {
		if s.Frame == nil {
			return &domain.MissingPrerequisiteError{Step: step, Missing: "selected frame", Redirect: domain.StepFrames}
		}
		return nil
	}
}

func measurementsComplete(_ *domain.Session, ev Event) error {
	return ev.Measurements.Validate()
}

func uploadAllowed(_ *domain.Session, ev Event) error {
	if ev.Upload == nil || ev.Upload.Body == nil {
		return &domain.ValidationError{Field: "file", Message: "choose a file to upload"}
	}
	return domain.ValidateScanFileName(ev.Upload.FileName)
}

func fileStaged(s *domain.Session, _ Event) error {
	if s.Scan == nil {
		return &domain.ValidationError{Field: "file", Message: "upload a scan before continuing"}
	}
	return nil
}

func (uc *WizardUC) recordFrame(_ context.Context, s *domain.Session, ev Event) error {
	f, _ := uc.Catalog.Find(ev.FrameID)
	s.Frame = &f
	// otro marco invalida lo enviado y la alineación registrada
	s.Submission = nil
	s.AlignmentSnapshot = nil
	return nil
}

func (uc *WizardUC) recordMeasurements(ctx context.Context, s *domain.Session, ev Event) error {
	m := ev.Measurements.Normalized()
	s.Measurements = &m
	s.Submission = domain.MeasurementsSubmission{Measurements: m}
	uc.persistDesign(ctx, s)
	return nil
}

func snapshotAlignment(_ context.Context, s *domain.Session, _ Event) error {
	a := s.Alignment
	s.AlignmentSnapshot = &a
	return nil
}

func (uc *WizardUC) stageFile(ctx context.Context, s *domain.Session, ev Event) error {
	h, size, err := uc.Scans.SaveScan(ctx, s.ID, ev.Upload.FileName, ev.Upload.Body)
	if err != nil {
		return err
	}
	uc.release(ctx, s.Scan)
	s.Scan = &domain.ScanSubmission{FileName: ev.Upload.FileName, SizeBytes: size, Handle: h}
	s.Submission = nil
	return nil
}

func (uc *WizardUC) clearStaged(ctx context.Context, s *domain.Session, _ Event) error {
	uc.release(ctx, s.Scan)
	s.Scan = nil
	s.Submission = nil
	return nil
}

func (uc *WizardUC) recordScan(ctx context.Context, s *domain.Session, _ Event) error {
	// el handle queda en s.Scan, la submission sólo lleva metadatos
	s.Submission = domain.ScanSubmission{FileName: s.Scan.FileName, SizeBytes: s.Scan.SizeBytes}
	uc.persistDesign(ctx, s)
	return nil
}

func (uc *WizardUC) resetEffect(ctx context.Context, s *domain.Session, _ Event) error {
	uc.reset(ctx, s)
	return nil
}
