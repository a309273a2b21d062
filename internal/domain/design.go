package domain

import (
	"time"

	"github.com/google/uuid"
)

// Design es el registro persistido de un wizard confirmado.
type Design struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionID     uuid.UUID      `gorm:"type:uuid;index"`
	Kind          SubmissionKind `gorm:"type:varchar(20);index"`
	FrameID       string         `gorm:"size:60;index"`
	FrameName     string         `gorm:"size:140"`
	FaceWidth     string         `gorm:"size:20"`
	NoseBridge    string         `gorm:"size:20"`
	TempleLength  string         `gorm:"size:20"`
	Email         string         `gorm:"size:140;index"`
	FileName      string         `gorm:"size:255"`
	FileSizeBytes int64          `gorm:"default:0"`
	Alignment     *Alignment     `gorm:"type:jsonb;serializer:json"`
	Notified      bool           `gorm:"not null;default:false"`

	CreatedAt time.Time
}

// NewDesign arma el registro a partir de una sesión con submission.
func NewDesign(s *Session, now time.Time) (*Design, error) {
	if s.Frame == nil {
		return nil, &MissingPrerequisiteError{Step: StepConfirmation, Missing: "selected frame", Redirect: StepFrames}
	}
	d := &Design{
		ID:        uuid.New(),
		SessionID: s.ID,
		FrameID:   s.Frame.ID,
		FrameName: s.Frame.Name,
		CreatedAt: now,
	}
	if s.AlignmentSnapshot != nil {
		a := *s.AlignmentSnapshot
		d.Alignment = &a
	}
	switch sub := s.Submission.(type) {
	case MeasurementsSubmission:
		d.Kind = KindMeasurements
		d.FaceWidth = sub.FaceWidth
		d.NoseBridge = sub.NoseBridge
		d.TempleLength = sub.TempleLength
		d.Email = sub.Email
	case ScanSubmission:
		d.Kind = KindScan
		d.FileName = sub.FileName
		d.FileSizeBytes = sub.SizeBytes
	default:
		return nil, &MissingPrerequisiteError{Step: StepConfirmation, Missing: "submission", Redirect: StepFrames}
	}
	return d, nil
}

type DesignFilter struct {
	Kind     SubmissionKind
	FrameID  string
	Page     int
	PageSize int
}
