package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	for _, s := range Steps {
		got, err := ParseStep(string(s))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := ParseStep("checkout")
	require.True(t, IsValidation(err))
}

func TestSessionClear(t *testing.T) {
	s := NewSession(uuid.New(), time.Now())
	s.Step = StepConfirmation
	s.Frame = &FrameStyle{ID: "round"}
	s.Measurements = &Measurements{Email: "a@b.com"}
	s.Scan = &ScanSubmission{FileName: "a.stl"}
	s.Submission = MeasurementsSubmission{Measurements: *s.Measurements}
	snap := DefaultAlignment()
	s.AlignmentSnapshot = &snap
	require.NoError(t, s.Alignment.SetScale(0.02))

	s.Clear()
	require.Equal(t, StepHome, s.Step)
	require.Nil(t, s.Frame)
	require.Nil(t, s.Scan)
	require.Nil(t, s.Measurements)
	require.Nil(t, s.Submission)
	require.Nil(t, s.AlignmentSnapshot)
	require.Equal(t, DefaultAlignment(), s.Alignment)
}

func TestSessionViewSubmissionTag(t *testing.T) {
	s := NewSession(uuid.New(), time.Now())
	s.Frame = &FrameStyle{ID: "aviator", Name: "Aviator Style"}
	s.Submission = ScanSubmission{FileName: "face.ply", SizeBytes: 2048}

	v := s.View()
	require.NotNil(t, v.Submission)
	require.Equal(t, KindScan, v.Submission.Kind)
	require.Nil(t, v.Submission.Measurements)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"kind":"scan"`)
	require.Contains(t, string(raw), `"fileName":"face.ply"`)

	// la vista es una copia
	v.Frame.Name = "changed"
	require.Equal(t, "Aviator Style", s.Frame.Name)
}

func TestNewDesign(t *testing.T) {
	s := NewSession(uuid.New(), time.Now())
	_, err := NewDesign(s, time.Now())
	require.True(t, IsMissingPrerequisite(err))

	s.Frame = &FrameStyle{ID: "round", Name: "Round Style"}
	_, err = NewDesign(s, time.Now())
	require.True(t, IsMissingPrerequisite(err))

	s.Submission = MeasurementsSubmission{Measurements{FaceWidth: "140", NoseBridge: "18", TempleLength: "145", Email: "a@b.com"}}
	d, err := NewDesign(s, time.Now())
	require.NoError(t, err)
	require.Equal(t, KindMeasurements, d.Kind)
	require.Equal(t, "round", d.FrameID)
	require.Equal(t, "a@b.com", d.Email)
	require.Equal(t, s.ID, d.SessionID)
	require.Nil(t, d.Alignment)
}
