package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/phenrril/customseal/internal/domain"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, m...)
	return nil
}

func testDesign() *domain.Design {
	return &domain.Design{
		ID:           uuid.New(),
		Kind:         domain.KindMeasurements,
		FrameName:    "Round Style",
		FaceWidth:    "140",
		NoseBridge:   "18",
		TempleLength: "145",
		Email:        "a@b.com",
	}
}

func TestNotifyDesign(t *testing.T) {
	cs := &captureSender{}
	m := &Mailer{from: "seal@example.com", sender: cs}

	require.NoError(t, m.NotifyDesign(context.Background(), testDesign()))
	require.Len(t, cs.msgs, 1)
	msg := cs.msgs[0]
	require.Equal(t, []string{"a@b.com"}, msg.GetHeader("To"))
	require.Equal(t, []string{"seal@example.com"}, msg.GetHeader("From"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Round Style")
}

func TestNotifyDesignErrors(t *testing.T) {
	cs := &captureSender{err: errors.New("refused")}
	m := &Mailer{from: "seal@example.com", sender: cs}
	require.ErrorContains(t, m.NotifyDesign(context.Background(), testDesign()), "refused")

	d := testDesign()
	d.Email = ""
	require.Error(t, (&Mailer{from: "x@y.z", sender: &captureSender{}}).NotifyDesign(context.Background(), d))
}

func TestConfigEnabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.False(t, Config{Host: "smtp.local"}.Enabled())
	require.True(t, Config{Host: "smtp.local", From: "a@b.c"}.Enabled())
}

func TestMessageBodyFollowsKind(t *testing.T) {
	m := &Mailer{from: "seal@example.com", sender: &captureSender{}}

	body := func(d *domain.Design) string {
		msg, err := m.Message(d)
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = msg.WriteTo(&buf)
		require.NoError(t, err)
		return buf.String()
	}

	measured := body(testDesign())
	require.Contains(t, measured, "Your measurements have been recorded")
	require.Contains(t, measured, "Face Width: 140mm")

	d := testDesign()
	d.Kind = domain.KindScan
	d.FaceWidth, d.NoseBridge, d.TempleLength = "", "", ""
	d.FileName = "head.glb"
	scanned := body(d)
	require.Contains(t, scanned, "Your face scan has been received")
	require.Contains(t, scanned, "head.glb")
	require.NotContains(t, scanned, "measurements have been recorded")
	require.NotContains(t, scanned, "Face Width")
}
