package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/phenrril/customseal/internal/domain"
)

type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (c Config) Enabled() bool { return c.Host != "" && c.From != "" }

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer avisa por email que las medidas quedaron registradas.
type Mailer struct {
	from   string
	sender sender
}

func New(cfg Config) *Mailer {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &Mailer{from: cfg.From, sender: gomail.NewDialer(cfg.Host, port, cfg.User, cfg.Pass)}
}

var bodyTmpl = template.Must(template.New("design").Parse(`{{if eq (print .Kind) "scan"}}<p>Thank you! Your face scan has been received.</p>
<p>We'll notify you at <strong>{{.Email}}</strong> when your seal is ready.</p>
<ul>
<li>Frame Style: {{.FrameName}}</li>
<li>Scan: {{.FileName}}</li>
</ul>{{else}}<p>Thank you! Your measurements have been recorded.</p>
<p>We'll notify you at <strong>{{.Email}}</strong> when the 3D model generation feature is ready.</p>
<ul>
<li>Frame Style: {{.FrameName}}</li>
<li>Face Width: {{.FaceWidth}}mm</li>
<li>Nose Bridge: {{.NoseBridge}}mm</li>
<li>Temple Length: {{.TempleLength}}mm</li>
</ul>{{end}}`))

func (m *Mailer) Message(d *domain.Design) (*gomail.Message, error) {
	if d.Email == "" {
		return nil, fmt.Errorf("design %s sin email", d.ID)
	}
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, d); err != nil {
		return nil, err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", d.Email)
	msg.SetHeader("Subject", "CustomSeal - your "+d.FrameName+" design")
	msg.SetBody("text/html", body.String())
	return msg, nil
}

func (m *Mailer) NotifyDesign(ctx context.Context, d *domain.Design) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.Message(d)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
