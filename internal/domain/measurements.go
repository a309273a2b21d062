package domain

import "strings"

type Measurements struct {
	FaceWidth    string `json:"faceWidth"`
	NoseBridge   string `json:"noseBridge"`
	TempleLength string `json:"templeLength"`
	Email        string `json:"email"`
}

// Validate acepta el formulario sólo si los cuatro campos tienen valor.
func (m Measurements) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"faceWidth", m.FaceWidth},
		{"noseBridge", m.NoseBridge},
		{"templeLength", m.TempleLength},
		{"email", m.Email},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "this field is required")
		}
	}
	return nil
}

func (m Measurements) Normalized() Measurements {
	return Measurements{
		FaceWidth:    strings.TrimSpace(m.FaceWidth),
		NoseBridge:   strings.TrimSpace(m.NoseBridge),
		TempleLength: strings.TrimSpace(m.TempleLength),
		Email:        strings.ToLower(strings.TrimSpace(m.Email)),
	}
}
