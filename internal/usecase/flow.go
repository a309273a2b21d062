package usecase

import (
	"fmt"
	"strings"

	"github.com/phenrril/customseal/internal/domain"
)

// Flow es la variante del wizard: con medidas manuales o con scan 3D.
type Flow string

const (
	FlowMeasurements Flow = "measurements"
	FlowScan         Flow = "scan"
)

func ParseFlow(s string) (Flow, error) {
	switch Flow(strings.ToLower(strings.TrimSpace(s))) {
	case "", FlowScan:
		return FlowScan, nil
	case FlowMeasurements:
		return FlowMeasurements, nil
	}
	return "", fmt.Errorf("flow desconocido: %q", s)
}

// Steps devuelve el orden lineal de pasos de la variante.
func (f Flow) Steps() []domain.Step {
	if f == FlowMeasurements {
		return []domain.Step{domain.StepHome, domain.StepFrames, domain.StepMeasurements, domain.StepConfirmation}
	}
	return []domain.Step{domain.StepHome, domain.StepFrames, domain.StepPreview, domain.StepScan, domain.StepConfirmation}
}

func (f Flow) Has(step domain.Step) bool {
	for _, s := range f.Steps() {
		if s == step {
			return true
		}
	}
	return false
}

// Previous es el destino de "back"; home no tiene anterior.
func (f Flow) Previous(step domain.Step) (domain.Step, bool) {
	steps := f.Steps()
	for i, s := range steps {
		if s == step && i > 0 {
			return steps[i-1], true
		}
	}
	return "", false
}

// SubmissionStep es el paso que produce la Submission.
func (f Flow) SubmissionStep() domain.Step {
	if f == FlowMeasurements {
		return domain.StepMeasurements
	}
	return domain.StepScan
}
