package domain

import (
	"math"
	"strconv"
	"strings"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "axis(" + strconv.Itoa(int(a)) + ")"
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "0":
		return AxisX, nil
	case "y", "1":
		return AxisY, nil
	case "z", "2":
		return AxisZ, nil
	}
	return 0, invalid("axis", "unknown axis %q", s)
}

const (
	PositionMin     = -2.0
	PositionMax     = 2.0
	RotationMin     = 0.0
	RotationMax     = 2 * math.Pi
	HeadRotationMin = -math.Pi
	HeadRotationMax = math.Pi
	ScaleMin        = 0.005
	ScaleMax        = 0.02
)

type Vec3 [3]float64

type Vec2 [2]float64

// Alignment guarda la transformación manual de los anteojos sobre la cabeza.
// Rotaciones en radianes.
type Alignment struct {
	GlassesPosition Vec3    `json:"glassesPosition"`
	GlassesRotation Vec3    `json:"glassesRotation"`
	GlassesScale    float64 `json:"glassesScale"`
	HeadRotation    Vec2    `json:"headRotation"`
}

func DefaultAlignment() Alignment {
	return Alignment{
		GlassesPosition: Vec3{-0.875, 0.405, -0.025},
		GlassesRotation: Vec3{0, math.Pi / 2, 0},
		GlassesScale:    0.01,
		HeadRotation:    Vec2{0, 0},
	}
}

func (a *Alignment) Reset() { *a = DefaultAlignment() }

func (a *Alignment) SetPosition(axis Axis, v float64) error {
	if err := checkAxis(axis, 3); err != nil {
		return err
	}
	if err := checkFinite("position", v); err != nil {
		return err
	}
	a.GlassesPosition[axis] = clamp(v, PositionMin, PositionMax)
	return nil
}

func (a *Alignment) SetRotation(axis Axis, v float64) error {
	if err := checkAxis(axis, 3); err != nil {
		return err
	}
	if err := checkFinite("rotation", v); err != nil {
		return err
	}
	a.GlassesRotation[axis] = clamp(v, RotationMin, RotationMax)
	return nil
}

// SetHeadRotation sólo admite x e y.
func (a *Alignment) SetHeadRotation(axis Axis, v float64) error {
	if err := checkAxis(axis, 2); err != nil {
		return err
	}
	if err := checkFinite("headRotation", v); err != nil {
		return err
	}
	a.HeadRotation[axis] = clamp(v, HeadRotationMin, HeadRotationMax)
	return nil
}

func (a *Alignment) SetScale(v float64) error {
	if err := checkFinite("scale", v); err != nil {
		return err
	}
	a.GlassesScale = clamp(v, ScaleMin, ScaleMax)
	return nil
}

type AlignmentParam string

const (
	ParamPosition     AlignmentParam = "position"
	ParamRotation     AlignmentParam = "rotation"
	ParamHeadRotation AlignmentParam = "headRotation"
	ParamScale        AlignmentParam = "scale"
)

// Set despacha al setter del parámetro; axis se ignora para la escala.
func (a *Alignment) Set(param AlignmentParam, axis Axis, v float64) error {
	switch param {
	case ParamPosition:
		return a.SetPosition(axis, v)
	case ParamRotation:
		return a.SetRotation(axis, v)
	case ParamHeadRotation:
		return a.SetHeadRotation(axis, v)
	case ParamScale:
		return a.SetScale(v)
	}
	return invalid("param", "unknown alignment parameter %q", string(param))
}

// ParseSlider convierte el texto de un range input a número finito.
func ParseSlider(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, invalid(field, "%q is not a number", text)
	}
	if err := checkFinite(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

func checkAxis(axis Axis, n int) error {
	if axis < 0 || int(axis) >= n {
		return invalid("axis", "axis %s not supported here", axis)
	}
	return nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "value must be a finite number")
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
