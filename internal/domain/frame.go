package domain

type FrameStyle struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	Popular     bool   `json:"popular" yaml:"popular"`
}

// FrameCatalog es la lista fija y ordenada de estilos, cargada una vez al inicio.
type FrameCatalog interface {
	List() []FrameStyle
	Find(id string) (FrameStyle, bool)
}
