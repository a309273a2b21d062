package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phenrril/customseal/internal/domain"
)

//go:embed frames.yaml
var defaultFrames []byte

// Catalog es la lista de estilos de marco, inmutable después de cargarla.
type Catalog struct {
	frames []domain.FrameStyle
	byID   map[string]int
}

// Load lee el catálogo de path; vacío usa el catálogo embebido.
func Load(path string) (*Catalog, error) {
	data := defaultFrames
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leer catálogo: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Default() *Catalog {
	c, err := Parse(defaultFrames)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Frames []domain.FrameStyle `yaml:"frames"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catálogo inválido: %w", err)
	}
	if len(doc.Frames) == 0 {
		return nil, errors.New("catálogo vacío")
	}
	c := &Catalog{byID: make(map[string]int, len(doc.Frames))}
	for i, f := range doc.Frames {
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			return nil, fmt.Errorf("frame %d sin id", i)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("frame duplicado: %s", f.ID)
		}
		c.byID[f.ID] = len(c.frames)
		c.frames = append(c.frames, f)
	}
	return c, nil
}

func (c *Catalog) List() []domain.FrameStyle {
	out := make([]domain.FrameStyle, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *Catalog) Find(id string) (domain.FrameStyle, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.FrameStyle{}, false
	}
	return c.frames[i], true
}
