package views

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

//go:embed *.html
var FS embed.FS

func funcMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"stepTitle": func(step any) string {
			s := fmt.Sprint(step)
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"json": func(v any) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "{}"
			}
			return string(b)
		},
		"bytes": func(n int64) string {
			switch {
			case n >= 1<<20:
				return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
			case n >= 1<<10:
				return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
			}
			return fmt.Sprintf("%d B", n)
		},
	}
}

// Parse carga las vistas embebidas; con dir no vacío lee del disco (dev).
func Parse(dir string) (*template.Template, error) {
	t := template.New("layout").Funcs(funcMap())
	if dir != "" {
		return t.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return t.ParseFS(FS, "*.html")
}
