package domain

import (
	"path/filepath"
	"strings"
)

var ScanExtensions = []string{".obj", ".ply", ".stl", ".glb", ".gltf"}

const InvalidScanTypeMessage = "Invalid file type. Please upload an OBJ, PLY, STL, GLB, or GLTF file."

// ValidateScanFileName chequea sólo la extensión; el contenido no se inspecciona.
func ValidateScanFileName(name string) error {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	for _, allowed := range ScanExtensions {
		if ext == allowed {
			return nil
		}
	}
	return invalid("file", InvalidScanTypeMessage)
}

// ScanHandle referencia el archivo subido mientras dure la sesión.
type ScanHandle struct {
	Key string `json:"-"`
	URL string `json:"url,omitempty"`
}

func (h ScanHandle) IsZero() bool { return h.Key == "" }

type ScanSubmission struct {
	FileName  string     `json:"fileName"`
	SizeBytes int64      `json:"fileSizeBytes"`
	Handle    ScanHandle `json:"preview"`
}
