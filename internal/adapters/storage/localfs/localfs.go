package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/customseal/internal/domain"
)

// Storage guarda los scans en disco bajo root/scans/<sesión>/ y los expone
// bajo urlPrefix para el visor 3D.
type Storage struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

func New(root, urlPrefix string, maxBytes int64) *Storage {
	return &Storage{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxBytes: maxBytes}
}

var ErrTooLarge = errors.New("archivo demasiado grande")

func (s *Storage) SaveScan(ctx context.Context, sessionID uuid.UUID, fileName string, r io.Reader) (domain.ScanHandle, int64, error) {
	if err := ctx.Err(); err != nil {
		return domain.ScanHandle{}, 0, err
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	key := path.Join("scans", sessionID.String(), uuid.NewString()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return domain.ScanHandle{}, 0, fmt.Errorf("mkdir scans: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return domain.ScanHandle{}, 0, fmt.Errorf("crear scan: %w", err)
	}
	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(full)
		return domain.ScanHandle{}, 0, err
	}
	return domain.ScanHandle{Key: key, URL: s.urlPrefix + "/" + key}, n, nil
}

// Release borra el archivo; si ya no existe no es error.
func (s *Storage) Release(_ context.Context, h domain.ScanHandle) error {
	if h.IsZero() {
		return nil
	}
	clean := path.Clean("/" + h.Key)
	if !strings.HasPrefix(clean, "/scans/") {
		return fmt.Errorf("key fuera de scans: %q", h.Key)
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	// el directorio de la sesión sólo se borra si quedó vacío
	_ = os.Remove(filepath.Dir(full))
	return nil
}

func (s *Storage) Root() string { return s.root }
