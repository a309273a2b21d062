package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

type DesignRepo interface {
	Save(ctx context.Context, d *Design) error
	FindByID(ctx context.Context, id uuid.UUID) (*Design, error)
	List(ctx context.Context, f DesignFilter) ([]Design, int64, error)
}

type DesignExporter interface {
	WriteDesigns(w io.Writer, designs []Design) error
}

type Notifier interface {
	NotifyDesign(ctx context.Context, d *Design) error
}

// ScanStorage guarda el archivo subido y lo libera al reemplazarlo o resetear.
type ScanStorage interface {
	SaveScan(ctx context.Context, sessionID uuid.UUID, fileName string, r io.Reader) (ScanHandle, int64, error)
	Release(ctx context.Context, h ScanHandle) error
}

// SessionRepo serializa el acceso a cada sesión: fn corre con la sesión bloqueada.
type SessionRepo interface {
	Create(ctx context.Context) (*Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	Sweep(ctx context.Context, idleBefore time.Time, fn func(*Session)) (int, error)
}
