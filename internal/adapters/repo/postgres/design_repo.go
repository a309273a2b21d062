package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/customseal/internal/domain"
)

type DesignRepo struct{ db *gorm.DB }

func NewDesignRepo(db *gorm.DB) *DesignRepo { return &DesignRepo{db: db} }

func (r *DesignRepo) Save(ctx context.Context, d *domain.Design) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.Email != "" {
		d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	}
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DesignRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	var d domain.Design
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DesignRepo) List(ctx context.Context, f domain.DesignFilter) ([]domain.Design, int64, error) {
	var list []domain.Design
	q := r.db.WithContext(ctx).Model(&domain.Design{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.FrameID != "" {
		q = q.Where("frame_id = ?", f.FrameID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	offset := (f.Page - 1) * f.PageSize
	if err := q.Order("created_at desc").Offset(offset).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Migrate crea la tabla de diseños y sus índices.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Design{}); err != nil {
		return err
	}
	_ = db.Exec("CREATE INDEX IF NOT EXISTS idx_designs_created_at ON designs(created_at DESC)").Error
	return nil
}
