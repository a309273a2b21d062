package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/phenrril/customseal/internal/domain"
)

type DesignUC struct {
	Designs  domain.DesignRepo
	Exporter domain.DesignExporter
}

func (uc *DesignUC) List(ctx context.Context, f domain.DesignFilter) ([]domain.Design, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 50
	}
	return uc.Designs.List(ctx, f)
}

func (uc *DesignUC) Get(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	if id == uuid.Nil {
		return nil, errors.New("design id vacío")
	}
	return uc.Designs.FindByID(ctx, id)
}

// Export escribe todos los diseños que matchean el filtro, paginando.
func (uc *DesignUC) Export(ctx context.Context, w io.Writer, f domain.DesignFilter) (int, error) {
	if uc.Exporter == nil {
		return 0, errors.New("exporter no configurado")
	}
	const pageSize = 200
	var all []domain.Design
	f.PageSize = pageSize
	for page := 1; ; page++ {
		f.Page = page
		list, total, err := uc.Designs.List(ctx, f)
		if err != nil {
			return 0, err
		}
		all = append(all, list...)
		if len(list) == 0 || page*pageSize >= int(total) {
			break
		}
	}
	if err := uc.Exporter.WriteDesigns(w, all); err != nil {
		return 0, err
	}
	return len(all), nil
}
