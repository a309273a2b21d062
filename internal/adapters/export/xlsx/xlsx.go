package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/customseal/internal/domain"
)

const sheet = "Designs"

var headers = []any{
	"id", "created_at", "kind", "frame_id", "frame_name",
	"face_width_mm", "nose_bridge_mm", "temple_length_mm", "email",
	"file_name", "file_size_bytes",
	"pos_x", "pos_y", "pos_z", "rot_x", "rot_y", "rot_z", "scale", "head_x", "head_y",
	"notified",
}

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

// WriteDesigns escribe una hoja con una fila por diseño.
func (Exporter) WriteDesigns(w io.Writer, designs []domain.Design) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, d := range designs {
		row := []any{
			d.ID.String(), d.CreatedAt.UTC().Format("2006-01-02 15:04:05"), string(d.Kind), d.FrameID, d.FrameName,
			d.FaceWidth, d.NoseBridge, d.TempleLength, d.Email,
			d.FileName, d.FileSizeBytes,
		}
		if a := d.Alignment; a != nil {
			row = append(row,
				a.GlassesPosition[0], a.GlassesPosition[1], a.GlassesPosition[2],
				a.GlassesRotation[0], a.GlassesRotation[1], a.GlassesRotation[2],
				a.GlassesScale, a.HeadRotation[0], a.HeadRotation[1])
		} else {
			row = append(row, "", "", "", "", "", "", "", "", "")
		}
		row = append(row, d.Notified)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("fila %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
