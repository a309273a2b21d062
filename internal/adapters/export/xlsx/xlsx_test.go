package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/customseal/internal/domain"
)

func TestWriteDesigns(t *testing.T) {
	a := domain.DefaultAlignment()
	designs := []domain.Design{
		{
			ID: uuid.New(), Kind: domain.KindMeasurements, FrameID: "round", FrameName: "Round Style",
			FaceWidth: "140", NoseBridge: "18", TempleLength: "145", Email: "a@b.com",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Notified: true,
		},
		{
			ID: uuid.New(), Kind: domain.KindScan, FrameID: "aviator", FrameName: "Aviator Style",
			FileName: "face.stl", FileSizeBytes: 2048, Alignment: &a,
			CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, New().WriteDesigns(&buf, designs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "id", rows[0][0])
	require.Equal(t, "notified", rows[0][len(rows[0])-1])

	require.Equal(t, "measurements", rows[1][2])
	require.Equal(t, "a@b.com", rows[1][8])
	require.Equal(t, "2026-03-01 10:00:00", rows[1][1])

	require.Equal(t, "scan", rows[2][2])
	require.Equal(t, "face.stl", rows[2][9])
	require.Equal(t, "2048", rows[2][10])
	require.Equal(t, "0.01", rows[2][17])
}

func TestWriteDesignsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().WriteDesigns(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
