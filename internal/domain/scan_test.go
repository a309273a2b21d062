package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateScanFileName(t *testing.T) {
	accepted := []string{"scan.STL", "face.obj", "head.Ply", "model.glb", "model.GLTF", "my.face.scan.stl"}
	for _, name := range accepted {
		require.NoError(t, ValidateScanFileName(name), name)
	}

	rejected := []string{"scan.stlx", "scan", "scan.", "photo.jpg", "scan.stl.zip", ""}
	for _, name := range rejected {
		err := ValidateScanFileName(name)
		require.Error(t, err, name)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, InvalidScanTypeMessage, ve.Message)
	}
}
