package views

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmbedded(t *testing.T) {
	tmpl, err := Parse("")
	require.NoError(t, err)
	for _, name := range []string{"home.html", "frames.html", "measurements.html", "preview.html", "scan.html", "confirmation.html", "header", "footer", "back"} {
		require.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestBytesFunc(t *testing.T) {
	f := funcMap()["bytes"].(func(int64) string)
	require.Equal(t, "512 B", f(512))
	require.Equal(t, "2.0 KB", f(2048))
	require.Equal(t, "1.5 MB", f(3<<19))
}
