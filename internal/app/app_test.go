package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phenrril/customseal/internal/config"
	"github.com/phenrril/customseal/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		AppEnv:      "test",
		StorageDir:  t.TempDir(),
		MaxUploadMB: 5,
		WizardFlow:  "measurements",
		SessionKey:  "k",
	}
}

func TestNewAppWithoutDatabase(t *testing.T) {
	a, err := NewApp(testConfig(t), nil)
	require.NoError(t, err)
	require.Nil(t, a.DesignUC)
	require.Nil(t, a.OAuthConfig)
	require.Equal(t, usecase.FlowMeasurements, a.WizardUC.Flow())
	require.Len(t, a.Catalog.List(), 4)
	require.NoError(t, a.Migrate())

	rec := httptest.NewRecorder()
	a.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestNewAppRejectsUnknownFlow(t *testing.T) {
	cfg := testConfig(t)
	cfg.WizardFlow = "wizardry"
	_, err := NewApp(cfg, nil)
	require.Error(t, err)
}
