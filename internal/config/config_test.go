package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "tourist_data", cfg.DataRoot)
	assert.InDelta(t, 0.5, cfg.DetectionThreshold, 0.0001)
	assert.Equal(t, 1, cfg.PersonClassID)
	assert.Equal(t, 0, cfg.CameraDevice)
	assert.InDelta(t, 1.5, cfg.DefaultGain, 0.0001)
	assert.Equal(t, "gamma", cfg.Enhancer)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join("tourist_data", "images"), cfg.ImageDirectory())
	assert.Equal(t, filepath.Join("tourist_data", "tourist_survey.xlsx"), cfg.SurveyFile())
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATA_ROOT", "/srv/kiosk")
	t.Setenv("PORT", "9090")
	t.Setenv("ENHANCER", "linear")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/kiosk", cfg.DataRoot)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "linear", cfg.Enhancer)
	assert.Equal(t, filepath.Join("/srv/kiosk", "tourist_survey.xlsx"), cfg.SurveyFile())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
port: 7000
camera_device: 2
detection_threshold: 0.7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 2, cfg.CameraDevice)
	assert.InDelta(t, 0.7, cfg.DetectionThreshold, 0.0001)
	// Defaults still apply for unset values
	assert.Equal(t, "gamma", cfg.Enhancer)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}
