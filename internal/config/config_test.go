package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/eelog/eelog-go/internal/config"
)

func TestLoad_Valid(t *testing.T) {
	f, err := config.Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, f.Version)
	assert.Equal(t, `C:\Users\tenno\AppData\Local\Warframe\EE.log`, f.LogPath)
	require.NotNil(t, f.PollInterval)
	assert.Equal(t, 5*time.Second, f.PollInterval.Std())
	require.NotNil(t, f.Debounce)
	assert.Equal(t, time.Duration(0), f.Debounce.Std())
	require.NotNil(t, f.UTC)
	assert.True(t, *f.UTC)
	require.NotNil(t, f.NoiseFilter)
	assert.False(t, *f.NoiseFilter)
	assert.Equal(t, []string{"Lotus", "Ordis"}, f.IgnoredVictims)
	require.NotNil(t, f.MaxFileSize)
	assert.Equal(t, int64(1048576), *f.MaxFileSize)
}

func TestLoad_Minimal(t *testing.T) {
	f, err := config.Load("testdata/minimal.yaml")
	require.NoError(t, err)
	assert.Empty(t, f.LogPath)
	assert.Nil(t, f.PollInterval)
	assert.Nil(t, f.Debounce)
	assert.Nil(t, f.UTC)
	assert.Nil(t, f.NoiseFilter)
	assert.Nil(t, f.MaxFileSize)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		file  string
		field string
	}{
		{"testdata/unsupported_version.yaml", "version"},
		{"testdata/poll_too_short.yaml", "poll_interval"},
		{"testdata/empty_victim.yaml", "ignored_victims[1]"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.file), func(t *testing.T) {
			_, err := config.Load(tt.file)
			require.Error(t, err)
			var valErr *config.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	for _, file := range []string{"testdata/bad_duration.yaml", "testdata/unknown_field.yaml"} {
		t.Run(filepath.Base(file), func(t *testing.T) {
			_, err := config.Load(file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse YAML")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NotContains(t, err.Error(), path)
}

func TestLoad_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	data := "version: 1\n# " + strings.Repeat("x", config.MaxFileSize) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadBytes_Empty(t *testing.T) {
	_, err := config.LoadBytes(nil)
	assert.Error(t, err)
}

func TestLoadBytes_NegativeValues(t *testing.T) {
	_, err := config.LoadBytes([]byte("version: 1\ndebounce: -1s\n"))
	var valErr *config.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "debounce", valErr.Field)

	_, err = config.LoadBytes([]byte("version: 1\nmax_file_size: -1\n"))
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "max_file_size", valErr.Field)
}

func TestDuration_MarshalYAML(t *testing.T) {
	d := config.Duration(250 * time.Millisecond)
	out, err := yaml.Marshal(struct {
		Debounce config.Duration `yaml:"debounce"`
	}{d})
	require.NoError(t, err)
	assert.Equal(t, "debounce: 250ms\n", string(out))
}
