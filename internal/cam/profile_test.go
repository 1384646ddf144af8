package cam

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile DeviceProfile
		wantErr bool
	}{
		{"zero value", DeviceProfile{}, false},
		{"full valid", DeviceProfile{QuantLevels: 8, Noise: NoiseGaussian, NoiseScale: 0.1, StuckAtRate: 0.01, StuckAtValue: 0, Seed: 42}, false},
		{"negative levels", DeviceProfile{QuantLevels: -1}, true},
		{"unknown noise", DeviceProfile{Noise: "cosmic"}, true},
		{"negative scale", DeviceProfile{Noise: NoiseGaussian, NoiseScale: -0.5}, true},
		{"rate above one", DeviceProfile{StuckAtRate: 1.01}, true},
		{"negative rate", DeviceProfile{StuckAtRate: -0.01}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileValidateDoesNotMutate(t *testing.T) {
	p := DeviceProfile{QuantLevels: 4, StuckAtRate: 0.1, Seed: 7}
	before := p
	require.NoError(t, p.Validate())
	assert.Equal(t, before, p, "shared profiles must not change under validation")
	assert.Equal(t, NoiseModel(""), p.Noise)
}

func TestLoadProfileDefaultsNoise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quantization_levels: 4\n"), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, NoiseNone, p.Noise)
}

func TestLoadProfileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `quantization_levels: 16
noise_model: lognormal
noise_scale: 0.05
stuck_at_rate: 0.001
stuck_at_value: 0
seed: 1234
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 16, p.QuantLevels)
	assert.Equal(t, NoiseLognormal, p.Noise)
	assert.InDelta(t, 0.05, p.NoiseScale, 1e-9)
	assert.InDelta(t, 0.001, p.StuckAtRate, 1e-9)
	assert.Equal(t, int64(1234), p.Seed)
}

func TestLoadProfileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	content := `{
  "quantization_levels": 4,
  "noise_model": "gaussian",
  "noise_scale": 0.2,
  "stuck_at_rate": 0.1,
  "stuck_at_value": 1,
  "seed": 7
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, p.QuantLevels)
	assert.Equal(t, NoiseGaussian, p.Noise)
	assert.Equal(t, float32(1), p.StuckAtValue)
}

func TestLoadProfileInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stuck_at_rate: 2.0\n"), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestLoadProfileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
