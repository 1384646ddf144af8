package cam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// NoiseModel names a stochastic perturbation model.
type NoiseModel string

// Supported noise models.
const (
	// NoiseNone disables stochastic perturbation.
	NoiseNone NoiseModel = "none"

	// NoiseGaussian adds N(0, scale²) to every value.
	NoiseGaussian NoiseModel = "gaussian"

	// NoiseLognormal multiplies every value by exp(N(0, scale²)),
	// the usual conductance-variation model.
	NoiseLognormal NoiseModel = "lognormal"

	// NoiseBitflip flips each binary value with probability scale.
	// Only meaningful for binary and ternary domains; don't-care cells
	// are never flipped.
	NoiseBitflip NoiseModel = "bitflip"
)

func (m NoiseModel) valid() bool {
	switch m {
	case NoiseNone, NoiseGaussian, NoiseLognormal, NoiseBitflip:
		return true
	default:
		return false
	}
}

// DeviceProfile is the non-ideality characterization of one simulated
// hardware instance. It is immutable once validated and is shared by
// reference across every operation simulating that instance.
//
// A zero QuantLevels disables quantization; a zero StuckAtRate disables
// stuck cells. Seed drives defect-mask generation so that the same profile
// always describes the same defective device.
type DeviceProfile struct {
	QuantLevels  int        `yaml:"quantization_levels" json:"quantization_levels"`
	Noise        NoiseModel `yaml:"noise_model" json:"noise_model"`
	NoiseScale   float64    `yaml:"noise_scale" json:"noise_scale"`
	StuckAtRate  float64    `yaml:"stuck_at_rate" json:"stuck_at_rate"`
	StuckAtValue float32    `yaml:"stuck_at_value" json:"stuck_at_value"`
	Seed         int64      `yaml:"seed" json:"seed"`
}

// Validate checks every profile parameter against its valid domain. The
// receiver is never written: profiles are shared by reference, so an empty
// Noise is read as NoiseNone rather than normalized in place.
func (p *DeviceProfile) Validate() error {
	if p.QuantLevels < 0 {
		return fmt.Errorf("%w: quantization_levels must be >= 0, got %d", ErrConfig, p.QuantLevels)
	}
	if p.Noise != "" && !p.Noise.valid() {
		return fmt.Errorf("%w: unknown noise_model %q", ErrConfig, p.Noise)
	}
	if p.NoiseScale < 0 {
		return fmt.Errorf("%w: noise_scale must be >= 0, got %v", ErrConfig, p.NoiseScale)
	}
	if p.StuckAtRate < 0 || p.StuckAtRate > 1 {
		return fmt.Errorf("%w: stuck_at_rate must be in [0, 1], got %v", ErrConfig, p.StuckAtRate)
	}
	return nil
}

// LoadProfile reads and validates a device profile from a YAML or JSON
// file, chosen by extension.
func LoadProfile(path string) (*DeviceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var p DeviceProfile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("load profile %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("load profile %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported profile format %q", ErrConfig, ext)
	}

	if p.Noise == "" {
		p.Noise = NoiseNone
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
