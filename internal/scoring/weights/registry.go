package weights

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/matchforge/matchengine/internal/domain"
)

// sumTolerance is the maximum accepted deviation of a matrix sum from 1.000.
// Any matrix outside the tolerance is a fatal configuration error at load
// time; matrices are never validated at request time.
const sumTolerance = 1e-6

// Matrix is one named set of twelve component weights summing to 1.000.
type Matrix struct {
	ID      string
	Weights map[string]float64
}

// Weight returns the weight for a component name, 0 for unknown names.
func (m Matrix) Weight(name string) float64 {
	return m.Weights[name]
}

// fileConfig is the YAML shape of the weight matrix definitions.
type fileConfig struct {
	Base     matrixConfig            `yaml:"base"`
	Adaptive map[string]matrixConfig `yaml:"adaptive"`
}

type matrixConfig struct {
	ID      string             `yaml:"id"`
	Weights map[string]float64 `yaml:"weights"`
}

// Registry holds the base matrix and one adaptive matrix per tunable
// listening reason. It is immutable after load and safe for concurrent
// reads.
type Registry struct {
	base     Matrix
	adaptive map[domain.ListeningReason]Matrix
}

// LoadFromFile reads and validates weight matrices from a YAML file.
// Validation failures are fatal: a registry is either fully valid or not
// constructed at all.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weight matrix config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse weight matrix config: %w", err)
	}
	return build(cfg)
}

// LoadDefault constructs the registry from the built-in canonical matrices.
// Used when no MATRIX_CONFIG_PATH is configured.
func LoadDefault() (*Registry, error) {
	return build(defaultConfig)
}

func build(cfg fileConfig) (*Registry, error) {
	base, err := validate(cfg.Base)
	if err != nil {
		return nil, fmt.Errorf("base matrix: %w", err)
	}

	adaptive := make(map[domain.ListeningReason]Matrix, len(cfg.Adaptive))
	for reasonName, mc := range cfg.Adaptive {
		reason := domain.ListeningReason(reasonName)
		if !domain.ValidListeningReason(reason) {
			return nil, fmt.Errorf("adaptive matrix for unknown listening reason %q", reasonName)
		}
		m, err := validate(mc)
		if err != nil {
			return nil, fmt.Errorf("adaptive matrix %q: %w", reasonName, err)
		}
		adaptive[reason] = m
	}

	log.Info().
		Str("base_matrix", base.ID).
		Int("adaptive_matrices", len(adaptive)).
		Msg("weight matrix registry loaded")

	return &Registry{base: base, adaptive: adaptive}, nil
}

// validate checks that a matrix covers exactly the twelve canonical
// components and sums to 1.000 within tolerance.
func validate(mc matrixConfig) (Matrix, error) {
	if mc.ID == "" {
		return Matrix{}, fmt.Errorf("matrix id missing")
	}
	if len(mc.Weights) != len(domain.ComponentOrder) {
		return Matrix{}, fmt.Errorf("matrix %s has %d components, want %d", mc.ID, len(mc.Weights), len(domain.ComponentOrder))
	}

	sum := 0.0
	for _, name := range domain.ComponentOrder {
		w, ok := mc.Weights[name]
		if !ok {
			return Matrix{}, fmt.Errorf("matrix %s missing component %q", mc.ID, name)
		}
		if w < 0 || w > 1 {
			return Matrix{}, fmt.Errorf("matrix %s weight for %q is %.4f, outside [0,1]", mc.ID, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > sumTolerance {
		return Matrix{}, fmt.Errorf("matrix %s weights sum to %.6f, expected 1.000000", mc.ID, sum)
	}

	weights := make(map[string]float64, len(mc.Weights))
	for k, v := range mc.Weights {
		weights[k] = v
	}
	return Matrix{ID: mc.ID, Weights: weights}, nil
}

// Resolve returns the adaptive matrix for the reason if one is configured,
// else the base matrix. Resolution is pure: same reason, same matrix.
func (r *Registry) Resolve(reason domain.ListeningReason) Matrix {
	if m, ok := r.adaptive[reason]; ok {
		return m
	}
	return r.base
}

// Base returns the base matrix.
func (r *Registry) Base() Matrix {
	return r.base
}

// AdaptiveReasons lists the listening reasons with a dedicated matrix.
func (r *Registry) AdaptiveReasons() []domain.ListeningReason {
	out := make([]domain.ListeningReason, 0, len(r.adaptive))
	for _, reason := range domain.KnownListeningReasons {
		if _, ok := r.adaptive[reason]; ok {
			out = append(out, reason)
		}
	}
	return out
}
