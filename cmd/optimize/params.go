package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/liquid/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the emitter rates being calibrated, one per configured emitter.
type ParamVector struct {
	Specs []ParamSpec
}

// Rate bounds as a multiple of the configured rate
const (
	maxRateFactor = 4.0
	minRateCeil   = 10.0 // particles per second, for emitters configured at ~0
)

// NewParamVector creates a parameter per emitter in cfg.
func NewParamVector(cfg *config.Config) (*ParamVector, error) {
	if len(cfg.Emitters) == 0 {
		return nil, errors.New("config has no emitters to calibrate")
	}
	pv := &ParamVector{}
	for i, e := range cfg.Derived.Emitters {
		pv.Specs = append(pv.Specs, ParamSpec{
			Name:    e.Name + "_rate",
			Path:    fmt.Sprintf("emitters[%d].rate", i),
			Min:     0,
			Max:     math.Max(cfg.Emitters[i].Rate*maxRateFactor, minRateCeil),
			Default: cfg.Emitters[i].Rate,
		})
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped rates into both the raw and derived emitter settings.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, rate := range clamped {
		cfg.Emitters[i].Rate = rate
		cfg.Derived.Emitters[i].Rate = float32(rate)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i := range pv.Specs {
		v[i] = cfg.Emitters[i].Rate
	}
	return v
}
