// Package elasticity projects application volume under a fee change with a
// constant-elasticity model:
//
//	projected = max(0, baseline × (1 + ε × (F1 − F0) / F0))
//
// One ε applies to every year and sector. That is a modeling assumption, not
// an estimate.
package elasticity

import (
	"fmt"
	"math"
)

// Defaults match the published scenario: a $25k fee raised to $100k.
const (
	DefaultElasticity  = -0.3
	DefaultBaselineFee = 25_000.0
	DefaultTargetFee   = 100_000.0
)

// Impact buckets the size of a projected change.
type Impact string

// Impact tiers by absolute percentage change.
const (
	ImpactMild     Impact = "mild"
	ImpactModerate Impact = "moderate"
	ImpactSevere   Impact = "severe"
)

// Tier thresholds in percent.
const (
	mildBelow     = 10.0
	moderateBelow = 40.0
)

// Params are the scalar inputs of a projection.
type Params struct {
	Elasticity  float64 `json:"elasticity" yaml:"elasticity"`
	BaselineFee float64 `json:"baseline_fee" yaml:"baseline_fee"`
	TargetFee   float64 `json:"target_fee" yaml:"target_fee"`
}

// NewParams returns the default params with opts applied.
func NewParams(opts ...Option) Params {
	p := Params{
		Elasticity:  DefaultElasticity,
		BaselineFee: DefaultBaselineFee,
		TargetFee:   DefaultTargetFee,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Validate rejects a zero baseline fee, negative fees and non-finite values.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"elasticity":   p.Elasticity,
		"baseline fee": p.BaselineFee,
		"target fee":   p.TargetFee,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, name)
		}
	}
	if p.BaselineFee == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, ErrZeroBaselineFee)
	}
	if p.BaselineFee < 0 || p.TargetFee < 0 {
		return fmt.Errorf("%w: fees must not be negative (baseline %.2f, target %.2f)",
			ErrInvalidParams, p.BaselineFee, p.TargetFee)
	}
	return nil
}

// FeeChange returns the relative fee change α = (F1 − F0) / F0.
func (p Params) FeeChange() float64 {
	return (p.TargetFee - p.BaselineFee) / p.BaselineFee
}

// ChangePct returns the unclamped percentage change ε·α·100.
func (p Params) ChangePct() float64 {
	return p.Elasticity * p.FeeChange() * 100
}

// Impact classifies ChangePct.
func (p Params) Impact() Impact {
	return Classify(p.ChangePct())
}

// Classify buckets a percentage change by its magnitude.
func Classify(changePct float64) Impact {
	switch c := math.Abs(changePct); {
	case c < mildBelow:
		return ImpactMild
	case c < moderateBelow:
		return ImpactModerate
	default:
		return ImpactSevere
	}
}

// Project applies the constant-elasticity formula to baseline. It does not
// validate its inputs; use a Projector for that.
func Project(baseline, baselineFee, targetFee, elasticity float64) float64 {
	projected := baseline * (1 + elasticity*(targetFee-baselineFee)/baselineFee)
	return math.Max(0, projected)
}

// Projector projects volumes with a fixed, validated Params.
type Projector struct {
	params Params
}

// NewProjector validates p and returns a Projector for it.
func NewProjector(p Params) (*Projector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Projector{params: p}, nil
}

// Params returns the projector's parameters.
func (pr *Projector) Params() Params {
	return pr.params
}

// Project returns the projected volume for baseline.
func (pr *Projector) Project(baseline float64) float64 {
	return Project(baseline, pr.params.BaselineFee, pr.params.TargetFee, pr.params.Elasticity)
}

// ChangePct returns the percentage change from baseline to projected.
// A zero baseline has no change.
func ChangePct(baseline, projected float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (projected - baseline) / baseline * 100
}
