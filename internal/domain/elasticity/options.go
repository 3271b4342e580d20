package elasticity

// Option applies a configuration option to Params.
type Option func(*Params)

// WithElasticity sets the fee elasticity of application volume.
func WithElasticity(e float64) Option {
	return func(p *Params) {
		p.Elasticity = e
	}
}

// WithBaselineFee sets the fee the observed volumes were filed under.
func WithBaselineFee(fee float64) Option {
	return func(p *Params) {
		p.BaselineFee = fee
	}
}

// WithTargetFee sets the hypothetical fee to project to.
func WithTargetFee(fee float64) Option {
	return func(p *Params) {
		p.TargetFee = fee
	}
}
