package eq

// ChainUpdater refreshes the coefficients of a set of chains from a Params
// store. Call Update once per block, before filtering, on the audio thread.
type ChainUpdater struct {
	params     *Params
	sampleRate float64

	last  ChainCoefficients
	valid bool
}

// NewChainUpdater returns an updater reading params. No chain is updated
// until a sample rate is set.
func NewChainUpdater(params *Params) *ChainUpdater {
	return &ChainUpdater{params: params}
}

// SetSampleRate sets the design sample rate.
func (u *ChainUpdater) SetSampleRate(sampleRate float64) {
	u.sampleRate = sampleRate
}

// SampleRate returns the design sample rate.
func (u *ChainUpdater) SampleRate() float64 {
	return u.sampleRate
}

// Update snapshots the settings, designs the coefficients and copies them
// into every chain. With no usable sample rate it returns false and leaves
// the chains untouched.
func (u *ChainUpdater) Update(chains ...*MonoChain) bool {
	cc, ok := MakeChainCoefficients(u.params.Snapshot(), u.sampleRate)
	if !ok {
		return false
	}

	u.last = cc
	u.valid = true

	for _, c := range chains {
		if c != nil {
			c.Apply(&u.last)
		}
	}

	return true
}

// Last returns the coefficients of the most recent successful Update.
func (u *ChainUpdater) Last() (ChainCoefficients, bool) {
	return u.last, u.valid
}
