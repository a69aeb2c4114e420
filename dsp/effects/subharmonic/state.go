package subharmonic

// MaxChannels is the number of channels the effect processes.
const MaxChannels = 2

// ChannelState is the per-channel filter memory.
type ChannelState struct {
	CrossoverPrev int32
	AntialiasPrev int32
	Held          int32
	// Toggle is false in the update phase and true in the hold phase.
	Toggle bool
}

// Reset clears the memory and returns the toggle to the update phase.
func (s *ChannelState) Reset() {
	*s = ChannelState{}
}

// Process runs one sample through all four stages.
func (s *ChannelState) Process(x, alpha, gain int32, pregain bool) int32 {
	low := LowPass(alpha, x, s.CrossoverPrev)
	s.CrossoverPrev = low

	sub := s.hold(low)

	smooth := LowPass(alpha, sub, s.AntialiasPrev)
	s.AntialiasPrev = smooth

	return Mix(x, smooth, gain, pregain)
}

func (s *ChannelState) hold(x int32) int32 {
	if !s.Toggle {
		s.Held = x
	}

	s.Toggle = !s.Toggle

	return s.Held
}
