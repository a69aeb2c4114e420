package buffer

// Format describes the stream layout a buffer carries.
type Format struct {
	NumChannels int
	SampleRate  int
}

// Buffer is a block of planar fixed-point audio. Stages process it in place.
type Buffer struct {
	Channels [][]int32
	Format   Format
	Count    int
}

// New returns a zero-filled Buffer with numChannels channels of length frames.
func New(numChannels, length int) *Buffer {
	b := &Buffer{}
	b.Resize(numChannels, length)
	return b
}

// FromChannels wraps existing channel slices without copying.
// Count is set to the length of the shortest channel.
func FromChannels(channels ...[]int32) *Buffer {
	b := &Buffer{
		Channels: channels,
		Format:   Format{NumChannels: len(channels)},
	}

	if len(channels) > 0 {
		b.Count = len(channels[0])
		for _, ch := range channels[1:] {
			b.Count = min(b.Count, len(ch))
		}
	}

	return b
}

// NumChannels returns the number of channels that are both declared by the
// format and backed by a slice.
func (b *Buffer) NumChannels() int {
	return max(0, min(b.Format.NumChannels, len(b.Channels)))
}

// Frames returns Count clamped to the shortest backed channel.
func (b *Buffer) Frames() int {
	n := max(0, b.Count)
	for ch := range b.NumChannels() {
		n = min(n, len(b.Channels[ch]))
	}

	return n
}

// Resize sets the channel count and per-channel length, reusing capacity
// when possible. Newly exposed samples are zeroed.
func (b *Buffer) Resize(numChannels, length int) {
	numChannels = max(0, numChannels)
	length = max(0, length)

	if cap(b.Channels) >= numChannels {
		b.Channels = b.Channels[:numChannels]
	} else {
		grown := make([][]int32, numChannels)
		copy(grown, b.Channels)
		b.Channels = grown
	}

	for ch := range b.Channels {
		s := b.Channels[ch]
		oldLen := len(s)

		if cap(s) >= length {
			s = s[:length]
			clear(s[min(oldLen, length):])
		} else {
			grown := make([]int32, length)
			copy(grown, s)
			s = grown
		}

		b.Channels[ch] = s
	}

	b.Format.NumChannels = numChannels
	b.Count = length
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for _, ch := range b.Channels {
		clear(ch)
	}
}

// CopyFrom resizes b to match src and copies its samples and format.
func (b *Buffer) CopyFrom(src *Buffer) {
	length := 0
	for _, ch := range src.Channels {
		length = max(length, len(ch))
	}

	b.Resize(len(src.Channels), length)

	for ch := range src.Channels {
		copy(b.Channels[ch], src.Channels[ch])
	}

	b.Format = src.Format
	b.Count = src.Count
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	c := &Buffer{}
	c.CopyFrom(b)
	return c
}
