package subharmonic

import "github.com/cwbudde/algo-subharmonic/dsp/fixed"

// Mix adds the gain-scaled subharmonic to the dry sample. With pregain the
// dry sample is halved first. The sum saturates at the int32 bounds.
func Mix(original, sub, gain int32, pregain bool) int32 {
	dry := int64(original)
	if pregain {
		dry >>= 1
	}

	return fixed.Saturate(dry + fixed.Mul(gain, sub))
}
