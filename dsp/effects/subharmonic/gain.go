package subharmonic

import "github.com/cwbudde/algo-subharmonic/dsp/fixed"

// Level range of the gain table in dB.
const (
	MinLevelDB = -24
	MaxLevelDB = 12
)

// gainTable holds 10^(dB/20) in Q16 for every whole dB in [MinLevelDB, MaxLevelDB].
var gainTable = [MaxLevelDB - MinLevelDB + 1]int32{
	4145,   // -24 dB
	4655,   // -23 dB
	5226,   // -22 dB
	5867,   // -21 dB
	6588,   // -20 dB
	7399,   // -19 dB
	8310,   // -18 dB
	9336,   // -17 dB
	10488,  // -16 dB
	11782,  // -15 dB
	13234,  // -14 dB
	14865,  // -13 dB
	16700,  // -12 dB
	18766,  // -11 dB
	21095,  // -10 dB
	23721,  // -9 dB
	26686,  // -8 dB
	30033,  // -7 dB
	33808,  // -6 dB
	38065,  // -5 dB
	42862,  // -4 dB
	48265,  // -3 dB
	54342,  // -2 dB
	61172,  // -1 dB
	65536,  // 0 dB
	73690,  // +1 dB
	82708,  // +2 dB
	92713,  // +3 dB
	103957, // +4 dB
	116607, // +5 dB
	130858, // +6 dB
	146928, // +7 dB
	165060, // +8 dB
	185533, // +9 dB
	208661, // +10 dB
	234804, // +11 dB
	264367, // +12 dB
}

// LookupGain returns the Q16 linear gain for levelDB. Levels outside
// [MinLevelDB, MaxLevelDB] are clamped to the nearest bound.
func LookupGain(levelDB int) int32 {
	return gainTable[clampLevel(levelDB)-MinLevelDB]
}

func clampLevel(db int) int {
	return fixed.Clamp(db, MinLevelDB, MaxLevelDB)
}
