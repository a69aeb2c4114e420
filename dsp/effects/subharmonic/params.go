package subharmonic

import "github.com/cwbudde/algo-subharmonic/dsp/pipeline"

// Defaults used until configuration says otherwise.
const (
	DefaultSampleRate  = 44100
	DefaultCrossoverHz = 100
	DefaultLevelDB     = 0
)

// ProcID is the default process-table ID of the effect.
const ProcID pipeline.ID = "subharmonic"

// Parameters is the user-facing configuration of the effect.
type Parameters struct {
	CrossoverHz int
	LevelDB     int
	Pregain     bool
	Enabled     bool
}

// DefaultParameters returns the configuration of a freshly created effect.
func DefaultParameters() Parameters {
	return Parameters{
		CrossoverHz: DefaultCrossoverHz,
		LevelDB:     DefaultLevelDB,
	}
}

// Coefficients are derived from Parameters and the sample rate.
type Coefficients struct {
	Alpha int32
	Gain  int32
}

type config struct {
	params     Parameters
	sampleRate int
	id         pipeline.ID
}

// Option mutates the effect configuration at construction.
type Option func(*config)

func defaultConfig() config {
	return config{
		params:     DefaultParameters(),
		sampleRate: DefaultSampleRate,
		id:         ProcID,
	}
}

// WithParameters replaces the whole parameter set.
func WithParameters(p Parameters) Option {
	return func(cfg *config) {
		cfg.params = p
	}
}

// WithCrossover sets the crossover frequency in Hz.
func WithCrossover(hz int) Option {
	return func(cfg *config) {
		cfg.params.CrossoverHz = hz
	}
}

// WithLevel sets the subharmonic level in dB.
func WithLevel(db int) Option {
	return func(cfg *config) {
		cfg.params.LevelDB = db
	}
}

// WithPregain enables the -6 dB dry attenuation.
func WithPregain(on bool) Option {
	return func(cfg *config) {
		cfg.params.Pregain = on
	}
}

// WithSampleRate sets the sample rate used until a host reports one.
func WithSampleRate(hz int) Option {
	return func(cfg *config) {
		if hz > 0 {
			cfg.sampleRate = hz
		}
	}
}

// WithProcID sets the ID under which the effect talks to its host.
func WithProcID(id pipeline.ID) Option {
	return func(cfg *config) {
		if id != "" {
			cfg.id = id
		}
	}
}
