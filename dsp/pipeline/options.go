package pipeline

import "log/slog"

// DefaultOutputFrequency is used until the stream reports its own rate.
const DefaultOutputFrequency = 44100

type config struct {
	outputFrequency int
	logger          *slog.Logger
}

// Option mutates the pipeline configuration.
type Option func(*config)

func defaultConfig() config {
	return config{
		outputFrequency: DefaultOutputFrequency,
		logger:          slog.New(slog.DiscardHandler),
	}
}

// WithOutputFrequency sets the initial output sample rate.
func WithOutputFrequency(hz int) Option {
	return func(cfg *config) {
		if hz > 0 {
			cfg.outputFrequency = hz
		}
	}
}

// WithLogger sets the logger used for lifecycle and table changes.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
