package registrar

import "github.com/okian/binsight/pkg/logger"

// Option configures a Registrar.
type Option func(*Registrar)

// WithLogger sets the registrar's logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Registrar) {
		if log != nil {
			r.log = log
		}
	}
}

// WithIDGenerator replaces user id generation, for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registrar) {
		if gen != nil {
			r.newID = gen
		}
	}
}
