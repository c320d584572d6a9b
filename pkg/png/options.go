package png

// Option configures parsing.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrict rejects chunk types whose reserved bit is set (lowercase third
// letter) with ErrReservedBit. By default such types are accepted.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
