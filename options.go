package postflow

// Options contains configuration for a chat request.
type Options struct {
	Model       Model
	MaxTokens   int
	Temperature *float64
	// JSONResponse asks the provider for a JSON object response where the
	// provider supports a native JSON mode.
	JSONResponse bool
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model Model) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithJSONResponse requests a JSON object response.
func WithJSONResponse() Option {
	return func(o *Options) {
		o.JSONResponse = true
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
