package notifx

// SendOptions holds optional configuration for a send operation.
type SendOptions struct {
	Tags           map[string]string
	ConfigID       string
	StatusCallback string
}

// Option is a functional option for send operations.
type Option func(*SendOptions)

// WithTags adds metadata tags to the send operation.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		o.Tags = tags
	}
}

// WithConfigID sets a provider-specific configuration set identifier.
func WithConfigID(id string) Option {
	return func(o *SendOptions) {
		o.ConfigID = id
	}
}

// WithStatusCallback asks the provider to post delivery updates to url.
func WithStatusCallback(url string) Option {
	return func(o *SendOptions) {
		o.StatusCallback = url
	}
}

// ApplyOptions folds opts into a SendOptions. Providers call it.
func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
