package source

import "time"

const (
	// DefaultUserAgent identifies requests as a desktop browser; the dictionary site rejects bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DefaultRequestTimeout = 5 * time.Second
)

// HTTPOptions are the request settings shared by the network adapters.
type HTTPOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Cache     *ResponseCache
}

// WithDefaults fills zero fields, using baseURL when none is set.
func (o HTTPOptions) WithDefaults(baseURL string) HTTPOptions {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultRequestTimeout
	}
	return o
}
