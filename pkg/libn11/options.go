package libn11

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the location of the n11 SOAP web services.
const DefaultEndpoint = "https://api.n11.com/ws"

// OptionAsArray is the option that converts responses into plain maps and slices, recursively.
// Otherwise the top level response is a map whose nested values are *Record.
const OptionAsArray = "as_array"

type (
	// Options are the global options of a Client.
	// Unknown keys are kept but have no effect.
	Options map[string]any

	// A ClientOption configures a Client.
	ClientOption func(*client)
)

// DefaultOptions returns the options used when none are specified.
func DefaultOptions() Options {
	return Options{
		OptionAsArray: false,
	}
}

// merge returns a copy of o overwritten by n.
func (o Options) merge(n Options) Options {
	m := make(Options, len(o)+len(n))
	for k, v := range o {
		m[k] = v
	}
	for k, v := range n {
		m[k] = v
	}
	return m
}

// AsArray returns true if the as_array option is enabled.
func (o Options) AsArray() bool {
	v, ok := o[OptionAsArray].(bool)
	return ok && v
}

// WithEndpoint sets the base location of the WSDL files (default DefaultEndpoint).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used by the default Dialer.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *client) {
		c.http = h
	}
}

// WithLogger sets the logger used to trace calls.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *client) {
		c.logger = l
	}
}

// WithDialer replaces the Dialer used to bind a Caller to a WSDL.
func WithDialer(d Dialer) ClientOption {
	return func(c *client) {
		c.dialer = d
	}
}

// WithRateLimit limits the number of calls per second sent to the n11 services.
func WithRateLimit(r rate.Limit, burst int) ClientOption {
	return func(c *client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithoutCache disables the Caller cache, a Caller is dialed on each call.
func WithoutCache() ClientOption {
	return func(c *client) {
		c.callers = nil
	}
}
