package client

import (
	"time"

	"github.com/go-resty/resty/v2"
)

type client struct {
	restyClient *resty.Client
	apiKey      string
	retries     int
}

var _ Client = (*client)(nil)

type Option func(*client)

func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.restyClient.SetBaseURL(baseURL)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

func WithAPIKey(apiKey string) Option {
	return func(c *client) {
		c.apiKey = apiKey
		c.restyClient.SetHeader("Authorization", "Bearer "+apiKey)
	}
}

// WithRetries sets the default attempt budget for a single logical
// request. Individual requests may override it.
func WithRetries(retries int) Option {
	return func(c *client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// WithRestyClient allows callers to provide a preconfigured API client.
func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

func NewClient(opts ...Option) Client {
	c := &client{
		restyClient: newDefaultAPIClient(),
		retries:     DefaultRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.restyClient == nil {
		c.restyClient = newDefaultAPIClient()
	}

	return c
}

// Name returns the service name.
func (c *client) Name() string {
	return ServiceName
}

// Version returns the API version.
func (c *client) Version() string {
	return APIVersion
}

// requireAPIKey guards operations against a missing credential before
// any request goes out.
func (c *client) requireAPIKey() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *client) attempts(override int) int {
	if override > 0 {
		return override
	}
	return c.retries
}

// newDefaultAPIClient builds the transport. Resty's own retry stays
// off: attempts are accounted for by the retry policy so the budget is
// exact.
func newDefaultAPIClient() *resty.Client {
	return resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout)
}
