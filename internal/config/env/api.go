package env

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	apiURLEnv     = "IGBOT_API_URL"
	apiTimeoutEnv = "IGBOT_API_TIMEOUT"

	defaultAPITimeout = 15 * time.Second
)

type apiClientConfig struct {
	baseURL string
	timeout time.Duration
}

func NewAPIClientConfig() (*apiClientConfig, error) {
	raw := strings.TrimRight(os.Getenv(apiURLEnv), "/")
	if len(raw) == 0 {
		return nil, fmt.Errorf("api url is not set")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q is not an absolute url", raw)
	}

	timeout := defaultAPITimeout
	if v := os.Getenv(apiTimeoutEnv); len(v) != 0 {
		timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse api timeout: %w", err)
		}
	}

	return &apiClientConfig{baseURL: raw, timeout: timeout}, nil
}

func (c *apiClientConfig) BaseURL() string {
	return c.baseURL
}

func (c *apiClientConfig) Timeout() time.Duration {
	return c.timeout
}
