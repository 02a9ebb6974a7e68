package env

import (
	"errors"
	"net"
	"os"
)

const (
	jaegerHost = "JAEGER_HOST"
	jaegerPort = "JAEGER_PORT"
)

type jaegerConfig struct {
	host string
	port string
}

// NewJaegerConfig returns a disabled config when neither variable is set;
// setting only one of them is a mistake.
func NewJaegerConfig() (*jaegerConfig, error) {
	host := os.Getenv(jaegerHost)
	port := os.Getenv(jaegerPort)

	if len(host) == 0 && len(port) == 0 {
		return &jaegerConfig{}, nil
	}

	if len(host) == 0 {
		return nil, errors.New("jaeger host not set")
	}

	if len(port) == 0 {
		return nil, errors.New("jaeger port not set")
	}

	return &jaegerConfig{
		host: host,
		port: port,
	}, nil
}

func (c *jaegerConfig) Address() string {
	return net.JoinHostPort(c.host, c.port)
}

func (c *jaegerConfig) Enabled() bool {
	return len(c.host) != 0
}
