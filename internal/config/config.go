package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

type APIClientConfig interface {
	BaseURL() string
	Timeout() time.Duration
}

type StorageConfig interface {
	CredentialsFile() string
}

type ContactConfig interface {
	ContactURL() string
}

type JaegerConfig interface {
	Address() string
	Enabled() bool
}

// Load reads the .env file at path into the process environment.
// A missing file is not an error: every value may come from the real environment.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
