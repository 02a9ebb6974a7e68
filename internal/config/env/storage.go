package env

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	credentialsFileEnv = "IGBOT_CREDENTIALS_FILE"
	contactURLEnv      = "IGBOT_CONTACT_URL"

	defaultContactURL = "https://wa.me/5491140696611?text=Quiero%20acceso%20al%20bot%20de%20IG"
)

type storageConfig struct {
	path string
}

func NewStorageConfig() (*storageConfig, error) {
	if p := os.Getenv(credentialsFileEnv); len(p) != 0 {
		return &storageConfig{path: filepath.Clean(p)}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return &storageConfig{path: filepath.Join(home, ".igbot-cli", "credentials.yaml")}, nil
}

func (c *storageConfig) CredentialsFile() string {
	return c.path
}

type contactConfig struct {
	url string
}

func NewContactConfig() *contactConfig {
	u := os.Getenv(contactURLEnv)
	if len(u) == 0 {
		u = defaultContactURL
	}

	return &contactConfig{url: u}
}

func (c *contactConfig) ContactURL() string {
	return c.url
}
