package config

import (
	"fmt"
	"os"
)

// AdminConfig holds the credentials of the administrator account seeded at startup.
type AdminConfig struct {
	Username string
	Password string
}

// NewAdminConfig reads ADMIN_USERNAME and ADMIN_PASSWORD.
// It returns nil when neither is set, meaning no admin is seeded.
func NewAdminConfig() (*AdminConfig, error) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" && password == "" {
		return nil, nil
	}

	config := &AdminConfig{Username: username, Password: password}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *AdminConfig) normalize() error {
	if c.Username == "" {
		return fmt.Errorf("ADMIN_USERNAME is required when ADMIN_PASSWORD is set")
	}
	if c.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	if len(c.Password) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}
