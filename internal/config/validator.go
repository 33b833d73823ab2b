package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for consistency. All problems are
// collected and reported together.
func (c *Config) Validate() error {
	var errors []string

	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL is required (API_BASE_URL)")
	}

	// Either a pre-acquired credential or full portal login settings.
	if c.PortalCredential == "" {
		if c.PortalLoginURL == "" {
			errors = append(errors, "portal login URL is required when no credential is set (PORTAL_LOGIN_URL)")
		}
		if c.PortalUsername == "" {
			errors = append(errors, "portal username is required when no credential is set (PORTAL_USERNAME)")
		}
		if c.PortalPassword == "" {
			errors = append(errors, "portal password is required when no credential is set (PORTAL_PASSWORD)")
		}
	}

	if c.FetchMaxAttempts < 1 {
		errors = append(errors, "fetch max attempts must be at least 1")
	}
	if c.FetchBackoff <= 0 {
		errors = append(errors, "fetch backoff must be positive")
	}
	if c.FetchTimeout <= 0 {
		errors = append(errors, "fetch timeout must be positive")
	}
	if c.RatePerSecond <= 0 {
		errors = append(errors, "fetch rate must be positive")
	}

	switch strings.ToLower(c.SnapshotFormat) {
	case "csv", "json":
	default:
		errors = append(errors, fmt.Sprintf("unknown snapshot format %q (want csv or json)", c.SnapshotFormat))
	}

	switch strings.ToLower(c.SnapshotEncoding) {
	case "utf-8", "windows-1252":
	default:
		errors = append(errors, fmt.Sprintf("unknown snapshot encoding %q (want utf-8 or windows-1252)", c.SnapshotEncoding))
	}

	if c.CategoryCatalogPath == "" {
		errors = append(errors, "category catalog path is required")
	}
	if c.SnapshotPath == "" {
		errors = append(errors, "snapshot path is required")
	}
	if c.RunsDatabasePath == "" {
		errors = append(errors, "runs database path is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}
