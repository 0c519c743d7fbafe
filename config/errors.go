package config

import "fmt"

// CredentialError indicates a required credential is missing or empty.
type CredentialError struct {
	EnvVar string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("missing required credential: %s must be set", e.EnvVar)
}
