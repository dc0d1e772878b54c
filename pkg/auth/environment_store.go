package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This is primarily for scripted and CI usage.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets the session from environment variables
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionCookie := os.Getenv("PINPOST_SESSION_COOKIE")
	userAgent := os.Getenv("PINPOST_USER_AGENT")

	if sessionCookie == "" {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't store a username
	if username == "" {
		username = "default"
	}

	return &Account{
		Username:      username,
		SessionCookie: sessionCookie,
		UserAgent:     userAgent,
		LastModified:  time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(username string) bool {
	return os.Getenv("PINPOST_SESSION_COOKIE") != ""
}
