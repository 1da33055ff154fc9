// Package token manages the Bear API token.
//
// Bear hands out one opaque token per device (Help → Advanced → API Token)
// and requires it on every data-returning x-callback action. bearmcp never
// validates or inspects the token; it only stores it securely and passes it
// through verbatim.
package token

import (
	"fmt"
	"os"
	"strings"

	"bearmcp/internal/config"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "bearmcp"
	// Key for the Bear API token
	bearTokenKey = "bear_api_token"
)

// EnvVar is read once per process as the highest-priority ambient token source.
const EnvVar = "BEAR_API_TOKEN"

// CredentialManager handles secure storage and retrieval of the Bear API token
type CredentialManager struct {
	service string
}

// NewCredentialManager creates a new credential manager instance
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		service: credentialService,
	}
}

// Store saves the Bear API token in the OS credential store.
func (cm *CredentialManager) Store(tok string) error {
	if err := validateFormat(tok); err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	if err := keyring.Set(cm.service, bearTokenKey, strings.TrimSpace(tok)); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}

	return nil
}

// Get retrieves the stored Bear API token from the OS credential store.
func (cm *CredentialManager) Get() (string, error) {
	tok, err := keyring.Get(cm.service, bearTokenKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no Bear API token found - run `bearmcp token set` or `bearmcp setup`")
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}

	if strings.TrimSpace(tok) == "" {
		return "", fmt.Errorf("stored token is empty - run `bearmcp token set` to replace it")
	}

	return tok, nil
}

// Delete removes the stored token from the OS credential store.
// Returns nil if no token is stored.
func (cm *CredentialManager) Delete() error {
	err := keyring.Delete(cm.service, bearTokenKey)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// Has checks if a token is stored without retrieving it.
func (cm *CredentialManager) Has() bool {
	_, err := keyring.Get(cm.service, bearTokenKey)
	return err == nil
}

// Resolve determines the ambient token for this process, in priority order:
// BEAR_API_TOKEN environment variable, OS keyring, config file fallback.
// An empty return means no ambient token is available; token-requiring tools
// then demand a per-call token argument.
func Resolve(cfg *config.Config) string {
	if tok := strings.TrimSpace(os.Getenv(EnvVar)); tok != "" {
		return tok
	}

	if tok, err := NewCredentialManager().Get(); err == nil {
		return tok
	}

	if cfg != nil {
		return strings.TrimSpace(cfg.Token)
	}

	return ""
}

// validateFormat applies a light sanity check. Bear tokens look like
// "XXXXXX-XXXXXX-XXXXXX" but the exact shape is undocumented, so only
// reject obviously broken input.
func validateFormat(tok string) error {
	tok = strings.TrimSpace(tok)

	if tok == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if strings.ContainsAny(tok, " \t\n") {
		return fmt.Errorf("token must not contain whitespace")
	}

	return nil
}
