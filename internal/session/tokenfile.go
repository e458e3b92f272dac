// ABOUTME: Durable storage for the bearer credential under the user config dir
// ABOUTME: Absence of the file means logged out

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the bearer credential across runs. It is the only
// durable client-side artifact.
type TokenFile struct {
	path string
}

// NewTokenFile creates a token file at the given path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// DefaultTokenPath returns ~/.config/sentinel/token, honoring
// XDG_CONFIG_HOME.
func DefaultTokenPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "sentinel", "token"), nil
}

// Save writes the credential, creating parent directories as needed. The
// file is user-readable only.
func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Load returns the stored credential, or "" when none is stored.
func (f *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored credential. Removing an absent file is not an
// error.
func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
