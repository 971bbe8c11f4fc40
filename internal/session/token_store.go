package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// TokenStore persists the refresh token between process restarts so a session
// can be resumed on startup.
type TokenStore interface {
	// Load returns the stored refresh token, or an empty string when none exists.
	Load() (string, error)

	// Save stores the refresh token, replacing any previous one.
	Save(refreshToken string) error

	// Clear removes the stored refresh token. Clearing an empty store is a no-op.
	Clear() error
}

type storedToken struct {
	RefreshToken string `json:"refresh_token"`
}

// fileTokenStore keeps the refresh token in a mode 0600 file.
type fileTokenStore struct {
	path string
}

// NewFileTokenStore creates a TokenStore backed by the given file path.
func NewFileTokenStore(path string) TokenStore {
	return &fileTokenStore{path: path}
}

func (s *fileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", errors.Wrap(err, "failed to read token file")
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		// A corrupt token file is treated as no stored session.
		return "", nil
	}

	return stored.RefreshToken, nil
}

func (s *fileTokenStore) Save(refreshToken string) error {
	data, err := json.Marshal(storedToken{RefreshToken: refreshToken})
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create token directory")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write token file")
	}

	return nil
}

func (s *fileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove token file")
	}

	return nil
}
