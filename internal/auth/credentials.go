package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/codex-rotate/cli/internal/fileutil"
)

// CredentialsFile is the file name Codex reads inside its home directory
const CredentialsFile = "auth.json"

// ErrCredentialsNotFound is returned when the live credential file is absent
var ErrCredentialsNotFound = errors.New("no Codex credentials found")

// Store reads and replaces the live credential file
type Store struct {
	path string
}

// NewStore returns a Store for the credential file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the live credential file location
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the live credential file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the live credential file
func (s *Store) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s. Run 'codex login' first", ErrCredentialsNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read credentials from %s: %w", s.path, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credentials from %s: %w", s.path, err)
	}
	return &cred, nil
}

// Write replaces the live credential file with cred
func (s *Store) Write(cred *Credential) error {
	staged, err := s.Stage(cred)
	if err != nil {
		return err
	}
	return fileutil.Commit(staged)
}

// Stage writes cred next to the live file without replacing it yet
func (s *Store) Stage(cred *Credential) (*fileutil.Staged, error) {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	staged, err := fileutil.Stage(s.path, append(data, '\n'), 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to write credentials to %s: %w", s.path, err)
	}
	return staged, nil
}
