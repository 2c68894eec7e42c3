package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/codex-rotate/cli/internal/fileutil"
)

// PoolFile is the pool file name inside the rotate home directory
const PoolFile = "pool.json"

// Repository loads and persists the whole pool document. There is no
// locking; the last writer wins.
type Repository struct {
	path string
	log  *slog.Logger
}

// NewRepository returns a Repository backed by the file at path
func NewRepository(path string, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{path: path, log: log}
}

// Path returns the pool file location
func (r *Repository) Path() string {
	return r.path
}

// Size returns the pool file size in bytes, or 0 when it does not exist
func (r *Repository) Size() int64 {
	info, err := os.Stat(r.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Load reads the pool. A missing file yields an empty pool.
func (r *Repository) Load() (*Pool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.log.Debug("pool file not found, starting empty", "path", r.path)
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read pool from %s: %w", r.path, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("pool file %s is malformed: %w", r.path, err)
	}

	var p Pool
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pool from %s: %w", r.path, err)
	}
	if p.Accounts == nil {
		p.Accounts = []Account{}
	}
	if p.ActiveIndex >= len(p.Accounts) {
		r.log.Warn("active index out of range, resetting to 0",
			"path", r.path, "active_index", p.ActiveIndex, "accounts", len(p.Accounts))
		p.ActiveIndex = 0
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("pool file %s is invalid: %w", r.path, err)
	}

	r.log.Debug("pool loaded", "path", r.path, "accounts", len(p.Accounts), "active_index", p.ActiveIndex)
	return &p, nil
}

// Save replaces the pool file with p
func (r *Repository) Save(p *Pool) error {
	staged, err := r.Stage(p)
	if err != nil {
		return err
	}
	if err := fileutil.Commit(staged); err != nil {
		return err
	}
	r.log.Debug("pool saved", "path", r.path, "accounts", len(p.Accounts), "active_index", p.ActiveIndex)
	return nil
}

// Stage writes p next to the pool file without replacing it yet
func (r *Repository) Stage(p *Pool) (*fileutil.Staged, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save invalid pool: %w", err)
	}
	if p.Accounts == nil {
		p.Accounts = []Account{}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pool: %w", err)
	}

	staged, err := fileutil.Stage(r.path, append(data, '\n'), 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to write pool to %s: %w", r.path, err)
	}
	return staged, nil
}
