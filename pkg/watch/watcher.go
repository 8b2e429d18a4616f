// Package watch monitors a directory of SOP documents and reports freshly
// extracted file references as documents appear or change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/coolbeans/sopex/pkg/sop"
)

// FileState records what the watcher last saw for one file.
type FileState struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
	Hash    string    `json:"hash,omitempty"`
}

// Change reports a new or modified SOP document. Err is set when the
// document no longer parses; References is set otherwise. A document that
// fails to parse does not stop the watch loop.
type Change struct {
	Path       string
	References []sop.FileReference
	Err        error
}

// Config holds watcher configuration.
type Config struct {
	// Dir is the directory to watch.
	Dir string

	// Patterns are glob patterns matched against file base names.
	// Defaults to *.md.
	Patterns []string

	// Interval is the polling interval used by Run. Defaults to 2s.
	Interval time.Duration

	// ComputeHash enables content hashing, catching edits that preserve
	// the file's modification time and size.
	ComputeHash bool

	// Profile selects the SOP dialect. Defaults to the standard dialect.
	Profile *sop.Profile
}

// Watcher polls a directory for new or modified SOP documents.
type Watcher struct {
	dir         string
	patterns    []string
	interval    time.Duration
	computeHash bool
	parser      *sop.Parser

	mu    sync.Mutex
	files map[string]FileState
}

// New creates a Watcher from config, applying defaults for unset fields.
func New(config Config) *Watcher {
	if len(config.Patterns) == 0 {
		config.Patterns = []string{"*.md"}
	}
	if config.Interval == 0 {
		config.Interval = 2 * time.Second
	}
	parser := sop.NewParser()
	if config.Profile != nil {
		parser = sop.NewParserWithProfile(config.Profile)
	}
	return &Watcher{
		dir:         config.Dir,
		patterns:    config.Patterns,
		interval:    config.Interval,
		computeHash: config.ComputeHash,
		parser:      parser,
		files:       make(map[string]FileState),
	}
}

// Interval returns the polling interval Run will use.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Scan performs one pass over the directory and returns a Change for
// every matching file that is new or modified since the previous pass,
// ordered by path.
func (w *Watcher) Scan() ([]Change, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", w.dir, err)
	}

	var changes []Change
	for _, entry := range entries {
		if entry.IsDir() || !w.matches(entry.Name()) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !w.changed(path, info) {
			continue
		}
		change := Change{Path: path}
		change.References, change.Err = w.parser.ExtractFile(path)
		changes = append(changes, change)
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Run polls the directory until ctx is done, invoking fn for each change.
func (w *Watcher) Run(ctx context.Context, fn func(Change)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		changes, err := w.Scan()
		if err != nil {
			return err
		}
		for _, change := range changes {
			fn(change)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Watcher) matches(name string) bool {
	for _, pattern := range w.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// changed reports whether path is new or differs from its recorded state,
// updating the record when it does.
func (w *Watcher) changed(path string, info os.FileInfo) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, known := w.files[path]
	next := FileState{Path: path, ModTime: info.ModTime(), Size: info.Size()}

	if known && !next.ModTime.After(prev.ModTime) && next.Size == prev.Size {
		if !w.computeHash {
			return false
		}
		hash, err := fileHash(path)
		if err != nil || hash == prev.Hash {
			return false
		}
		next.Hash = hash
	} else if w.computeHash {
		next.Hash, _ = fileHash(path)
	}

	w.files[path] = next
	return true
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
