package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/parser"
)

// Markdown stores one <id>.md file per note under a vault directory.
type Markdown struct {
	root string // absolute path to vault directory

	mu sync.Mutex
	// files maps note id to its vault-relative path and last known checksum.
	files map[string]fileState
}

type fileState struct {
	path     string
	checksum string
}

// NewMarkdown opens the vault at root, creating the directory if needed.
func NewMarkdown(root string) (*Markdown, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Markdown{root: abs, files: make(map[string]fileState)}, nil
}

// Root returns the absolute vault directory.
func (m *Markdown) Root() string { return m.root }

// Load reads every .md file in the vault. A file without an id in its
// frontmatter takes the file name; one without a creation time takes the
// modification time. Files that fail to decode abort the load.
func (m *Markdown) Load() ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Note
	files := make(map[string]fileState)
	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		n, err := parser.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", d.Name(), err)
		}
		stem := strings.TrimSuffix(d.Name(), ".md")
		if n.ID == "" {
			n.ID = stem
		}
		if n.Title == "" {
			n.Title = stem
		}
		if n.CreatedAt.IsZero() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			n.CreatedAt = info.ModTime()
		}
		if _, dup := files[n.ID]; dup {
			return nil
		}
		rel, _ := filepath.Rel(m.root, p)
		files[n.ID] = fileState{path: rel, checksum: checksum(data)}
		out = append(out, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: load: %w", err)
	}
	m.files = files
	return out, nil
}

// Save writes notes whose encoded form changed and removes files of notes
// that are gone.
func (m *Markdown) Save(notes []models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keep := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		keep[n.ID] = struct{}{}
		data, err := parser.Encode(n)
		if err != nil {
			return fmt.Errorf("storage: save %s: %w", n.ID, err)
		}
		sum := checksum(data)
		st, known := m.files[n.ID]
		if known && st.checksum == sum {
			continue
		}
		if !known {
			st.path = n.ID + ".md"
		}
		if err := m.write(st.path, data); err != nil {
			return err
		}
		st.checksum = sum
		m.files[n.ID] = st
	}

	for id, st := range m.files {
		if _, ok := keep[id]; ok {
			continue
		}
		abs, err := m.safePath(st.path)
		if err != nil {
			return err
		}
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: delete %s: %w", st.path, err)
		}
		delete(m.files, id)
	}
	return nil
}

// Changed reports whether the .md files in the vault differ from what the
// last Load or Save saw. The watcher uses it to ignore our own writes.
func (m *Markdown) Changed() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	known := make(map[string]string, len(m.files))
	for _, st := range m.files {
		known[st.path] = st.checksum
	}

	seen := 0
	changed := false
	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, _ := filepath.Rel(m.root, p)
		sum, ok := known[rel]
		if !ok {
			changed = true
			return fs.SkipAll
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if checksum(data) != sum {
			changed = true
			return fs.SkipAll
		}
		seen++
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("storage: scan vault: %w", err)
	}
	return changed || seen != len(known), nil
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it.
func (m *Markdown) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(m.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, m.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// write atomically replaces path: tmp file, fsync, rename.
func (m *Markdown) write(path string, content []byte) error {
	abs, err := m.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".secondbrain-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
