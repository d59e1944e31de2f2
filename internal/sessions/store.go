package sessions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/proxysurf/launcher/internal/models"
)

// Store owns the on-disk snapshot files, one per browser engine. Only
// the store writes these files and only the store reads them back, so a
// mutex is enough to keep writers from interleaving.
type Store struct {
	lock sync.Mutex
	dir  string
}

// SavedSession describes one snapshot file on disk, for display in the
// sessions CLI.
type SavedSession struct {
	Engine   models.Engine
	Path     string
	Size     int64
	Modified time.Time
}

// DefaultDir returns the per-user snapshot directory,
// ~/.config/proxysurf.
func DefaultDir() string {
	usr, err := user.Current()
	if err != nil {
		logrus.WithError(err).Errorln("Failed to get current user, using working directory for session state")
		return ".proxysurf"
	}
	return filepath.Join(usr.HomeDir, ".config", "proxysurf")
}

// NewStore creates a store rooted at dir, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if len(dir) == 0 {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot file path for the given engine.
func (s *Store) Path(engine models.Engine) string {
	return filepath.Join(s.dir, engine.StateFileName())
}

// LoadIfPresent reads the snapshot for the given engine. A missing file
// is not an error: it means no prior session, and nothing is logged. A
// file that exists but is not well formed JSON is also treated as no
// prior session, with a single diagnostic; the file itself is left
// untouched so its contents are not lost to a silent overwrite.
func (s *Store) LoadIfPresent(engine models.Engine) (models.StorageSnapshot, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	path := s.Path(engine)
	data, err := os.ReadFile(path)

	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"engine": engine,
			"path":   path,
		}).Warnln("Failed to read session snapshot, starting without prior session")
		return nil, false
	}

	snapshot := models.StorageSnapshot(data)

	if !snapshot.Valid() {
		logrus.WithFields(logrus.Fields{
			"engine": engine,
			"path":   path,
		}).Warnln("Session snapshot is not valid JSON, starting without prior session")
		return nil, false
	}

	return snapshot, true
}

// Write persists the snapshot for the given engine, replacing the file
// contents wholly. The write goes through a temp file in the same
// directory followed by a rename, so a reader can never observe a half
// written document even if the process is killed mid-write.
func (s *Store) Write(engine models.Engine, snapshot models.StorageSnapshot) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if snapshot.Empty() {
		return fmt.Errorf("refusing to write empty snapshot for engine %s", engine)
	}

	path := s.Path(engine)

	tmp, err := os.CreateTemp(s.dir, engine.StateFileName()+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	if _, err := tmp.Write(snapshot); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"engine": engine,
		"path":   path,
		"bytes":  len(snapshot),
	}).Debugln("Persisted session snapshot")

	return nil
}

// Remove deletes the snapshot file for the given engine. Removing a
// snapshot that does not exist is not an error.
func (s *Store) Remove(engine models.Engine) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := os.Remove(s.Path(engine))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns the snapshot files currently on disk, one per known
// engine, sorted by engine name.
func (s *Store) List() ([]SavedSession, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var saved []SavedSession

	for _, engine := range models.KnownEngines() {
		path := s.Path(engine)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		saved = append(saved, SavedSession{
			Engine:   engine,
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(saved, func(i, j int) bool {
		return saved[i].Engine < saved[j].Engine
	})

	return saved, nil
}
