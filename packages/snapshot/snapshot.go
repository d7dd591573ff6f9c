// Package snapshot resolves named snapshot files and performs the filesystem
// steps of a match: directory checks, conditional writes and read-back.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/logging"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// SnapshotDir is the directory name for storing snapshots
	SnapshotDir = "__snapshots__"
)

// UpdateMode controls whether stored snapshots are compared or overwritten.
type UpdateMode int

const (
	// Normal compares against existing snapshots and only creates missing ones.
	Normal UpdateMode = iota
	// UpdateAll overwrites every snapshot with the current content.
	UpdateAll
)

func (m UpdateMode) String() string {
	if m == UpdateAll {
		return "all"
	}
	return "normal"
}

// Location is the on-disk placement of a named snapshot.
type Location struct {
	BaseName    string
	Dir         string
	SnapshotDir string
	FullPath    string
}

// Resolve maps a target name to its snapshot location. A target without a
// directory component is placed next to testFile. A target without an
// extension gets the default extension of kind.
func Resolve(target string, kind template.Kind, testFile string) Location {
	base := filepath.Base(target)
	if extension(base) == "" {
		base += kind.Extension()
	}

	dir := filepath.Dir(testFile)
	if strings.ContainsRune(target, '/') || strings.ContainsRune(target, filepath.Separator) {
		dir = filepath.Dir(target)
	}

	sub := filepath.Join(dir, SnapshotDir)
	return Location{
		BaseName:    base,
		Dir:         dir,
		SnapshotDir: sub,
		FullPath:    filepath.Join(sub, base),
	}
}

// extension is filepath.Ext with leading dots ignored, so a dotfile name
// such as ".config" has none.
func extension(base string) string {
	return filepath.Ext(strings.TrimLeft(base, "."))
}

// Store performs snapshot filesystem operations.
type Store struct {
	dirMode  fs.FileMode
	fileMode fs.FileMode
	log      logrus.FieldLogger
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*Store)

// WithFileMode sets the permissions of written snapshot files.
func WithFileMode(mode fs.FileMode) StoreOption {
	return func(s *Store) {
		s.fileMode = mode
	}
}

// WithDirMode sets the permissions of created snapshot directories.
func WithDirMode(mode fs.FileMode) StoreOption {
	return func(s *Store) {
		s.dirMode = mode
	}
}

// WithLogger sets the logger used for store operations.
func WithLogger(log logrus.FieldLogger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a new snapshot store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		dirMode:  0755,
		fileMode: 0644,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure verifies that the containing directory exists and creates the
// snapshot subdirectory if it is missing.
func (s *Store) Ensure(loc Location) error {
	if _, err := os.Stat(loc.Dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &EnvironmentError{Path: loc.Dir}
		}
		return &IOError{Op: "stat", Path: loc.Dir, Err: err}
	}

	if err := os.Mkdir(loc.SnapshotDir, s.dirMode); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return &IOError{Op: "prepare snapshot dir", Path: loc.SnapshotDir, Err: err}
	}
	s.log.WithField("dir", loc.SnapshotDir).Debug("created snapshot directory")
	return nil
}

// Exists reports whether the snapshot file is present.
func (s *Store) Exists(loc Location) (bool, error) {
	_, err := os.Stat(loc.FullPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &IOError{Op: "stat", Path: loc.FullPath, Err: err}
}

// ReadExisting returns the stored snapshot. A missing file is reported with
// exists == false and no error.
func (s *Store) ReadExisting(loc Location) (content string, exists bool, err error) {
	data, err := os.ReadFile(loc.FullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &IOError{Op: "read", Path: loc.FullPath, Err: err}
	}
	return string(data), true, nil
}

// WriteAndReread replaces the snapshot file with content and returns the
// bytes read back from disk.
func (s *Store) WriteAndReread(loc Location, content string) (string, error) {
	tmp := filepath.Join(loc.SnapshotDir, fmt.Sprintf(".%s.%s.tmp", loc.BaseName, uuid.NewString()))

	if err := os.WriteFile(tmp, []byte(content), s.fileMode); err != nil {
		return "", &IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, loc.FullPath); err != nil {
		_ = os.Remove(tmp)
		return "", &IOError{Op: "write", Path: loc.FullPath, Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"path":  loc.FullPath,
		"bytes": len(content),
	}).Debug("wrote snapshot")

	data, err := os.ReadFile(loc.FullPath)
	if err != nil {
		return "", &IOError{Op: "re-read", Path: loc.FullPath, Err: err}
	}
	return string(data), nil
}
