package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path provided to the Fetcher points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// ErrNotFound is returned when a required file does not exist.
var ErrNotFound = errors.New("file not found")

// Fetcher implements config.DataFetcher for file-based configuration.
// It reads the file at construction time and caches the contents.
type Fetcher struct {
	filepath string
	data     []byte
	exists   bool
}

// NewFetcher returns a constructor function that creates a new file-based Fetcher
// with the specified filepath. The file is read at construction time and cached.
// The constructor fails with ErrNotFound when the file is absent and with
// ErrPathIsDirectory when the path points to a directory.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		return read(fpath, true)
	}
}

// NewOptionalFetcher is like NewFetcher but a missing file is not an error:
// the Fetcher reports Exists() == false and fetches no data.
func NewOptionalFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		return read(fpath, false)
	}
}

func read(fpath string, required bool) (*Fetcher, error) {
	cleanPath := filepath.Clean(fpath)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !required {
				return &Fetcher{filepath: cleanPath}, nil
			}

			return nil, fmt.Errorf("stat file %q: %w", cleanPath, ErrNotFound)
		}

		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return &Fetcher{
		filepath: cleanPath,
		data:     data,
		exists:   true,
	}, nil
}

// Fetch returns a copy of the cached configuration data that was read at construction time.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}

// Exists reports whether the file was present when the Fetcher was built.
func (f *Fetcher) Exists() bool {
	return f.exists
}

// Path returns the cleaned file path.
func (f *Fetcher) Path() string {
	return f.filepath
}

// WriteAtomic replaces the file at fpath with data. The bytes are written to
// a temporary file in the same directory, synced and renamed over the
// target, so readers observe either the previous contents or the new ones.
// An existing file keeps its permissions; a new file gets perm.
func WriteAtomic(fpath string, data []byte, perm fs.FileMode) error {
	cleanPath := filepath.Clean(fpath)
	dir := filepath.Dir(cleanPath)

	stat, err := os.Stat(cleanPath)

	switch {
	case err == nil && stat.IsDir():
		return fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	case err == nil:
		perm = stat.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	err = os.MkdirAll(dir, 0o750)
	if err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(cleanPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	tempPath := tempFile.Name()

	defer func() { _ = os.Remove(tempPath) }()

	_, err = tempFile.Write(data)
	if err != nil {
		_ = tempFile.Close()

		return fmt.Errorf("writing temporary file: %w", err)
	}

	err = tempFile.Sync()
	if err != nil {
		_ = tempFile.Close()

		return fmt.Errorf("syncing temporary file: %w", err)
	}

	err = tempFile.Close()
	if err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	err = os.Chmod(tempPath, perm)
	if err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	err = os.Rename(tempPath, cleanPath)
	if err != nil {
		return fmt.Errorf("replacing %q: %w", cleanPath, err)
	}

	return nil
}
