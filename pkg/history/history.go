package history

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// File is a line editor history file shared between concurrent cash
// processes. Reads and writes hold an advisory lock on path + ".lock".
type File struct {
	path     string
	fileLock *flock.Flock
	mu       sync.Mutex
}

func New(path string) *File {
	return &File{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

func (f *File) Path() string {
	return f.path
}

// Load passes the history file to read. A missing file is not an error.
func (f *File) Load(read func(io.Reader) (int, error)) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(filepath.Dir(f.path)); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err := f.fileLock.RLock(); err != nil {
		return 0, fmt.Errorf("lock history: %w", err)
	}
	defer func() {
		_ = f.fileLock.Unlock()
	}()

	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return read(file)
}

// Save truncates the history file and passes it to write.
func (f *File) Save(write func(io.Writer) (int, error)) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return 0, fmt.Errorf("create history directory: %w", err)
	}
	if err := f.fileLock.Lock(); err != nil {
		return 0, fmt.Errorf("lock history: %w", err)
	}
	defer func() {
		_ = f.fileLock.Unlock()
	}()

	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	n, werr := write(file)
	if cerr := file.Close(); werr == nil {
		werr = cerr
	}
	return n, werr
}
