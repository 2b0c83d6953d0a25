package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrStorage wraps every failure to read or write a collection file
var ErrStorage = errors.New("storage error")

// FileCollection is a JSON array of records kept in memory and rewritten
// wholesale on every mutation. Writers are serialised by mu.
type FileCollection[T any] struct {
	mu    sync.RWMutex
	path  string
	items []T
}

// OpenFileCollection loads path into memory. A missing file yields an empty
// collection; a file that cannot be read or parsed is an error so that a
// later save never overwrites data we failed to understand.
func OpenFileCollection[T any](path string) (*FileCollection[T], error) {
	c := &FileCollection[T]{path: path, items: []T{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorage, path, err)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrStorage, path, err)
	}
	if c.items == nil {
		c.items = []T{}
	}
	return c, nil
}

// Path returns the backing file
func (c *FileCollection[T]) Path() string {
	return c.path
}

// All returns a deep copy of every record
func (c *FileCollection[T]) All() ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

// Find returns a copy of the first record matching pred
func (c *FileCollection[T]) Find(pred func(*T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	for i := range c.items {
		if pred(&c.items[i]) {
			cp, err := clone([]T{c.items[i]})
			if err != nil {
				return zero, false
			}
			return cp[0], true
		}
	}
	return zero, false
}

// Mutate applies fn to a private copy of the records, persists the result and
// only then makes it visible. If fn or the write fails nothing changes.
func (c *FileCollection[T]) Mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working, err := clone(c.items)
	if err != nil {
		return err
	}
	working, err = fn(working)
	if err != nil {
		return err
	}
	if working == nil {
		working = []T{}
	}
	if err := c.write(working); err != nil {
		return err
	}
	c.items = working
	return nil
}

// write replaces the file atomically: temp file in the same directory, fsync, rename.
func (c *FileCollection[T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrStorage, c.path, err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, c.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, c.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing %s: %v", ErrStorage, c.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, c.path, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", ErrStorage, c.path, err)
	}
	return nil
}

func clone[T any](items []T) ([]T, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: copying records: %v", ErrStorage, err)
	}
	out := make([]T, 0, len(items))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: copying records: %v", ErrStorage, err)
	}
	return out, nil
}
