package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ReportsDir = "reports"
)

var (
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
// Every synthesis run gets its own shard, named after the run id.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of a synthesis run artifact.
type Key struct {
	Run   string `json:"run"`
	Label string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Run, k.Label)
}

type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// MakePath makes sure the parent path exists and returns the full file path.
func MakePath(parentPath string, fileName string) (string, error) {
	info, err := os.Stat(parentPath)
	if err != nil {
		err := os.MkdirAll(parentPath, os.ModePerm)
		if err != nil {
			return "", fmt.Errorf("could not make dir: %s: %w", parentPath, err)
		}
	} else if !info.IsDir() {
		return "", fmt.Errorf("path given is not a directory: %s", parentPath)
	}
	return filepath.Join(parentPath, fileName), nil
}
