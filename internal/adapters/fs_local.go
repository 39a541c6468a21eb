package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"promptpack/internal/ports"
)

// LocalFSAdapter implements the file-system capability on local disk.
// Writes are atomic: content goes to a temp file in the destination
// directory and is renamed into place.
type LocalFSAdapter struct{}

func NewLocalFSAdapter() LocalFSAdapter {
	return LocalFSAdapter{}
}

func (a LocalFSAdapter) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to stat %s", path)).
		WithCause(err)
}

func (a LocalFSAdapter) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	return content, nil
}

func (a LocalFSAdapter) Write(path string, content []byte) error {
	return a.writeAtomic(path, content, 0644)
}

func (a LocalFSAdapter) WriteBinary(path string, content []byte) error {
	return a.writeAtomic(path, content, 0644)
}

func (a LocalFSAdapter) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to remove %s", path)).
			WithCause(err)
	}
	return nil
}

func (a LocalFSAdapter) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to remove %s", path)).
			WithCause(err)
	}
	return nil
}

func (a LocalFSAdapter) ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			relative, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(relative))
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to list %s", dir)).
			WithCause(err)
	}
	return files, nil
}

func (a LocalFSAdapter) writeAtomic(path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create directory %s", dir)).
			WithCause(err)
	}
	temp, err := os.CreateTemp(dir, ".promptpack-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create temp file in %s", dir)).
			WithCause(err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(content); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to close temp file for %s", path)).
			WithCause(err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to chmod %s", path)).
			WithCause(err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to rename into %s", path)).
			WithCause(err)
	}
	return nil
}

var _ ports.FileSystemPort = LocalFSAdapter{}
