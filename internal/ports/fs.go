package ports

// FileSystemPort abstracts the destination file system so the deploy
// pipeline can target local disk or a remote transport uniformly.
// Write must be atomic (no partially-written file observable).
type FileSystemPort interface {
	Exists(path string) (bool, error)
	Read(path string) ([]byte, error)
	Write(path string, content []byte) error
	WriteBinary(path string, content []byte) error
	Remove(path string) error
	RemoveAll(path string) error

	// ListFiles returns the relative paths of all regular files under
	// dir, recursively. A missing dir yields an empty list.
	ListFiles(dir string) ([]string, error)
}
