package secrets

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileStore is a CredentialStore backed by a JSON file mapping secret
// names to values. The file is read once at construction; resolution
// itself never touches the filesystem.
//
// The file must be readable only by the service account. FileStore does
// not enforce permissions, it only reads.
type FileStore struct {
	values map[string]string
}

// NewFileStore loads the credential file at path.
func NewFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing credential file %s: %w", path, err)
	}

	return &FileStore{values: values}, nil
}

// Lookup returns the stored value for name and whether it exists.
func (s *FileStore) Lookup(name string) (string, bool) {
	value, ok := s.values[name]
	return value, ok && value != ""
}

// MemoryStore is a CredentialStore over a fixed map, for tests and for
// embedding callers that manage credentials themselves.
type MemoryStore map[string]string

// Lookup returns the stored value for name and whether it exists.
func (s MemoryStore) Lookup(name string) (string, bool) {
	value, ok := s[name]
	return value, ok && value != ""
}
