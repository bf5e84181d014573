package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store persists the credential.
type Store interface {
	Load() (Credential, error)
	Save(c Credential) error
	Clear() error
}

// prefs is one namespace of the preferences file.
type prefs struct {
	AuthToken string `yaml:"authToken,omitempty"`
	TenantID  string `yaml:"tenantId,omitempty"`
}

// FileStore keeps credentials in a YAML file that maps a namespace key to
// {authToken, tenantId}. Other namespaces in the same file are left intact.
type FileStore struct {
	path      string
	namespace string
	mu        sync.Mutex
}

// NewFileStore returns a store backed by path under namespace.
func NewFileStore(path, namespace string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences path cannot be empty")
	}
	if namespace == "" {
		return nil, fmt.Errorf("preferences namespace cannot be empty")
	}
	return &FileStore{path: path, namespace: namespace}, nil
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (map[string]prefs, error) {
	doc := map[string]prefs{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	if doc == nil {
		doc = map[string]prefs{}
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace preferences %s: %w", s.path, err)
	}
	return nil
}

// Load returns the stored credential. A missing file or namespace yields an
// empty credential and no error.
func (s *FileStore) Load() (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return Credential{}, err
	}
	p := doc[s.namespace]
	return New(p.AuthToken, p.TenantID), nil
}

// Save replaces the credential under the store's namespace.
func (s *FileStore) Save(c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[s.namespace] = prefs{AuthToken: c.TokenValue(), TenantID: c.Tenant()}
	return s.write(doc)
}

// Clear removes the store's namespace from the file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc[s.namespace]; !ok {
		return nil
	}
	delete(doc, s.namespace)
	return s.write(doc)
}

// MemoryStore keeps the credential in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	cred Credential
}

// NewMemoryStore returns a store seeded with c.
func NewMemoryStore(c Credential) *MemoryStore {
	return &MemoryStore{cred: c}
}

func (s *MemoryStore) Load() (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, nil
}

func (s *MemoryStore) Save(c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = c
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = Credential{}
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
