package blob

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
)

// Store is the in-memory content-addressed blob store backing an
// endpoint. Objects are keyed by the hex SHA-256 of their bytes.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStore() *Store {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

func (s *Store) Put(data []byte) string {
	hash := HashBytes(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blobs[hash]; !exists {
		stored := make([]byte, len(data))
		copy(stored, data)
		s.blobs[hash] = stored
	}
	return hash
}

func (s *Store) Get(hash string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[hash]
	return data, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blobs)
}

func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

func HashReader(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
