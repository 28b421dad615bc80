package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	credentialsBucket = []byte("credentials")
	tabsBucket        = []byte("tabs")
	tokenKey          = []byte("token")
)

// Storage persists the credential token and per-scope guest ids.
type Storage interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
	GuestID(scope string) (string, error)
	SetGuestID(scope, id string) error
}

// BoltStorage is a Storage backed by a bbolt file.
type BoltStorage struct {
	db *bolt.DB
}

// OpenBolt opens or creates the identity store at path.
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure identity directory: %w", err)
	}
	var fileMode fs.FileMode = 0o600
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("identity store %s is locked by another process", path)
		}
		return nil, fmt.Errorf("open identity store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(credentialsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(tabsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create identity buckets: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

// Close releases the underlying file.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func (s *BoltStorage) Token() (string, error) {
	return s.get(credentialsBucket, tokenKey)
}

func (s *BoltStorage) SetToken(token string) error {
	return s.put(credentialsBucket, tokenKey, token)
}

func (s *BoltStorage) ClearToken() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete(tokenKey)
	})
}

func (s *BoltStorage) GuestID(scope string) (string, error) {
	return s.get(tabsBucket, []byte(scope))
}

func (s *BoltStorage) SetGuestID(scope, id string) error {
	return s.put(tabsBucket, []byte(scope), id)
}

func (s *BoltStorage) get(bucket, key []byte) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		value = string(tx.Bucket(bucket).Get(key))
		return nil
	})
	return value, err
}

func (s *BoltStorage) put(bucket, key []byte, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, []byte(value))
	})
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	token  string
	guests map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{guests: map[string]string{}}
}

func (m *MemoryStorage) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStorage) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStorage) ClearToken() error {
	return m.SetToken("")
}

func (m *MemoryStorage) GuestID(scope string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guests[scope], nil
}

func (m *MemoryStorage) SetGuestID(scope, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[scope] = id
	return nil
}
