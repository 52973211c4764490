package persist

import (
	"context"
	"errors"
	"sync"

	"github.com/l1jgo/worldcore/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrBanned         = errors.New("account banned")
)

// Accounts authenticates logins.
type Accounts interface {
	// Authenticate checks name/password. When autoCreate is set an unknown
	// name is registered with the given password.
	Authenticate(ctx context.Context, name, password string, autoCreate bool) error
	SetOnline(ctx context.Context, name string, online bool) error
}

// Saves reads and writes player snapshots.
type Saves interface {
	// Load returns ok=false when no save exists for username.
	Load(ctx context.Context, username string) (entity.PlayerSave, bool, error)
	Save(ctx context.Context, s entity.PlayerSave) error
}

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// MemoryStore keeps accounts and saves for the life of the process. It is
// used when no database is configured, and by tests.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]string // name -> bcrypt hash
	online   map[string]bool
	saves    map[string]entity.PlayerSave
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]string),
		online:   make(map[string]bool),
		saves:    make(map[string]entity.PlayerSave),
	}
}

func (m *MemoryStore) Authenticate(_ context.Context, name, password string, autoCreate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.accounts[name]
	if !ok {
		if !autoCreate {
			return ErrBadCredentials
		}
		h, err := hashPassword(password)
		if err != nil {
			return err
		}
		m.accounts[name] = h
		return nil
	}
	if !passwordMatches(hash, password) {
		return ErrBadCredentials
	}
	return nil
}

func (m *MemoryStore) SetOnline(_ context.Context, name string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online[name] = online
	return nil
}

func (m *MemoryStore) Online(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online[name]
}

func (m *MemoryStore) Load(_ context.Context, username string) (entity.PlayerSave, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saves[username]
	return s, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, s entity.PlayerSave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[s.Username] = s
	return nil
}
