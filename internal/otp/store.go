package otp

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL matches the SMS copy: codes are valid for 5 minutes.
const DefaultTTL = 5 * time.Minute

type entry struct {
	code      string
	expiresAt time.Time
}

// Store holds one pending code per mobile number. Codes are single use:
// a successful Verify consumes the entry.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Issue generates a fresh 6-digit code for mobile, replacing any pending one.
func (s *Store) Issue(mobile string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[mobile] = entry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// Verify consumes the pending code for mobile if it matches and has not
// expired.
func (s *Store) Verify(mobile, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[mobile]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, mobile)
		return false
	}
	if e.code != code {
		return false
	}

	delete(s.entries, mobile)
	return true
}

// Remove drops any pending code for mobile. Used when SMS delivery fails so
// a stale code cannot be replayed later.
func (s *Store) Remove(mobile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, mobile)
}

// Prune drops all expired entries.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for mobile, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, mobile)
			removed++
		}
	}
	return removed
}

func generateCode() (string, error) {
	// 100000..999999, crypto-grade like the source
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return formatCode(code), nil
}

func formatCode(n int64) string {
	buf := [6]byte{}
	for i := 5; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[:])
}
