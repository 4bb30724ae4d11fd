package config

import "sync"

// SigningKey holds the process-wide session-token signing key. Rotate installs
// a new key without a restart; the previous key is kept so tokens signed just
// before a rotation still verify until they expire.
type SigningKey struct {
	mu       sync.RWMutex
	current  []byte
	previous []byte
}

func NewSigningKey(secret string) *SigningKey {
	return &SigningKey{current: []byte(secret)}
}

// Current returns the key used for signing new tokens.
func (k *SigningKey) Current() []byte {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.current
}

// Candidates returns the keys accepted for verification, newest first.
func (k *SigningKey) Candidates() [][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.previous == nil {
		return [][]byte{k.current}
	}
	return [][]byte{k.current, k.previous}
}

func (k *SigningKey) Rotate(secret string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.previous = k.current
	k.current = []byte(secret)
}
