package secret

import "time"

// Hasher covers the two hashing regimes the flows need: a salted adaptive
// hash for passwords and a fast deterministic one for opaque tokens that
// must be looked up by hash.
type Hasher interface {
	// HashPassword is non-deterministic: the same plaintext yields a
	// different hash on every call because of the per-call salt.
	HashPassword(plaintext string) (string, error)

	ComparePassword(plaintext, hash string) (bool, error)

	// HashOpaqueToken is deterministic and unsalted, so a stored hash can be
	// found by hashing a presented candidate.
	HashOpaqueToken(plaintext string) string
}

// EphemeralToken is the transient value pair behind email verification and
// password reset. Plaintext leaves the process exactly once, inside an
// outbound link; only Hash and ExpiresAt are persisted.
type EphemeralToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// Generator mints single-use, time-boxed tokens.
type Generator interface {
	NewEphemeralToken(ttl time.Duration) (EphemeralToken, error)
}
