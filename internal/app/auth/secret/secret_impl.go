package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/alexedwards/argon2id"
	customErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	domainSecret "github.com/taskhub/auth-service/internal/domain/auth/secret"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// HasherImpl implements both hashing regimes plus ephemeral-token minting.
// The pepper is appended to passwords before hashing, same value the
// service was configured with.
type HasherImpl struct {
	pepper string
}

func NewHasher(pepper string) *HasherImpl {
	return &HasherImpl{pepper: pepper}
}

func (h *HasherImpl) HashPassword(plaintext string) (string, error) {
	hash, err := argon2id.CreateHash(plaintext+h.pepper, argonParams)
	if err != nil {
		return "", customErrors.WrapInternal(err, "HashPassword")
	}
	return hash, nil
}

func (h *HasherImpl) ComparePassword(plaintext, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plaintext+h.pepper, hash)
	if err != nil {
		return false, customErrors.WrapInternal(err, "ComparePassword")
	}
	return ok, nil
}

func (h *HasherImpl) HashOpaqueToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// NewEphemeralToken draws 32 bytes from the CSPRNG and renders them as a
// 64-char hex string. Callers persist Hash and ExpiresAt, mail Plaintext
// and drop it.
func (h *HasherImpl) NewEphemeralToken(ttl time.Duration) (domainSecret.EphemeralToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return domainSecret.EphemeralToken{}, customErrors.WrapInternal(err, "NewEphemeralToken")
	}

	plaintext := hex.EncodeToString(buf)
	return domainSecret.EphemeralToken{
		Plaintext: plaintext,
		Hash:      h.HashOpaqueToken(plaintext),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
