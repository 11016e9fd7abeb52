package services

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/magicalwebsite/backend/internal/config"
	"github.com/magicalwebsite/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Hasher is the interface that wraps password hashing methods
type Hasher interface {
	// Method Hash returns the stored representation of a password.
	Hash(password string) (string, error)
	// Method Matches reports whether password produces the stored hash.
	Matches(hash, password string) bool
}

// NewHasher returns the hasher configured by name
func NewHasher(name string) (Hasher, error) {
	switch name {
	case config.HasherMD5:
		return md5Hasher{}, nil
	case config.HasherBcrypt:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unsupported password hasher: %s", name)
	}
}

// md5Hasher produces the legacy unsalted hex digest existing accounts were stored with
type md5Hasher struct{}

func (md5Hasher) Hash(password string) (string, error) {
	return md5Hex(password), nil
}

func (md5Hasher) Matches(hash, password string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(md5Hex(password))) == 1
}

func md5Hex(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// bcryptHasher hashes new passwords with bcrypt and still accepts legacy md5 hashes
type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h bcryptHasher) Matches(hash, password string) bool {
	if isLegacyDigest(hash) {
		return md5Hasher{}.Matches(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// isLegacyDigest reports whether hash looks like a 32-character hex md5 digest
func isLegacyDigest(hash string) bool {
	if len(hash) != md5.Size*2 {
		return false
	}
	return strings.Trim(strings.ToLower(hash), "0123456789abcdef") == ""
}
