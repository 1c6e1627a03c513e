// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"thalassist/config"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/service"
)

// bcrypt only looks at the first 72 bytes of a password.
const bcryptMaxPasswordLength = 72

var defaultForbiddenWords = []string{"password", "admin", "qwerty", "letmein", "welcome"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost           int
	policy         config.PasswordStrengthConfig
	forbiddenWords []string
}

// NewPasswordHasher builds a hasher from the auth and passwordStrength sections.
func NewPasswordHasher(cfg *config.Config) service.PasswordHasher {
	hasher := newBcryptHasher(bcrypt.DefaultCost)
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		hasher.policy = *cfg.PasswordStrength
	}

	return hasher
}

// NewBcryptHasher returns a hasher with the default cost and the strict policy.
func NewBcryptHasher() service.PasswordHasher {
	return newBcryptHasher(bcrypt.DefaultCost)
}

// NewBcryptHasherWithCost returns a hasher with a custom bcrypt cost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return newBcryptHasher(cost)
}

func newBcryptHasher(cost int) *bcryptHasher {
	return &bcryptHasher{
		cost: cost,
		policy: config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        bcryptMaxPasswordLength,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
			RequireSpecial:   true,
		},
		forbiddenWords: defaultForbiddenWords,
	}
}

// Hash validates the password against the policy and returns its bcrypt hash.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength rejects passwords that miss a configured requirement.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	length := len([]rune(password))
	if length < h.policy.MinLength {
		return h.weak("password must be at least %d characters long", h.policy.MinLength)
	}
	maxLength := h.policy.MaxLength
	if maxLength <= 0 || maxLength > bcryptMaxPasswordLength {
		maxLength = bcryptMaxPasswordLength
	}
	if len(password) > maxLength {
		return h.weak("password must be at most %d bytes long", maxLength)
	}
	if h.policy.RequireLowercase && !h.hasLowercase(password) {
		return h.weak("password must contain at least one lowercase letter")
	}
	if h.policy.RequireUppercase && !h.hasUppercase(password) {
		return h.weak("password must contain at least one uppercase letter")
	}
	if h.policy.RequireNumbers && !h.hasNumbers(password) {
		return h.weak("password must contain at least one number")
	}
	if h.policy.RequireSpecial && !h.hasSpecialChars(password) {
		return h.weak("password must contain at least one special character")
	}
	if h.containsForbiddenWords(password, h.forbiddenWords) {
		return h.weak("password contains forbidden words")
	}

	return nil
}

func (h *bcryptHasher) weak(format string, args ...any) error {
	return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf(format, args...))
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func (h *bcryptHasher) containsForbiddenWords(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return false
}
