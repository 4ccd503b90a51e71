// Package security implementa el hashing de contraseñas.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// legacySaltLength longitud de la sal al inicio de un hash heredado: sal + sha256hex(sal + contraseña).
const legacySaltLength = 32

// ErrUnknownHash el hash no es bcrypt ni del formato heredado.
var ErrUnknownHash = errors.New("formato de hash desconocido")

// BcryptHasher calcula hashes bcrypt y acepta además los hashes SHA-256 con sal del sistema anterior,
// marcándolos para regenerar.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher crea el hasher. Un costo fuera de rango usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash genera un hash bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compara password con hash. Una contraseña incorrecta devuelve (false, nil).
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	switch {
	case isBcrypt(hash):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt: %w", err)
		}
		return true, nil
	case isLegacy(hash):
		return subtle.ConstantTimeCompare([]byte(legacyHash(hash[:legacySaltLength], password)), []byte(hash)) == 1, nil
	}
	return false, ErrUnknownHash
}

// NeedsRehash true para hashes heredados y para bcrypt con costo menor al configurado.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	if !isBcrypt(hash) {
		return isLegacy(hash)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost < h.cost
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

func isLegacy(hash string) bool {
	if len(hash) != legacySaltLength+sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash[legacySaltLength:])
	return err == nil
}

func legacyHash(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return salt + hex.EncodeToString(sum[:])
}
