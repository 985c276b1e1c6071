package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey detects unique-constraint violations across drivers.
// Postgres reports them via the translated gorm error or a "duplicate key"
// message; the sqlite driver used in tests reports "UNIQUE constraint failed".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
