package services

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }

// notFound turns gorm.ErrRecordNotFound into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicateKey recognises unique-index violations across the supported
// drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// likePattern matches s anywhere in a LOWER()ed column.
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
