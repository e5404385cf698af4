package id

import (
	"strings"

	"github.com/google/uuid"
)

const txnPrefix = "txn-"

// NewID32 returns a random v4 uuid rendered as exactly 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewTransactionID returns the public reference stored on a payment, e.g. "txn-3f9a6a1b-...".
func NewTransactionID() string {
	return txnPrefix + uuid.NewString()
}

// IsTransactionID reports whether s looks like a value produced by NewTransactionID.
func IsTransactionID(s string) bool {
	if !strings.HasPrefix(s, txnPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(s, txnPrefix))
	return err == nil
}
