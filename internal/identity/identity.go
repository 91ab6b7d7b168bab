// Package identity derives deterministic person IDs and normalizes phone
// numbers.
//
// A person's ID is content-derived: the lowercased, trimmed first name
// concatenated with the last 4 digits of the phone number, hashed with
// SHA-256 and truncated to 16 hex characters. 64 bits is plenty for a
// human-scale contact list; this is a dedup key, not a security boundary.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// idLength is the number of hex characters kept from the digest.
const idLength = 16

// DerivePersonID computes the deterministic ID for a person. The same
// (firstName, last-4-of-phone) pair always yields the same ID regardless of
// name capitalization or phone punctuation.
func DerivePersonID(firstName, phone string) string {
	input := strings.ToLower(strings.TrimSpace(firstName)) + Last4(phone)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:idLength]
}

// Last4 returns the last 4 digits of a phone number, or fewer if the number
// has fewer than 4 digits.
func Last4(phone string) string {
	digits := stripNonDigits(phone)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// NormalizePhone strips non-digit characters and drops the leading country
// code from an 11-digit number starting with 1.
func NormalizePhone(phone string) string {
	digits := stripNonDigits(phone)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// FormatPhone renders a 10-digit number as (XXX) XXX-XXXX. Anything else is
// returned unchanged.
func FormatPhone(phone string) string {
	digits := stripNonDigits(phone)
	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
