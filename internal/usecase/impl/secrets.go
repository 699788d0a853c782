package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"

	"estate/internal/errors"
)

const (
	otpDigits         = 6
	verificationBytes = 32
)

// randomDigits returns n uniformly random decimal digits.
func randomDigits(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)

	ten := big.NewInt(10)
	for range n {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", errors.Wrap(err, "failed to read random digit")
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}

	return sb.String(), nil
}

// randomHex returns 2*n hex characters from n random bytes.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// secretsEqual compares in constant time.
func secretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
