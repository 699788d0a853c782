// Package service defines the ports the usecases need from infrastructure:
// hashing, tokens, QR codes, notifications and event publishing.
package service

// MaxPasswordBytes is the longest password the hasher accepts. bcrypt ignores
// or rejects anything past 72 bytes, so longer inputs are refused at signup.
const MaxPasswordBytes = 72

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	// Hash returns a salted hash. Passwords over MaxPasswordBytes are an error.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
