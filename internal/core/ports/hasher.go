package ports

// CredentialHasher is the one-way credential boundary. The core hands a
// plaintext in exactly once and only ever stores or compares the opaque
// result.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	// Compare returns nil when plaintext matches the stored hash.
	Compare(hash, plaintext string) error
}
