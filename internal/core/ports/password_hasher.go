package ports

// PasswordHasher hashes and verifies passwords with a salted one-way function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A mismatch is (false, nil);
	// an error means verification itself could not run.
	Verify(password, hash string) (bool, error)
}
