package adapter

// PasswordService hashes and checks user passwords.
type PasswordService interface {
	// HashPassword returns a one-way hash suitable for storing on the user record.
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords that are too short to register with.
	ValidatePasswordStrength(password string) error
}
