package domain

// Credential is the stored, hashed form of a user's password together with the
// roles a token issued for it will carry.
type Credential struct {
	SubjectID    string
	PasswordHash string
	Roles        []string
}
