package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of a plaintext secret. The cost is
// pinned at bcrypt's default (10 rounds); the salt is random per call, so
// two hashes of the same secret differ and only VerifySecret can compare.
func HashSecret(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret reports whether plain hashes to hash under the salt and cost
// embedded in hash. Any failure, including a malformed hash, is a plain
// false rather than an error.
func VerifySecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
