package services

import (
	"crypto/rand"
	"math/big"
)

// generateShortCode returns a random string of the given length drawn
// uniformly from the 62-character alphanumeric alphabet.
func generateShortCode(length int) (string, error) {
	code := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		code[i] = charset[randomIndex.Int64()]
	}

	return string(code), nil
}
