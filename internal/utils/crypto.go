// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateAffiliateCode produces a partner code for affiliates created
// without an explicit one. Uppercase so codes read cleanly in URLs.
func GenerateAffiliateCode() (string, error) {
	code, err := GenerateRandomString(8)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(code), nil
}
