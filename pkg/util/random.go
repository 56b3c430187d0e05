package util

import (
	"crypto/rand"
	"math/big"
)

const otpDigits = "0123456789"

// GenerateOTPCode generates a random numeric one-time code of the given length
func GenerateOTPCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(otpDigits))))
		if err != nil {
			return "", err
		}
		code[i] = otpDigits[n.Int64()]
	}
	return string(code), nil
}
