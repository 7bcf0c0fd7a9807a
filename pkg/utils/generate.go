package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// ==================== OTP ====================

const (
	otpMin   = 100000
	otpRange = 900000
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
