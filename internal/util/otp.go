package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateResetOTP draws a reset code uniformly from [100000, 999999], so the
// code is always exactly six decimal digits with no leading zero.
func GenerateResetOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
