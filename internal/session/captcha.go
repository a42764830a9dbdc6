package session

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	captchaAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CaptchaLength   = 5
)

// NewCaptcha returns a random code of CaptchaLength upper-case letters and digits.
func NewCaptcha() (string, error) {
	max := big.NewInt(int64(len(captchaAlphabet)))
	buf := make([]byte, CaptchaLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate captcha: %w", err)
		}
		buf[i] = captchaAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// CaptchaMatches compares the submitted code with the expected one. The
// comparison is case-sensitive and an empty expectation never matches.
func CaptchaMatches(expected, submitted string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
