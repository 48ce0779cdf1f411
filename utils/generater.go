package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateOTP returns a 6-digit numeric code drawn uniformly from
// [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GeneratePaymentRef returns a unique reference for a payment initiation.
func GeneratePaymentRef() string {
	return "pay_" + uuid.NewString()
}

// GenerateTokenID returns the jti for a refresh token.
func GenerateTokenID() string {
	return uuid.NewString()
}
