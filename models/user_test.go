package models

import (
	"testing"
	"time"
)

func TestSanitizeClearsSecrets(t *testing.T) {
	u := &User{
		Password:          "hash",
		EmailOTP:          "123456",
		PhoneOTP:          "654321",
		RefreshTokenID:    "jti",
		EmailOTPExpiresAt: time.Now(),
	}
	u.Sanitize()
	if u.Password != "" || u.EmailOTP != "" || u.PhoneOTP != "" || u.RefreshTokenID != "" {
		t.Error("Sanitize left secret material on the struct")
	}
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Asha", LastName: "Rao"}
	if got := u.FullName(); got != "Asha Rao" {
		t.Errorf("FullName() = %q", got)
	}
	u.LastName = ""
	if got := u.FullName(); got != "Asha" {
		t.Errorf("FullName() without last name = %q", got)
	}
}

func TestVerifiedPerChannel(t *testing.T) {
	u := &User{EmailVerified: true}
	if !u.Verified(ChannelEmail) {
		t.Error("email channel should report verified")
	}
	if u.Verified(ChannelPhone) {
		t.Error("phone channel should not report verified")
	}
}
