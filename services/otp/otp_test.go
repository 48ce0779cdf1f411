package otp

import (
	"errors"
	"testing"
	"time"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

func fixedService(at time.Time) *Service {
	s := NewService()
	s.now = func() time.Time { return at }
	return s
}

func TestIssueSetsCodeAndExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedService(now)
	user := &models.User{Email: "a@x.com"}

	code, err := s.Issue(user, models.ChannelEmail)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !utils.IsSixDigits(code) {
		t.Errorf("issued code %q is not 6 digits", code)
	}
	if user.EmailOTP != code {
		t.Errorf("stored code %q does not match returned code %q", user.EmailOTP, code)
	}
	want := now.Add(30 * time.Minute)
	if !user.EmailOTPExpiresAt.Equal(want) {
		t.Errorf("expiry = %v, want %v", user.EmailOTPExpiresAt, want)
	}
	if user.PhoneOTP != "" {
		t.Errorf("issuing email code touched phone channel: %q", user.PhoneOTP)
	}
}

func TestVerifySuccessClearsCode(t *testing.T) {
	now := time.Now()
	s := fixedService(now)
	user := &models.User{}

	code, err := s.Issue(user, models.ChannelEmail)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Verify(user, models.ChannelEmail, code); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !user.EmailVerified {
		t.Error("EmailVerified not set after successful verification")
	}
	if user.EmailOTP != "" || !user.EmailOTPExpiresAt.IsZero() {
		t.Error("code and expiry not cleared after verification")
	}

	// replaying the same code must fail
	err = s.Verify(user, models.ChannelEmail, code)
	if err == nil {
		t.Fatal("replay of a consumed code succeeded")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("replay error is not an AppError: %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedService(issuedAt)
	user := &models.User{}

	code, err := s.Issue(user, models.ChannelPhone)
	if err != nil {
		t.Fatal(err)
	}

	// 31 minutes later the code is dead even though the digits match
	s.now = func() time.Time { return issuedAt.Add(31 * time.Minute) }
	err = s.Verify(user, models.ChannelPhone, code)
	if err == nil {
		t.Fatal("expired code accepted")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Status != 410 {
		t.Errorf("expected expired error with status 410, got %v", err)
	}
	if user.PhoneVerified {
		t.Error("expired verification flipped the verified flag")
	}
}

func TestVerifyAtBoundaryStillValid(t *testing.T) {
	issuedAt := time.Now()
	s := fixedService(issuedAt)
	user := &models.User{}

	code, _ := s.Issue(user, models.ChannelEmail)

	s.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
	if err := s.Verify(user, models.ChannelEmail, code); err != nil {
		t.Errorf("code rejected exactly at expiry instant: %v", err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	s := fixedService(time.Now())
	user := &models.User{}

	code, _ := s.Issue(user, models.ChannelEmail)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := s.Verify(user, models.ChannelEmail, wrong); err == nil {
		t.Fatal("mismatched code accepted")
	}
	if user.EmailVerified {
		t.Error("mismatch flipped the verified flag")
	}
	if user.EmailOTP != code {
		t.Error("mismatch cleared the stored code; a later correct submit should still work")
	}
	if err := s.Verify(user, models.ChannelEmail, code); err != nil {
		t.Errorf("correct code rejected after a prior mismatch: %v", err)
	}
}

func TestVerifyMalformedCode(t *testing.T) {
	s := fixedService(time.Now())
	user := &models.User{}
	if _, err := s.Issue(user, models.ChannelEmail); err != nil {
		t.Fatal(err)
	}

	for _, code := range []string{"", "12345", "1234567", "12a456", "12 456"} {
		err := s.Verify(user, models.ChannelEmail, code)
		if err == nil {
			t.Errorf("malformed code %q accepted", code)
			continue
		}
		var appErr *utils.AppError
		if !errors.As(err, &appErr) || appErr.Status != 400 {
			t.Errorf("malformed code %q: expected validation error, got %v", code, err)
		}
	}
}

func TestChannelsIndependent(t *testing.T) {
	s := fixedService(time.Now())
	user := &models.User{}

	emailCode, _ := s.Issue(user, models.ChannelEmail)
	phoneCode, _ := s.Issue(user, models.ChannelPhone)

	if err := s.Verify(user, models.ChannelEmail, emailCode); err != nil {
		t.Fatal(err)
	}
	if user.PhoneVerified {
		t.Error("verifying email also verified phone")
	}
	if user.PhoneOTP != phoneCode {
		t.Error("verifying email cleared the phone code")
	}
	if err := s.Verify(user, models.ChannelPhone, phoneCode); err != nil {
		t.Errorf("phone verification failed after email verification: %v", err)
	}
}

func TestResendRejectedForVerifiedChannel(t *testing.T) {
	s := fixedService(time.Now())
	user := &models.User{EmailVerified: true}

	_, err := s.Resend(user, models.ChannelEmail)
	if err == nil {
		t.Fatal("resend accepted for a verified channel")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Status != 409 {
		t.Errorf("expected already-verified conflict, got %v", err)
	}
	if !user.EmailVerified {
		t.Error("rejected resend altered the verified flag")
	}
	if user.EmailOTP != "" {
		t.Error("rejected resend issued a code")
	}
}

func TestResendReplacesCode(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedService(now)
	user := &models.User{}

	first, _ := s.Issue(user, models.ChannelPhone)

	s.now = func() time.Time { return now.Add(10 * time.Minute) }
	second, err := s.Resend(user, models.ChannelPhone)
	if err != nil {
		t.Fatal(err)
	}

	if user.PhoneOTP != second {
		t.Error("resend did not store the new code")
	}
	want := now.Add(10 * time.Minute).Add(30 * time.Minute)
	if !user.PhoneOTPExpiresAt.Equal(want) {
		t.Errorf("resend expiry = %v, want %v", user.PhoneOTPExpiresAt, want)
	}
	if first == second {
		// Codes can collide by chance, but the superseded code must not work
		// once replaced; verify with the stored one only.
		t.Logf("resend produced the same code twice (possible, just unlikely)")
	}
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := utils.GenerateOTP()
		if err != nil {
			t.Fatal(err)
		}
		if !utils.IsSixDigits(code) {
			t.Fatalf("generated code %q is not 6 digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("generated code %q is below 100000", code)
		}
	}
}
