package otp

import (
	"time"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

// Expiry is how long an issued code stays valid.
const Expiry = 30 * time.Minute

// Service issues and validates per-channel verification codes. It mutates
// the user struct only; callers persist the result, so a validation failure
// never touches the database.
type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// Issue sets a fresh code and expiry on the channel's fields and returns the
// code for dispatch.
func (s *Service) Issue(user *models.User, channel models.OTPChannel) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(Expiry)
	switch channel {
	case models.ChannelEmail:
		user.EmailOTP = code
		user.EmailOTPExpiresAt = expiresAt
	case models.ChannelPhone:
		user.PhoneOTP = code
		user.PhoneOTPExpiresAt = expiresAt
	}
	return code, nil
}

// Resend rejects already-verified channels and otherwise behaves exactly like
// Issue.
func (s *Service) Resend(user *models.User, channel models.OTPChannel) (string, error) {
	if user.Verified(channel) {
		return "", utils.NewAlreadyVerifiedError("This channel is already verified")
	}
	return s.Issue(user, channel)
}

// Verify checks the submitted code against the channel's stored state. On
// success the verified flag flips and the stored code and expiry are cleared,
// so a replay of the same code fails.
func (s *Service) Verify(user *models.User, channel models.OTPChannel, code string) error {
	if !utils.IsSixDigits(code) {
		return utils.NewValidationError("OTP must be exactly 6 digits")
	}

	stored, expiresAt := user.EmailOTP, user.EmailOTPExpiresAt
	if channel == models.ChannelPhone {
		stored, expiresAt = user.PhoneOTP, user.PhoneOTPExpiresAt
	}

	if stored == "" {
		return utils.NewMismatchError("No verification code is pending for this channel")
	}
	if s.now().After(expiresAt) {
		return utils.NewExpiredError("The verification code has expired. Request a new one.")
	}
	if stored != code {
		return utils.NewMismatchError("Incorrect verification code")
	}

	switch channel {
	case models.ChannelEmail:
		user.EmailVerified = true
		user.EmailOTP = ""
		user.EmailOTPExpiresAt = time.Time{}
	case models.ChannelPhone:
		user.PhoneVerified = true
		user.PhoneOTP = ""
		user.PhoneOTPExpiresAt = time.Time{}
	}
	return nil
}
