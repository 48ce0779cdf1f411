package models

import (
	"time"
)

// OTPChannel selects which verification channel an OTP belongs to. Email and
// phone carry independent codes, expiries and verified flags.
type OTPChannel string

const (
	ChannelEmail OTPChannel = "email"
	ChannelPhone OTPChannel = "phone"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email" gorm:"unique"`
	Password    string    `json:"password,omitempty"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"date_of_birth"`

	EmailVerified     bool      `json:"email_verified"`
	PhoneVerified     bool      `json:"phone_verified"`
	EmailOTP          string    `json:"-"`
	EmailOTPExpiresAt time.Time `json:"-"`
	PhoneOTP          string    `json:"-"`
	PhoneOTPExpiresAt time.Time `json:"-"`

	// jti of the single active refresh token. Overwritten on every login and
	// refresh, which invalidates all prior refresh tokens for the account.
	RefreshTokenID string `json:"-"`

	RoleID uint `json:"role_id"`
	Role   Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatronID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitize blanks credential material before the record is serialized into a
// response body.
func (u *User) Sanitize() {
	u.Password = ""
	u.EmailOTP = ""
	u.PhoneOTP = ""
	u.RefreshTokenID = ""
}

// FullName joins first and last names for notification bodies.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Verified reports whether the given channel has been verified.
func (u *User) Verified(channel OTPChannel) bool {
	if channel == ChannelEmail {
		return u.EmailVerified
	}
	return u.PhoneVerified
}
