package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		err := a.CanTransitionTo(tc.to)
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestBeforeCreateDefaults(t *testing.T) {
	a := &Appointment{}
	if err := a.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if a.Status != StatusPending {
		t.Errorf("default status = %s, want %s", a.Status, StatusPending)
	}
	if a.PaymentStatus != PaymentUnpaid {
		t.Errorf("default payment status = %s, want %s", a.PaymentStatus, PaymentUnpaid)
	}
}

func TestSanitizeStripsUserSecretsFromResponse(t *testing.T) {
	const patronHash = "$2a$10$patronhash"
	const professionalHash = "$2a$10$professionalhash"

	// Shaped like a record loaded with Preload("Patron") and
	// Preload("Professional.User"): both user rows carry their stored hashes.
	a := &Appointment{
		Status: StatusConfirmed,
		Patron: User{
			Email:          "patron@x.com",
			Password:       patronHash,
			EmailOTP:       "123456",
			RefreshTokenID: "jti-1",
		},
		Professional: Professional{
			User: User{
				Email:    "doc@x.com",
				Password: professionalHash,
			},
		},
	}

	a.Sanitize()

	payload, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	body := string(payload)
	if strings.Contains(body, patronHash) || strings.Contains(body, professionalHash) {
		t.Errorf("serialized appointment leaks a password hash: %s", body)
	}
	if strings.Contains(body, `"password"`) {
		t.Errorf("serialized appointment still carries a password field: %s", body)
	}
	if !strings.Contains(body, "patron@x.com") {
		t.Error("sanitizing removed non-secret user fields")
	}
}

func TestBeforeCreateKeepsExplicitStatus(t *testing.T) {
	a := &Appointment{Status: StatusConfirmed, PaymentStatus: PaymentPaid}
	if err := a.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if a.Status != StatusConfirmed || a.PaymentStatus != PaymentPaid {
		t.Error("BeforeCreate overwrote explicit values")
	}
}
