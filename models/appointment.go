package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentInitiated PaymentStatus = "initiated"
	PaymentPaid      PaymentStatus = "paid"
)

type Appointment struct {
	gorm.Model
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Status         AppointmentStatus `json:"status"`
	Notes          string            `json:"notes"`
	ProfessionalID uint              `json:"professional_id"`
	Professional   Professional      `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
	PatronID       uint              `json:"patron_id"`
	Patron         User              `json:"patron,omitempty" gorm:"foreignKey:PatronID"`
	PaymentStatus  PaymentStatus     `json:"payment_status"`
	PaymentRef     string            `json:"payment_ref,omitempty" gorm:"index"`
	MeetingURL     string            `json:"meeting_url,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentUnpaid
	}
	return nil
}

// CanTransitionTo validates the status state machine: pending may confirm or
// cancel, confirmed may complete or cancel, cancelled and completed are
// terminal.
func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}
	return nil
}

// Sanitize clears credential material on the preloaded user records before
// the appointment is serialized into a response.
func (a *Appointment) Sanitize() {
	a.Patron.Sanitize()
	a.Professional.User.Sanitize()
}

// UpdateStatus applies a validated transition and persists it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if err := a.CanTransitionTo(newStatus); err != nil {
		return err
	}
	a.Status = newStatus
	return tx.Save(a).Error
}
