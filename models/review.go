package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating         float64      `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment        string       `json:"comment"`
	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
	PatronID       uint         `json:"patron_id"`
	Patron         User         `json:"patron,omitempty" gorm:"foreignKey:PatronID"`
	IsAnonymous    bool         `json:"is_anonymous" gorm:"default:false"`
	// IsVerified marks reviews linked to a completed appointment.
	IsVerified    bool  `json:"is_verified" gorm:"default:false"`
	AppointmentID *uint `json:"appointment_id"`
}

// BeforeCreate clamps the rating into [1.0, 5.0].
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview checks whether the patron already reviewed this
// professional.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("patron_id = ? AND professional_id = ? AND deleted_at IS NULL",
			r.PatronID, r.ProfessionalID).
		Count(&count).Error

	return count > 0, err
}
