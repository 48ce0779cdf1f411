package models

import (
	"gorm.io/gorm"
)

// Professional is a service-provider profile linked to a User account with
// role "professional".
type Professional struct {
	gorm.Model
	UserID          uint    `json:"user_id" gorm:"uniqueIndex"`
	User            User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Specialization  string  `json:"specialization"`
	Degree          string  `json:"degree"`
	LicenseURL      string  `json:"license_url"`
	ProfilePicture  string  `json:"profile_picture"`
	ExperienceYears int     `json:"experience_years"`
	Rate            float64 `json:"rate"`
	Bio             string  `json:"bio"`
	// Approved is true immediately when an admin registers the professional;
	// self-service requests wait for admin approval.
	Approved bool `json:"approved" gorm:"default:false"`
}
