package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
)

// Migrate applies the schema and seeds the fixed roles.
func Migrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Professional{},
		&models.Appointment{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	seedRoles(database)

	fmt.Println("✅ Migrations applied successfully!")
	return nil
}

func seedRoles(database *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
		{Name: models.RoleProfessional, Description: "Doctor or therapist providing sessions"},
		{Name: models.RolePatron, Description: "Patient who books appointments"},
	}

	for _, role := range roles {
		var existing models.Role
		if database.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			if err := database.Create(&role).Error; err != nil {
				log.Printf("Failed to seed role %s: %v", role.Name, err)
			}
		}
	}
}
