package admin

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/config"
	"github.com/Navneet1206/appoint-healers/models"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Navneet1206/appoint-healers/redis"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/utils"
)

type ProfessionalController struct {
	db         *gorm.DB
	rdb        *goredis.Client
	cfg        *config.Config
	dispatcher *notification.Dispatcher
}

func NewProfessionalController(db *gorm.DB, rdb *goredis.Client, cfg *config.Config, dispatcher *notification.Dispatcher) *ProfessionalController {
	return &ProfessionalController{db: db, rdb: rdb, cfg: cfg, dispatcher: dispatcher}
}

type registerProfessionalRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	DateOfBirth     string  `json:"date_of_birth" validate:"required"`
	Specialization  string  `json:"specialization" validate:"required"`
	Degree          string  `json:"degree" validate:"required"`
	ExperienceYears int     `json:"experience_years"`
	Rate            float64 `json:"rate" validate:"required"`
	Bio             string  `json:"bio"`
}

// Register creates the professional's account and profile in one
// administrative action. The profile is approved immediately since an admin
// performed it.
func (h *ProfessionalController) Register(c *fiber.Ctx) error {
	req := new(registerProfessionalRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return utils.NewValidationError("date_of_birth must be YYYY-MM-DD")
	}

	var existing models.User
	if h.db.Where("email = ?", req.Email).First(&existing).RowsAffected > 0 {
		return utils.NewConflictError("User with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var role models.Role
	if err := h.db.Where("name = ?", models.RoleProfessional).First(&role).Error; err != nil {
		log.Printf("Error finding professional role: %v", err)
		return err
	}

	var profile models.Professional
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:       req.Email,
			Password:    string(hashedPassword),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			DateOfBirth: dob,
			RoleID:      role.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile = models.Professional{
			UserID:          user.ID,
			Specialization:  req.Specialization,
			Degree:          req.Degree,
			ExperienceYears: req.ExperienceYears,
			Rate:            req.Rate,
			Bio:             req.Bio,
			Approved:        true,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return err
	}

	redis.InvalidateProfessionalList(c.Context(), h.rdb)
	h.dispatcher.EnqueueEmail(req.Email, "Welcome to Appoint Healers",
		"<p>Dear "+req.FirstName+",</p><p>Your professional account has been created by our team. You can log in and start accepting appointments.</p>")

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Approve flips the approval flag on a self-registered professional.
func (h *ProfessionalController) Approve(c *fiber.Ctx) error {
	var profile models.Professional
	if err := h.db.Preload("User").First(&profile, c.Params("id")).Error; err != nil {
		return utils.NewNotFoundError("Professional not found")
	}

	if profile.Approved {
		return utils.NewConflictError("Professional is already approved")
	}

	profile.Approved = true
	if err := h.db.Save(&profile).Error; err != nil {
		return err
	}

	// Self-service applicants registered as patrons; approval promotes the
	// account.
	var role models.Role
	if err := h.db.Where("name = ?", models.RoleProfessional).First(&role).Error; err == nil {
		if err := h.db.Model(&models.User{}).Where("id = ?", profile.UserID).
			Update("role_id", role.ID).Error; err != nil {
			log.Printf("Failed to promote user %d to professional: %v", profile.UserID, err)
		}
	}

	redis.InvalidateProfessionalList(c.Context(), h.rdb)
	h.dispatcher.EnqueueEmail(profile.User.Email, "Your profile has been approved",
		"<p>Dear "+profile.User.FirstName+",</p><p>Your professional profile has been approved. Patients can now book sessions with you.</p>")

	profile.User.Sanitize()
	return c.JSON(profile)
}

// List returns every professional, approved or not, for the admin dashboard.
func (h *ProfessionalController) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := h.db.Preload("User")
	if approved := c.Query("approved"); approved != "" {
		query = query.Where("approved = ?", approved == "true")
	}

	var professionals []models.Professional
	if err := query.Limit(limit).Offset(offset).Find(&professionals).Error; err != nil {
		return err
	}

	var count int64
	h.db.Model(&models.Professional{}).Count(&count)

	for i := range professionals {
		professionals[i].User.Sanitize()
	}

	return c.JSON(fiber.Map{
		"professionals": professionals,
		"total":         count,
		"page":          page,
		"limit":         limit,
		"pages":         (int(count) + limit - 1) / limit,
	})
}

// UploadDocument attaches a license/degree document to a professional's
// profile via Cloudinary.
func (h *ProfessionalController) UploadDocument(c *fiber.Ctx) error {
	var profile models.Professional
	if err := h.db.First(&profile, c.Params("id")).Error; err != nil {
		return utils.NewNotFoundError("Professional not found")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return utils.NewValidationError("Failed to get document")
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	publicID := fmt.Sprintf("professional_%d_%d", profile.ID, time.Now().Unix())
	secureURL, err := utils.UploadToCloudinary(h.cfg.Cloudinary, f, publicID, "licenses")
	if err != nil {
		return err
	}

	profile.LicenseURL = secureURL
	if err := h.db.Save(&profile).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"license_url": profile.LicenseURL,
	})
}
