package consumer

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/redis"
	"github.com/Navneet1206/appoint-healers/utils"
)

type ProfessionalController struct {
	db  *gorm.DB
	rdb *goredis.Client
}

func NewProfessionalController(db *gorm.DB, rdb *goredis.Client) *ProfessionalController {
	return &ProfessionalController{db: db, rdb: rdb}
}

type professionalListing struct {
	Professionals []models.Professional `json:"professionals"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
	Pages         int                   `json:"pages"`
}

// List returns approved professionals, served from the Redis cache when a
// fresh page is available.
func (h *ProfessionalController) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if cached := redis.GetProfessionalList(c.Context(), h.rdb, page, limit); cached != "" {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	offset := (page - 1) * limit

	var professionals []models.Professional
	if err := h.db.Preload("User").
		Where("approved = ?", true).
		Limit(limit).
		Offset(offset).
		Find(&professionals).Error; err != nil {
		return err
	}

	var count int64
	h.db.Model(&models.Professional{}).Where("approved = ?", true).Count(&count)

	for i := range professionals {
		professionals[i].User.Sanitize()
	}

	listing := professionalListing{
		Professionals: professionals,
		Total:         count,
		Page:          page,
		Limit:         limit,
		Pages:         (int(count) + limit - 1) / limit,
	}

	if payload, err := json.Marshal(listing); err == nil {
		redis.SetProfessionalList(c.Context(), h.rdb, page, limit, string(payload))
	}

	return c.JSON(listing)
}

type applyRequest struct {
	Specialization  string  `json:"specialization" validate:"required"`
	Degree          string  `json:"degree" validate:"required"`
	ExperienceYears int     `json:"experience_years"`
	Rate            float64 `json:"rate" validate:"required"`
	Bio             string  `json:"bio"`
}

// Apply lets an authenticated user request a professional profile. The
// profile stays unapproved until an admin reviews it.
func (h *ProfessionalController) Apply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(applyRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var existing models.Professional
	if h.db.Where("user_id = ?", userID).First(&existing).RowsAffected > 0 {
		return utils.NewConflictError("A professional profile already exists for this account")
	}

	profile := models.Professional{
		UserID:          userID,
		Specialization:  req.Specialization,
		Degree:          req.Degree,
		ExperienceYears: req.ExperienceYears,
		Rate:            req.Rate,
		Bio:             req.Bio,
		Approved:        false,
	}
	if err := h.db.Create(&profile).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Get returns one approved professional with their reviews.
func (h *ProfessionalController) Get(c *fiber.Ctx) error {
	var professional models.Professional
	if err := h.db.Preload("User").
		Where("approved = ?", true).
		First(&professional, c.Params("id")).Error; err != nil {
		return utils.NewNotFoundError("Professional not found")
	}

	var avgRating float64
	h.db.Model(&models.Review{}).
		Where("professional_id = ?", professional.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	professional.User.Sanitize()
	return c.JSON(fiber.Map{
		"professional":   professional,
		"average_rating": avgRating,
	})
}
