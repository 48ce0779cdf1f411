package consumer

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

type ReviewController struct {
	db *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{db: db}
}

type createReviewRequest struct {
	Rating      float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment     string  `json:"comment"`
	IsAnonymous bool    `json:"is_anonymous"`
}

// Create adds a review for a professional. A review linked to a completed
// appointment between the pair is marked verified.
func (h *ReviewController) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	professionalID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.NewValidationError("Invalid professional id")
	}

	req := new(createReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var professional models.Professional
	if err := h.db.First(&professional, professionalID).Error; err != nil {
		return utils.NewNotFoundError("Professional not found")
	}

	review := models.Review{
		Rating:         req.Rating,
		Comment:        req.Comment,
		IsAnonymous:    req.IsAnonymous,
		ProfessionalID: professional.ID,
		PatronID:       userID,
	}

	exists, err := review.HasExistingReview(h.db)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewConflictError("You have already reviewed this professional")
	}

	var completed models.Appointment
	err = h.db.Where("patron_id = ? AND professional_id = ? AND status = ?",
		userID, professional.ID, models.StatusCompleted).
		First(&completed).Error
	if err == nil {
		review.IsVerified = true
		review.AppointmentID = &completed.ID
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// List returns a professional's reviews, hiding patron identity on anonymous
// ones.
func (h *ReviewController) List(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := h.db.Preload("Patron").
		Where("professional_id = ?", c.Params("id")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}

	for i := range reviews {
		if reviews[i].IsAnonymous {
			reviews[i].Patron = models.User{}
			reviews[i].PatronID = 0
		} else {
			reviews[i].Patron.Sanitize()
		}
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
