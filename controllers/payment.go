package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

// PaymentController implements payment initiation and completion bookkeeping.
// No settlement logic runs here; the ref is handed to an external gateway.
type PaymentController struct {
	db *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{db: db}
}

type initiateRequest struct {
	AppointmentID uint `json:"appointment_id" validate:"required"`
}

// Initiate assigns a payment reference to an unpaid appointment.
func (h *PaymentController) Initiate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(initiateRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var appointment models.Appointment
	if err := h.db.Preload("Professional").First(&appointment, req.AppointmentID).Error; err != nil {
		return utils.NewNotFoundError("Appointment not found")
	}
	if appointment.PatronID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only pay for your own appointments",
		})
	}
	if appointment.PaymentStatus == models.PaymentPaid {
		return utils.NewConflictError("This appointment is already paid")
	}

	appointment.PaymentStatus = models.PaymentInitiated
	appointment.PaymentRef = utils.GeneratePaymentRef()
	if err := h.db.Save(&appointment).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"payment_ref": appointment.PaymentRef,
		"amount":      appointment.Professional.Rate,
		"status":      appointment.PaymentStatus,
	})
}

// Complete marks an initiated payment as paid.
func (h *PaymentController) Complete(c *fiber.Ctx) error {
	ref := c.Params("ref")

	var appointment models.Appointment
	if err := h.db.Where("payment_ref = ?", ref).First(&appointment).Error; err != nil {
		return utils.NewNotFoundError("No payment found for this reference")
	}

	if appointment.PaymentStatus != models.PaymentInitiated {
		return utils.NewConflictError("Payment is not awaiting completion")
	}

	appointment.PaymentStatus = models.PaymentPaid
	if err := h.db.Save(&appointment).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"payment_ref": appointment.PaymentRef,
		"status":      appointment.PaymentStatus,
	})
}
