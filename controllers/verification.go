package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/services/otp"
	"github.com/Navneet1206/appoint-healers/utils"
)

type VerificationController struct {
	db         *gorm.DB
	otps       *otp.Service
	dispatcher *notification.Dispatcher
}

func NewVerificationController(db *gorm.DB, otps *otp.Service, dispatcher *notification.Dispatcher) *VerificationController {
	return &VerificationController{db: db, otps: otps, dispatcher: dispatcher}
}

type verifyRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *VerificationController) VerifyEmail(c *fiber.Ctx) error {
	return h.verify(c, models.ChannelEmail)
}

func (h *VerificationController) VerifyPhone(c *fiber.Ctx) error {
	return h.verify(c, models.ChannelPhone)
}

func (h *VerificationController) verify(c *fiber.Ctx, channel models.OTPChannel) error {
	req := new(verifyRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	if err := h.otps.Verify(user, channel, req.Code); err != nil {
		return err
	}

	if err := h.db.Save(user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": string(channel) + " verified successfully",
		"user": fiber.Map{
			"id":             user.ID,
			"email_verified": user.EmailVerified,
			"phone_verified": user.PhoneVerified,
		},
	})
}

func (h *VerificationController) ResendEmailOTP(c *fiber.Ctx) error {
	return h.resend(c, models.ChannelEmail)
}

func (h *VerificationController) ResendPhoneOTP(c *fiber.Ctx) error {
	return h.resend(c, models.ChannelPhone)
}

func (h *VerificationController) resend(c *fiber.Ctx, channel models.OTPChannel) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	code, err := h.otps.Resend(user, channel)
	if err != nil {
		return err
	}

	if err := h.db.Save(user).Error; err != nil {
		return err
	}

	log.Printf("Reissued %s OTP %s for %s", channel, code, user.Email)
	switch channel {
	case models.ChannelEmail:
		h.dispatcher.EnqueueEmail(user.Email, "Verify your email", verificationEmailBody(user.FullName(), code))
	case models.ChannelPhone:
		h.dispatcher.EnqueueSMS(user.Phone, "Your Appoint Healers verification code is "+code)
	}

	return c.JSON(fiber.Map{
		"message": "A new verification code has been sent",
	})
}

func (h *VerificationController) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, utils.NewUnauthorizedError("User ID not found in context")
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return &user, nil
}
