package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/utils"
)

type ContactController struct {
	dispatcher *notification.Dispatcher
	adminEmail string
}

func NewContactController(dispatcher *notification.Dispatcher, adminEmail string) *ContactController {
	return &ContactController{dispatcher: dispatcher, adminEmail: adminEmail}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Submit forwards a contact-form message to the site admin through the
// outbox.
func (h *ContactController) Submit(c *fiber.Ctx) error {
	req := new(contactRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if h.adminEmail == "" {
		return utils.NewValidationError("Contact form is not configured")
	}

	body := `
		<p><strong>From:</strong> ` + req.Name + ` (` + req.Email + `)</p>
		<p>` + req.Message + `</p>
	`
	h.dispatcher.EnqueueEmail(h.adminEmail, "Contact form message from "+req.Name, body)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Thanks for reaching out. We will get back to you soon.",
	})
}
