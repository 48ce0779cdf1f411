package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/clients/zoom"
	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/utils"
)

type AppointmentController struct {
	db         *gorm.DB
	zoom       *zoom.Client
	dispatcher *notification.Dispatcher
}

func NewAppointmentController(db *gorm.DB, zoomClient *zoom.Client, dispatcher *notification.Dispatcher) *AppointmentController {
	return &AppointmentController{db: db, zoom: zoomClient, dispatcher: dispatcher}
}

type bookRequest struct {
	ProfessionalID uint   `json:"professional_id" validate:"required"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
	Notes          string `json:"notes"`
}

// Book creates a pending appointment for the authenticated patron.
func (h *AppointmentController) Book(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(bookRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return utils.NewValidationError("start_time must be RFC3339")
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return utils.NewValidationError("end_time must be RFC3339")
	}
	if !endTime.After(startTime) {
		return utils.NewValidationError("end_time must be after start_time")
	}
	if startTime.Before(time.Now()) {
		return utils.NewValidationError("Cannot book an appointment in the past")
	}

	var professional models.Professional
	if err := h.db.Preload("User").First(&professional, req.ProfessionalID).Error; err != nil {
		return utils.NewNotFoundError("Professional not found")
	}
	if !professional.Approved {
		return utils.NewValidationError("This professional is not accepting bookings")
	}

	// Reject slots overlapping an active appointment for this professional
	var overlapping int64
	h.db.Model(&models.Appointment{}).
		Where("professional_id = ?", professional.ID).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Where("start_time < ? AND end_time > ?", endTime, startTime).
		Count(&overlapping)
	if overlapping > 0 {
		return utils.NewConflictError("The requested slot is no longer available")
	}

	appointment := models.Appointment{
		StartTime:      startTime,
		EndTime:        endTime,
		Notes:          req.Notes,
		ProfessionalID: professional.ID,
		PatronID:       userID,
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		return err
	}

	var patron models.User
	if err := h.db.First(&patron, userID).Error; err == nil {
		h.dispatcher.EnqueueEmail(professional.User.Email,
			"New appointment request",
			appointmentEmailBody(professional.User.FullName(), patron.FullName(), &appointment))
	}

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// List returns the caller's appointments, as patron or professional depending
// on their role.
func (h *AppointmentController) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	query := h.db.Preload("Professional.User").Preload("Patron")
	if role == models.RoleProfessional {
		var professional models.Professional
		if err := h.db.Where("user_id = ?", userID).First(&professional).Error; err != nil {
			return utils.NewNotFoundError("Professional profile not found")
		}
		query = query.Where("professional_id = ?", professional.ID)
	} else {
		query = query.Where("patron_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Order("start_time asc").Find(&appointments).Error; err != nil {
		return err
	}

	for i := range appointments {
		appointments[i].Sanitize()
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

type statusRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required"`
}

// UpdateStatus moves an appointment through its state machine. Confirmation
// creates the Zoom meeting; failures there are logged, not fatal.
func (h *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	req := new(statusRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var appointment models.Appointment
	if err := h.db.Preload("Professional.User").Preload("Patron").
		First(&appointment, c.Params("id")).Error; err != nil {
		return utils.NewNotFoundError("Appointment not found")
	}

	if !h.canManage(&appointment, userID, role, req.Status) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You cannot change this appointment",
		})
	}

	if err := appointment.CanTransitionTo(req.Status); err != nil {
		return utils.NewValidationError(err.Error())
	}

	if req.Status == models.StatusConfirmed {
		topic := "Session with " + appointment.Professional.User.FullName()
		duration := int(appointment.EndTime.Sub(appointment.StartTime).Minutes())
		meeting, err := h.zoom.CreateMeeting(topic, appointment.StartTime, duration)
		if err != nil {
			log.Printf("Failed to create Zoom meeting for appointment %d: %v", appointment.ID, err)
		} else {
			appointment.MeetingURL = meeting.JoinURL
		}
	}

	if err := appointment.UpdateStatus(h.db, req.Status); err != nil {
		return err
	}

	h.notifyStatusChange(&appointment)

	appointment.Sanitize()
	return c.JSON(appointment)
}

// PendingPayments lists the caller's confirmed appointments that still await
// payment.
func (h *AppointmentController) PendingPayments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var appointments []models.Appointment
	err := h.db.Preload("Professional.User").
		Where("patron_id = ?", userID).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Where("payment_status IN ?", []models.PaymentStatus{models.PaymentUnpaid, models.PaymentInitiated}).
		Order("start_time asc").
		Find(&appointments).Error
	if err != nil {
		return err
	}

	for i := range appointments {
		appointments[i].Sanitize()
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// canManage enforces who may apply which transition: the patron can cancel
// their own booking, the professional can confirm, cancel or complete theirs.
func (h *AppointmentController) canManage(a *models.Appointment, userID uint, role string, newStatus models.AppointmentStatus) bool {
	if role == models.RoleAdmin {
		return true
	}
	if a.PatronID == userID {
		return newStatus == models.StatusCancelled
	}
	if role == models.RoleProfessional && a.Professional.UserID == userID {
		return true
	}
	return false
}

func (h *AppointmentController) notifyStatusChange(a *models.Appointment) {
	subject := "Appointment " + string(a.Status)
	body := `
		<p>Dear ` + a.Patron.FullName() + `,</p>
		<p>Your appointment with ` + a.Professional.User.FullName() + ` on ` +
		a.StartTime.Format("2006-01-02 15:04") + ` is now <strong>` + string(a.Status) + `</strong>.</p>`
	if a.MeetingURL != "" {
		body += `<p>Join link: <a href="` + a.MeetingURL + `">` + a.MeetingURL + `</a></p>`
	}
	body += `<p>Best regards,</p><p>The Appoint Healers Team</p>`

	h.dispatcher.EnqueueEmail(a.Patron.Email, subject, body)
}

func appointmentEmailBody(professionalName, patronName string, a *models.Appointment) string {
	return `
		<p>Dear ` + professionalName + `,</p>
		<p>` + patronName + ` has requested an appointment.</p>
		<ul>
			<li><strong>Start:</strong> ` + a.StartTime.Format("2006-01-02 15:04") + `</li>
			<li><strong>End:</strong> ` + a.EndTime.Format("2006-01-02 15:04") + `</li>
		</ul>
		<p>Log in to confirm or decline.</p>
	`
}
