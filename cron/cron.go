package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/services/notification"
)

// Jobs owns the background schedules: appointment reminders, the outbox
// sweep, and stale OTP cleanup.
type Jobs struct {
	db         *gorm.DB
	dispatcher *notification.Dispatcher
	scheduler  *cron.Cron
}

func NewJobs(db *gorm.DB, dispatcher *notification.Dispatcher) *Jobs {
	return &Jobs{db: db, dispatcher: dispatcher, scheduler: cron.New()}
}

// Start registers and launches the schedules.
func (j *Jobs) Start() error {
	if _, err := j.scheduler.AddFunc("* * * * *", j.sendAppointmentReminders); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}
	if _, err := j.scheduler.AddFunc("*/5 * * * *", j.dispatcher.Sweep); err != nil {
		return fmt.Errorf("add outbox sweep job: %w", err)
	}
	if _, err := j.scheduler.AddFunc("0 * * * *", j.clearExpiredOTPs); err != nil {
		return fmt.Errorf("add otp cleanup job: %w", err)
	}

	j.scheduler.Start()
	log.Println("Cron job scheduler started")
	return nil
}

func (j *Jobs) Stop() {
	j.scheduler.Stop()
}

// reminderWindow returns the half-open interval [start, end) of appointment
// start times the tick at now is responsible for: the single minute beginning
// 59 minutes ahead. Anchoring to the minute boundary makes consecutive ticks
// tile without overlap, so each appointment is reminded exactly once.
func reminderWindow(now time.Time) (time.Time, time.Time) {
	start := now.Truncate(time.Minute).Add(59 * time.Minute)
	return start, start.Add(time.Minute)
}

// sendAppointmentReminders emails patrons whose confirmed appointment starts
// in one hour.
func (j *Jobs) sendAppointmentReminders() {
	var appointments []models.Appointment
	startWindow, endWindow := reminderWindow(time.Now())

	err := j.db.Preload("Patron").Preload("Professional.User").
		Where("status = ? AND start_time >= ? AND start_time < ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		j.dispatcher.EnqueueEmail(
			appointment.Patron.Email,
			"Reminder: Upcoming Appointment",
			reminderEmailBody(&appointment),
		)
		log.Printf("Queued reminder for appointment %d to %s", appointment.ID, appointment.Patron.Email)
	}
}

// clearExpiredOTPs blanks codes whose expiry has passed so stale state never
// lingers on unverified accounts.
func (j *Jobs) clearExpiredOTPs() {
	now := time.Now()

	err := j.db.Model(&models.User{}).
		Where("email_otp <> '' AND email_otp_expires_at < ?", now).
		Updates(map[string]interface{}{"email_otp": "", "email_otp_expires_at": time.Time{}}).Error
	if err != nil {
		log.Printf("Error clearing expired email OTPs: %v", err)
	}

	err = j.db.Model(&models.User{}).
		Where("phone_otp <> '' AND phone_otp_expires_at < ?", now).
		Updates(map[string]interface{}{"phone_otp": "", "phone_otp_expires_at": time.Time{}}).Error
	if err != nil {
		log.Printf("Error clearing expired phone OTPs: %v", err)
	}
}

func reminderEmailBody(appointment *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming session scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Professional:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>Please join on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Appoint Healers Team</p>
	`, appointment.Patron.FullName(), appointment.Professional.User.FullName(),
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"))
}
