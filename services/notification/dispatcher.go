package notification

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/models"
)

const maxAttempts = 3

// EmailSender delivers a single email message.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// SMSSender delivers a single SMS message.
type SMSSender interface {
	SendSMS(to, body string) error
}

// Dispatcher is the notification outbox. Enqueue persists a row and feeds the
// worker; the worker sends with bounded retries and marks rows dead after the
// last failure. Enqueue never fails the request that triggered it.
type Dispatcher struct {
	db    *gorm.DB
	email EmailSender
	sms   SMSSender
	queue chan uint
	done  chan struct{}

	// mu guards closed; pushes and Stop contend, a cron job may still be
	// enqueueing while the server shuts down.
	mu     sync.Mutex
	closed bool
}

func NewDispatcher(db *gorm.DB, email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{
		db:    db,
		email: email,
		sms:   sms,
		queue: make(chan uint, 100),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.process()
	log.Println("Notification dispatcher started")
}

// Stop drains the queue channel and stops the worker. Safe to call once
// enqueues may still be racing in; late rows stay pending for the next
// start's sweep.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}

// EnqueueEmail records an email notification and hands it to the worker.
func (d *Dispatcher) EnqueueEmail(recipient, subject, body string) {
	d.enqueue(&models.Notification{
		Channel:   models.NotifyEmail,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
}

// EnqueueSMS records an SMS notification and hands it to the worker.
func (d *Dispatcher) EnqueueSMS(recipient, body string) {
	d.enqueue(&models.Notification{
		Channel:   models.NotifySMS,
		Recipient: recipient,
		Body:      body,
	})
}

func (d *Dispatcher) enqueue(n *models.Notification) {
	if err := d.db.Create(n).Error; err != nil {
		log.Printf("Failed to persist %s notification for %s: %v", n.Channel, n.Recipient, err)
		return
	}
	if !d.push(n.ID) {
		// Queue full or shutting down; the sweeper picks the row up later.
		log.Printf("Notification %d deferred to sweeper", n.ID)
	}
}

// push hands a persisted row to the worker. It reports false when the queue
// is full or the dispatcher has stopped; either way the row stays pending.
func (d *Dispatcher) push(id uint) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- id:
		return true
	default:
		return false
	}
}

// Sweep re-feeds due pending/failed rows. Called from cron so rows survive
// restarts and full queues.
func (d *Dispatcher) Sweep() {
	var rows []models.Notification
	err := d.db.
		Where("status IN ? AND next_attempt_at <= ?",
			[]models.NotificationStatus{models.NotifyPending, models.NotifyFailed}, time.Now()).
		Limit(100).
		Find(&rows).Error
	if err != nil {
		log.Printf("Notification sweep failed: %v", err)
		return
	}

	for _, row := range rows {
		if !d.push(row.ID) {
			return
		}
	}
}

func (d *Dispatcher) process() {
	defer close(d.done)
	for id := range d.queue {
		d.deliver(id)
	}
}

func (d *Dispatcher) deliver(id uint) {
	var n models.Notification
	if err := d.db.First(&n, id).Error; err != nil {
		log.Printf("Notification %d not found: %v", id, err)
		return
	}
	if n.Status == models.NotifySent || n.Status == models.NotifyDead {
		return
	}
	if time.Now().Before(n.NextAttemptAt) {
		return
	}

	var sendErr error
	switch n.Channel {
	case models.NotifyEmail:
		sendErr = d.email.SendEmail(n.Recipient, n.Subject, n.Body)
	case models.NotifySMS:
		sendErr = d.sms.SendSMS(n.Recipient, n.Body)
	}

	n.Attempts++
	if sendErr == nil {
		n.Status = models.NotifySent
		n.LastError = ""
	} else {
		n.LastError = sendErr.Error()
		if n.Attempts >= maxAttempts {
			n.Status = models.NotifyDead
			log.Printf("Notification %d to %s dead after %d attempts: %v", n.ID, n.Recipient, n.Attempts, sendErr)
		} else {
			n.Status = models.NotifyFailed
			// Doubling backoff: 1m, 2m.
			n.NextAttemptAt = time.Now().Add(time.Duration(1<<(n.Attempts-1)) * time.Minute)
			log.Printf("Notification %d to %s failed (attempt %d): %v", n.ID, n.Recipient, n.Attempts, sendErr)
		}
	}

	if err := d.db.Save(&n).Error; err != nil {
		log.Printf("Failed to update notification %d: %v", n.ID, err)
	}
}
