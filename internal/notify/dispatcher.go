package notify

import (
	"encoding/json"
	"fmt"

	"github.com/travelstay/bookings/pkg/config"
	"github.com/travelstay/bookings/pkg/events"
	"github.com/travelstay/bookings/pkg/logger"
)

// Dispatcher consumes booking events and sends guest emails. Delivery
// is fire-and-forget relative to the request that produced the event:
// failures are logged and never reach the booking's error path.
type Dispatcher struct {
	bus    events.Subscriber
	mailer Mailer
}

// NewDispatcher takes its mail settings as an explicit config struct;
// nothing is read from the environment at send time.
func NewDispatcher(cfg config.EmailConfig, bus events.Subscriber) *Dispatcher {
	return &Dispatcher{
		bus:    bus,
		mailer: NewMailer(cfg),
	}
}

// Start registers the queue subscriptions. Consumers in the "notify"
// queue group share the work; at-least-once delivery means a message
// may be handled twice.
func (d *Dispatcher) Start() error {
	if err := d.bus.QueueSubscribe(events.BookingCreated, "notify", d.handleBookingCreated); err != nil {
		return err
	}
	return d.bus.QueueSubscribe(events.BookingCancelled, "notify", d.handleBookingCancelled)
}

func (d *Dispatcher) handleBookingCreated(msg *events.Message) {
	var event events.BookingCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode booking created event", "error", err)
		return
	}
	if event.GuestEmail == "" {
		logger.Warn("Booking created event without guest email", "booking_id", event.BookingID)
		return
	}

	subject := "Booking Confirmation - TravelStay"
	text := fmt.Sprintf("Your booking #%d has been confirmed. Thank you!", event.BookingID)
	html := fmt.Sprintf("<p>Your booking <b>#%d</b> for %s (%s to %s) has been confirmed. Thank you!</p>",
		event.BookingID, event.ListingTitle, event.CheckIn, event.CheckOut)

	if _, err := d.mailer.Send(event.GuestEmail, "", subject, text, html); err != nil {
		logger.Error("Failed to send booking confirmation email",
			"error", err, "booking_id", event.BookingID)
		return
	}
	logger.Info("Sent booking confirmation email", "booking_id", event.BookingID)
}

func (d *Dispatcher) handleBookingCancelled(msg *events.Message) {
	var event events.BookingCancelledEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode booking cancelled event", "error", err)
		return
	}
	if event.GuestEmail == "" {
		return
	}

	subject := "Booking Cancelled - TravelStay"
	text := fmt.Sprintf("Your booking #%d has been cancelled.", event.BookingID)

	if _, err := d.mailer.Send(event.GuestEmail, "", subject, text, ""); err != nil {
		logger.Error("Failed to send booking cancellation email",
			"error", err, "booking_id", event.BookingID)
	}
}
