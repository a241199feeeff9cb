// Package reschedule implements the decision engine that validates a
// customer-requested pickup/delivery date against the business calendar and
// mutates order state when the request is accepted.
package reschedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"laundry-concierge/internal/audit"
	"laundry-concierge/internal/calendar"
	"laundry-concierge/internal/model"
	"laundry-concierge/internal/store"
)

// Type says which half of the order a reschedule applies to.
type Type string

const (
	TypePickup   Type = "pickup"
	TypeDelivery Type = "delivery"
)

// MsgCannotDetermine is the reply for orders whose status permits no
// reschedule at all.
const MsgCannotDetermine = "Sorry, I couldn't determine what you'd like to reschedule based on your current order status."

// MsgTooLateForToday is the reply when the same-day cutoff has passed.
const MsgTooLateForToday = "Sorry, it's too late to reschedule for today. Please select another date."

// TypeForStatus derives the reschedule type from an order status. The
// second return is false for statuses that cannot be rescheduled.
func TypeForStatus(status model.OrderStatus) (Type, bool) {
	switch status {
	case model.StatusReadyForDelivery, model.StatusMissedDelivery, model.StatusOutForDelivery:
		return TypeDelivery, true
	case model.StatusPendingPickup, model.StatusMissedPickup, model.StatusPickingUp:
		return TypePickup, true
	}
	return "", false
}

// Engine evaluates one reschedule request against the business rules and
// persists the mutation on acceptance.
type Engine struct {
	store store.Store
	audit audit.Publisher
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates a decision engine operating in the given business
// timezone.
func NewEngine(s store.Store, pub audit.Publisher, loc *time.Location) *Engine {
	return &Engine{
		store: s,
		audit: pub,
		loc:   loc,
		now:   time.Now,
	}
}

// Decide runs the validation chain in strict priority order and returns the
// customer-facing reply. desired is nil when the customer named no date.
// A returned error means persistence failed; no partial state is left
// behind and the caller surfaces a generic internal error.
func (e *Engine) Decide(ctx context.Context, order *model.Order, desired *time.Time, availableDays []string) (string, error) {
	typ, ok := TypeForStatus(order.OrderStatus)
	if !ok {
		log.Printf("reschedule: order %s status %q does not allow rescheduling", order.ID, order.OrderStatus)
		return MsgCannotDetermine, nil
	}

	dateList := strings.Join(availableDays, "\n")
	if desired == nil {
		return fmt.Sprintf("Please provide a date for rescheduling. Here are the available days: \n%s\nReply with your preferred %s day.", dateList, typ), nil
	}

	now := e.now().In(e.loc)
	readable := calendar.ReadableDate(*desired)

	if !calendar.IsTodayOrFuture(*desired, now) {
		return fmt.Sprintf("Sorry, the date %s is in the past. Please provide a future date for rescheduling.", readable), nil
	}

	allowed, err := e.sameDayAllows(ctx, *desired, now)
	if err != nil {
		return "", err
	}
	if !allowed {
		return MsgTooLateForToday, nil
	}

	if containsDay(availableDays, calendar.DayName(desired.Weekday())) {
		if err := e.apply(ctx, order, typ, *desired); err != nil {
			return "", err
		}
		return fmt.Sprintf("Your rescheduling %s date has been set for %s.", typ, readable), nil
	}

	return fmt.Sprintf("Sorry, we can't reschedule for %s. However, here are the available days: \n%s\nPlease reply with your preferred %s day.", readable, dateList, typ), nil
}

// sameDayAllows applies the same-day cutoff. The time-slot configuration is
// only fetched when the desired date actually is today.
func (e *Engine) sameDayAllows(ctx context.Context, desired, now time.Time) (bool, error) {
	if !calendar.SameCalendarDay(desired, now) {
		return true, nil
	}

	slot, err := e.store.LastTimeSlot(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load time slots: %w", err)
	}
	if slot == "" {
		// No slots configured, no cutoff to enforce.
		return true, nil
	}
	return calendar.SameDayCutoffAllows(desired, calendar.SlotStart(slot), now)
}

// apply persists the accepted reschedule: the matching date field and the
// canonical pending status for the type, written as one atomic update.
func (e *Engine) apply(ctx context.Context, order *model.Order, typ Type, desired time.Time) error {
	field := store.FieldPickupDate
	newStatus := model.StatusPendingPickup
	if typ == TypeDelivery {
		field = store.FieldDeliveryDate
		newStatus = model.StatusReadyForDelivery
	}

	date := calendar.FormatISODate(desired)
	if err := e.store.ApplyReschedule(ctx, order.ID, field, date, newStatus); err != nil {
		log.Printf("reschedule: failed to persist %s date %s for order %s: %v", typ, date, order.ID, err)
		return err
	}

	log.Printf("reschedule: order %s %s date set to %s", order.ID, typ, date)
	e.audit.Publish(audit.Event{
		Type:        audit.EventRescheduleApplied,
		OrderID:     order.ID,
		PhoneNumber: order.PhoneNumber,
		OldStatus:   string(order.OrderStatus),
		NewStatus:   string(newStatus),
		Detail:      date,
	})
	return nil
}

func containsDay(days []string, name string) bool {
	for _, d := range days {
		if d == name {
			return true
		}
	}
	return false
}
