// Package dispatch routes a classified inbound message to the matching
// handler: FAQ lookup, agent escalation, reschedule flow, or passthrough of
// the classifier's own fulfillment text.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"laundry-concierge/config"
	"laundry-concierge/internal/audit"
	"laundry-concierge/internal/model"
	"laundry-concierge/internal/nlu"
	"laundry-concierge/internal/paging"
	"laundry-concierge/internal/reschedule"
	"laundry-concierge/internal/store"
)

// Intent names with dedicated handling.
const (
	IntentHelp       = "HelpIntent"
	IntentReschedule = "Reschedule"

	faqSuffix = "FAQ"
)

// MsgFAQNotFound is the fallback when no FAQ document exists for an intent.
const MsgFAQNotFound = "I'm sorry, I couldn't find information on that."

// Dispatcher routes classified intents to their handlers.
type Dispatcher struct {
	store    store.Store
	engine   *reschedule.Engine
	pager    paging.Pager
	audit    audit.Publisher
	business config.BusinessConfig
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(s store.Store, engine *reschedule.Engine, pager paging.Pager, pub audit.Publisher, business config.BusinessConfig) *Dispatcher {
	return &Dispatcher{
		store:    s,
		engine:   engine,
		pager:    pager,
		audit:    pub,
		business: business,
	}
}

// Handle produces the reply for one classified message. order is nil when
// the sender has no active order.
func (d *Dispatcher) Handle(ctx context.Context, result *nlu.Result, order *model.Order, from, message string) (string, error) {
	switch {
	case strings.HasSuffix(result.Intent, faqSuffix):
		return d.handleFAQ(ctx, result.Intent)
	case result.Intent == IntentHelp:
		return d.Escalate(ctx, order, from, message), nil
	case order == nil:
		log.Printf("dispatch: no order found for %s, intent %q", from, result.Intent)
		return d.noOrderReply(), nil
	case result.Intent == IntentReschedule:
		days, err := d.store.AvailableDays(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load available days: %w", err)
		}
		return d.engine.Decide(ctx, order, result.DateParameter(), days)
	default:
		return result.FulfillmentText, nil
	}
}

func (d *Dispatcher) handleFAQ(ctx context.Context, intentName string) (string, error) {
	faq, err := d.store.GetFAQResponse(ctx, intentName)
	if err != nil {
		return "", err
	}
	if faq == nil {
		log.Printf("dispatch: no FAQ response configured for intent %q", intentName)
		return MsgFAQNotFound, nil
	}
	return faq.Response, nil
}

// Escalate pages the on-call agent and returns the customer acknowledgment.
// A paging failure is logged and audited but never changes the reply; the
// customer is told an agent will reach back either way.
func (d *Dispatcher) Escalate(ctx context.Context, order *model.Order, from, message string) string {
	var body, reply string
	event := audit.Event{Type: audit.EventAgentPaged, PhoneNumber: from}

	if order != nil {
		body = fmt.Sprintf("Customer at %s needs assistance %s\nName: %s\nmessage = %s.",
			order.PhoneNumber, d.business.AgentDeskURL, order.CustomerName, message)
		reply = fmt.Sprintf("Hello %s, a Live agent will reach back to you soon 😊", order.CustomerName)
		event.OrderID = order.ID
	} else {
		body = fmt.Sprintf("Customer at %s needs assistance %s\n\nmessage = %s.",
			from, d.business.AgentDeskURL, message)
		reply = "Hello, a Live agent will reach back to you soon 😊"
	}

	if err := d.pager.Page(ctx, body); err != nil {
		log.Printf("dispatch: failed to page agent for %s: %v", from, err)
		event.Type = audit.EventPagingFailed
		event.Detail = err.Error()
	}
	d.audit.Publish(event)

	return reply
}

func (d *Dispatcher) noOrderReply() string {
	return fmt.Sprintf("It looks like you don't have an active order. Please place an order at %s", d.business.OrderingURL)
}
