package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-concierge/config"
	"laundry-concierge/internal/audit"
	"laundry-concierge/internal/model"
	"laundry-concierge/internal/nlu"
	"laundry-concierge/internal/reschedule"
	"laundry-concierge/internal/store"
)

type stubStore struct {
	store.Store
	faq           *model.FAQResponse
	days          []string
	daysCalls     int
	lastSlot      string
	appliedOrders []string
	appliedField  string
	appliedDate   string
	appliedStatus model.OrderStatus
}

func (s *stubStore) GetFAQResponse(ctx context.Context, intentName string) (*model.FAQResponse, error) {
	if s.faq != nil && s.faq.IntentName == intentName {
		return s.faq, nil
	}
	return nil, nil
}

func (s *stubStore) AvailableDays(ctx context.Context) ([]string, error) {
	s.daysCalls++
	return s.days, nil
}

func (s *stubStore) LastTimeSlot(ctx context.Context) (string, error) {
	return s.lastSlot, nil
}

func (s *stubStore) ApplyReschedule(ctx context.Context, orderID, field, date string, status model.OrderStatus) error {
	s.appliedOrders = append(s.appliedOrders, orderID)
	s.appliedField = field
	s.appliedDate = date
	s.appliedStatus = status
	return nil
}

type mockPager struct {
	calls    int
	lastBody string
	err      error
}

func (p *mockPager) Page(ctx context.Context, message string) error {
	p.calls++
	p.lastBody = message
	return p.err
}

type recordingPublisher struct {
	events []audit.Event
}

func (p *recordingPublisher) Publish(e audit.Event) { p.events = append(p.events, e) }

func (p *recordingPublisher) Close() error { return nil }

var testBusiness = config.BusinessConfig{
	Timezone:     "UTC",
	OrderingURL:  "https://914washandfold.com",
	AgentDeskURL: "https://flex.example.com/agent-desktop/",
}

func newTestDispatcher(s *stubStore, pager *mockPager, pub *recordingPublisher) *Dispatcher {
	engine := reschedule.NewEngine(s, pub, time.UTC)
	return NewDispatcher(s, engine, pager, pub, testBusiness)
}

func TestHandle_FAQFound(t *testing.T) {
	s := &stubStore{faq: &model.FAQResponse{
		IntentName: "PricingInfoFAQ",
		Response:   "Wash and fold is $1.50 per pound.",
	}}
	d := newTestDispatcher(s, &mockPager{}, &recordingPublisher{})

	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: "PricingInfoFAQ"}, nil, "+15550001", "how much?")
	require.NoError(t, err)
	assert.Equal(t, "Wash and fold is $1.50 per pound.", reply)
}

func TestHandle_FAQMissingFallsBack(t *testing.T) {
	s := &stubStore{}
	d := newTestDispatcher(s, &mockPager{}, &recordingPublisher{})

	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: "HoursFAQ"}, nil, "+15550001", "when are you open?")
	require.NoError(t, err)
	assert.Equal(t, MsgFAQNotFound, reply)
}

func TestHandle_EscalationWithOrder(t *testing.T) {
	pager := &mockPager{}
	pub := &recordingPublisher{}
	d := newTestDispatcher(&stubStore{}, pager, pub)

	order := &model.Order{ID: "ord-1", PhoneNumber: "+15550001", CustomerName: "Dana"}
	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: IntentHelp}, order, "+15550001", "I need help")
	require.NoError(t, err)

	assert.Equal(t, "Hello Dana, a Live agent will reach back to you soon 😊", reply)
	assert.Equal(t, 1, pager.calls)
	assert.Contains(t, pager.lastBody, "+15550001")
	assert.Contains(t, pager.lastBody, "Dana")
	assert.Contains(t, pager.lastBody, "I need help")
	assert.Contains(t, pager.lastBody, testBusiness.AgentDeskURL)

	require.Len(t, pub.events, 1)
	assert.Equal(t, audit.EventAgentPaged, pub.events[0].Type)
}

func TestHandle_EscalationAckSurvivesPagingFailure(t *testing.T) {
	pager := &mockPager{err: errors.New("twilio unreachable")}
	pub := &recordingPublisher{}
	d := newTestDispatcher(&stubStore{}, pager, pub)

	order := &model.Order{ID: "ord-1", PhoneNumber: "+15550001", CustomerName: "Dana"}
	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: IntentHelp}, order, "+15550001", "help!")
	require.NoError(t, err)

	// The customer still gets the acknowledgment; the failure is recorded
	// on the audit stream instead.
	assert.Equal(t, "Hello Dana, a Live agent will reach back to you soon 😊", reply)
	require.Len(t, pub.events, 1)
	assert.Equal(t, audit.EventPagingFailed, pub.events[0].Type)
	assert.Contains(t, pub.events[0].Detail, "twilio unreachable")
}

func TestHandle_EscalationWithoutOrder(t *testing.T) {
	pager := &mockPager{}
	d := newTestDispatcher(&stubStore{}, pager, &recordingPublisher{})

	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: IntentHelp}, nil, "+15550002", "hello?")
	require.NoError(t, err)

	assert.Equal(t, "Hello, a Live agent will reach back to you soon 😊", reply)
	assert.Contains(t, pager.lastBody, "+15550002")
}

func TestHandle_NoOrderShortCircuitsReschedule(t *testing.T) {
	s := &stubStore{days: []string{"Monday"}}
	d := newTestDispatcher(s, &mockPager{}, &recordingPublisher{})

	reply, err := d.Handle(context.Background(), &nlu.Result{Intent: IntentReschedule}, nil, "+15550003", "reschedule to monday")
	require.NoError(t, err)

	assert.Equal(t, "It looks like you don't have an active order. Please place an order at https://914washandfold.com", reply)
	// The reschedule engine must never run without an order.
	assert.Zero(t, s.daysCalls)
	assert.Empty(t, s.appliedOrders)
}

func TestHandle_RescheduleFlow(t *testing.T) {
	s := &stubStore{days: []string{"Monday", "Thursday"}}
	d := newTestDispatcher(s, &mockPager{}, &recordingPublisher{})

	order := &model.Order{ID: "ord-2", OrderStatus: model.StatusPendingPickup}
	result := &nlu.Result{
		Intent:     IntentReschedule,
		Parameters: map[string]any{"date": "2030-06-17T12:00:00Z"},
	}

	reply, err := d.Handle(context.Background(), result, order, "+15550004", "monday please")
	require.NoError(t, err)

	assert.Equal(t, 1, s.daysCalls)
	assert.Contains(t, reply, "rescheduling pickup date has been set")
	assert.Equal(t, []string{"ord-2"}, s.appliedOrders)
}

func TestHandle_RescheduleWithUnparseableDatePrompts(t *testing.T) {
	s := &stubStore{days: []string{"Tuesday", "Friday"}}
	d := newTestDispatcher(s, &mockPager{}, &recordingPublisher{})

	order := &model.Order{ID: "ord-3", OrderStatus: model.StatusReadyForDelivery}
	result := &nlu.Result{
		Intent:     IntentReschedule,
		Parameters: map[string]any{"date": "not a date"},
	}

	reply, err := d.Handle(context.Background(), result, order, "+15550005", "change my delivery")
	require.NoError(t, err)

	assert.Contains(t, reply, "Please provide a date for rescheduling")
	assert.Contains(t, reply, "Tuesday\nFriday")
	assert.Empty(t, s.appliedOrders)
}

func TestHandle_PassthroughFulfillmentText(t *testing.T) {
	d := newTestDispatcher(&stubStore{}, &mockPager{}, &recordingPublisher{})

	order := &model.Order{ID: "ord-4", OrderStatus: model.StatusProcessing}
	result := &nlu.Result{Intent: "SmallTalk", FulfillmentText: "Happy to chat!"}

	reply, err := d.Handle(context.Background(), result, order, "+15550006", "hi there")
	require.NoError(t, err)
	assert.Equal(t, "Happy to chat!", reply)
}
