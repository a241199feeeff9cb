package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-concierge/internal/calendar"
	"laundry-concierge/internal/model"
)

// Column names an order reschedule is allowed to touch.
const (
	FieldPickupDate   = "pickup_date"
	FieldDeliveryDate = "delivery_date"
)

const availabilityRowID = 1

// Store defines the interface for all database operations.
type Store interface {
	// FindOrderByPhone returns the first order matching the phone number,
	// or nil when none exists.
	FindOrderByPhone(ctx context.Context, phone string) (*model.Order, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	// ApplyReschedule writes the new date and order status in a single
	// atomic update. field must be FieldPickupDate or FieldDeliveryDate.
	ApplyReschedule(ctx context.Context, orderID, field, date string, status model.OrderStatus) error
	// GetFAQResponse returns the canned answer for an FAQ intent, or nil
	// when no document exists for it.
	GetFAQResponse(ctx context.Context, intentName string) (*model.FAQResponse, error)
	// AvailableDays returns the configured reschedule days as full weekday
	// names in source order. Missing configuration yields an empty slice.
	AvailableDays(ctx context.Context) ([]string, error)
	// LastTimeSlot returns the final configured time slot, or "" when the
	// calendar has no slots.
	LastTimeSlot(ctx context.Context) (string, error)
	SetAvailability(ctx context.Context, days, slots []string) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// FindOrderByPhone looks up an order by exact phone number match. Duplicate
// numbers resolve to the oldest order; this mirrors the documented
// first-match semantics rather than signalling an error.
func (s *gormStore) FindOrderByPhone(ctx context.Context, phone string) (*model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("created_at").
		Limit(1).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query order by phone: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (s *gormStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.OrderStatus == "" {
		order.OrderStatus = model.StatusPendingPickup
	}
	if !order.OrderStatus.Valid() {
		return fmt.Errorf("invalid order status %q", order.OrderStatus)
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// ApplyReschedule updates the date column and the order status together in
// one UPDATE, so a partial write (date changed, status stale) cannot occur.
func (s *gormStore) ApplyReschedule(ctx context.Context, orderID, field, date string, status model.OrderStatus) error {
	if field != FieldPickupDate && field != FieldDeliveryDate {
		return fmt.Errorf("invalid reschedule field %q", field)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}

	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			field:          date,
			"order_status": string(status),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (s *gormStore) GetFAQResponse(ctx context.Context, intentName string) (*model.FAQResponse, error) {
	var faq model.FAQResponse
	err := s.db.WithContext(ctx).First(&faq, "intent_name = ?", intentName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query faq response: %w", err)
	}
	return &faq, nil
}

func (s *gormStore) getAvailability(ctx context.Context) (*model.AvailabilityConfig, error) {
	var cfg model.AvailabilityConfig
	err := s.db.WithContext(ctx).First(&cfg, "id = ?", availabilityRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query availability config: %w", err)
	}
	return &cfg, nil
}

// AvailableDays expands the stored day abbreviations to full names,
// preserving source order.
func (s *gormStore) AvailableDays(ctx context.Context) ([]string, error) {
	cfg, err := s.getAvailability(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}

	abbrs := cfg.DayList()
	days := make([]string, 0, len(abbrs))
	for _, abbr := range abbrs {
		days = append(days, calendar.FullDayName(abbr))
	}
	return days, nil
}

func (s *gormStore) LastTimeSlot(ctx context.Context) (string, error) {
	cfg, err := s.getAvailability(ctx)
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return "", nil
	}

	slots := cfg.SlotList()
	if len(slots) == 0 {
		return "", nil
	}
	return slots[len(slots)-1], nil
}

func (s *gormStore) SetAvailability(ctx context.Context, days, slots []string) error {
	cfg := model.AvailabilityConfig{
		ID:        availabilityRowID,
		Days:      strings.Join(days, ","),
		TimeSlots: strings.Join(slots, ","),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"days", "time_slots", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return fmt.Errorf("failed to upsert availability config: %w", err)
	}
	return nil
}
