package model

import "time"

// FAQResponse holds the canned answer for one FAQ intent.
// Response may carry placeholders like {price_per_pound}; substitution is an
// inactive extension point and the text is returned verbatim.
type FAQResponse struct {
	IntentName string    `gorm:"primaryKey;size:128" json:"intent_name"`
	Response   string    `gorm:"not null" json:"response"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
