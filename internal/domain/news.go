package domain

import "time"

// News is the single announcement shown to riders.
type News struct {
	Text      string    `json:"text" db:"body"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
