package model

import "github.com/google/uuid"

// HealthTip is a flat catalog entry.
type HealthTip struct {
	ID       uuid.UUID `json:"tip_id" db:"tip_id"`
	Category string    `json:"category" db:"category"`
	TipText  string    `json:"tip_text" db:"tip_text"`
}
