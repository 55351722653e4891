package models

import "time"

// ResetTokenStatus is what a valid reset link reveals before redemption.
type ResetTokenStatus struct {
	Valid     bool      `json:"valid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}
