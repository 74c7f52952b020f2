package domain

import "time"

// User represents a registered user of the system.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
