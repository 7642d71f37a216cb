package repository

import "time"

// User represents a users row.
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
