package domain

import "time"

type ID int64

// User is a registered account. PasswordHash holds the bcrypt string and
// never leaves the service boundary.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
