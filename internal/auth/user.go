package auth

import "time"

// User is the account record. Subjects, cards, the billing profile, and
// payments all hang off ID via user_id scoping rather than gorm
// associations, so account deletion stays an explicit transaction.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"not null;default:now()"`
}
