package feedback

import "time"

// Feedback is a free-form message from a (possibly anonymous) user.
type Feedback struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	Email     string    `gorm:"not null;default:''" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}
