package study

import "time"

// Subject is a user-defined deck of cards.
type Subject struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Color       string    `gorm:"not null;default:''" json:"color"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// Card is a single flashcard. Back is the prompt shown first, Front the
// answer revealed after. BoxNumber is the Leitner stage (1..5) and
// NextReview is always derived from it via the interval table.
type Card struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	UserID       uint64     `gorm:"index;not null" json:"user_id"`
	SubjectID    uint64     `gorm:"index;not null" json:"subject_id"`
	Front        string     `gorm:"type:text;not null" json:"front"`
	Back         string     `gorm:"type:text;not null" json:"back"`
	BoxNumber    int        `gorm:"not null;default:1" json:"box_number"`
	LastReviewed *time.Time `gorm:"type:timestamptz" json:"last_reviewed"`
	NextReview   *time.Time `gorm:"type:timestamptz;index" json:"next_review"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
}
