package study

import (
	"context"
	"time"
)

// CardOrder selects the sort applied to a card query.
type CardOrder int

const (
	// OrderByID keeps study sessions stable across refetches.
	OrderByID CardOrder = iota
	// OrderByDuePriority sorts box asc then last_reviewed asc (nulls
	// first), so struggling cards come up before mastered ones.
	OrderByDuePriority
	// OrderByCreatedDesc is used for search results.
	OrderByCreatedDesc
)

// CardQuery is a typed query specification: a struct of optional filters
// plus a sort key, passed to a single ListCards call. All queries are
// scoped to UserID; the scoping is not optional.
type CardQuery struct {
	UserID    uint64
	SubjectID *uint64
	Box       *int
	DueBefore *time.Time
	Search    string // case-insensitive substring over front OR back
	Order     CardOrder
}

// Store is the persistence boundary for subjects and cards. Two
// implementations exist: gormStore against Postgres and MemoryStore for
// tests. The choice is made by wiring in main, never inside business
// logic.
type Store interface {
	ListSubjects(ctx context.Context, userID uint64) ([]Subject, error)
	GetSubject(ctx context.Context, id, userID uint64) (Subject, error)
	CreateSubject(ctx context.Context, s *Subject) error
	UpdateSubject(ctx context.Context, s *Subject) error
	// DeleteSubject removes the subject and every card in it.
	DeleteSubject(ctx context.Context, id, userID uint64) error
	CountSubjects(ctx context.Context, userID uint64) (int64, error)

	ListCards(ctx context.Context, q CardQuery) ([]Card, error)
	GetCard(ctx context.Context, id, userID uint64) (Card, error)
	CreateCard(ctx context.Context, c *Card) error
	UpdateCard(ctx context.Context, c *Card) error
	DeleteCard(ctx context.Context, id, userID uint64) error
	CountCards(ctx context.Context, userID, subjectID uint64) (int64, error)

	// DeleteAllForUser wipes every card and subject owned by userID.
	// Used by account deletion.
	DeleteAllForUser(ctx context.Context, userID uint64) error
}
