package study

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the in-memory Store used by tests. It applies the same
// ownership scoping and ordering rules as the Postgres store.
type MemoryStore struct {
	mu       sync.Mutex
	subjects map[uint64]Subject
	cards    map[uint64]Card
	nextID   uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects: map[uint64]Subject{},
		cards:    map[uint64]Card{},
		nextID:   1,
	}
}

func (s *MemoryStore) id() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) ListSubjects(_ context.Context, userID uint64) ([]Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Subject{}
	for _, sub := range s.subjects {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetSubject(_ context.Context, id, userID uint64) (Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subjects[id]
	if !ok {
		return Subject{}, ErrNotFound
	}
	if sub.UserID != userID {
		return Subject{}, ErrForbidden
	}
	return sub, nil
}

func (s *MemoryStore) CreateSubject(_ context.Context, sub *Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = s.id()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	s.subjects[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) UpdateSubject(_ context.Context, sub *Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.subjects[sub.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.UserID != sub.UserID {
		return ErrForbidden
	}
	cur.Name = sub.Name
	cur.Description = sub.Description
	cur.Color = sub.Color
	s.subjects[sub.ID] = cur
	return nil
}

func (s *MemoryStore) DeleteSubject(_ context.Context, id, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subjects[id]
	if !ok {
		return ErrNotFound
	}
	if sub.UserID != userID {
		return ErrForbidden
	}
	delete(s.subjects, id)
	for cid, c := range s.cards {
		if c.SubjectID == id && c.UserID == userID {
			delete(s.cards, cid)
		}
	}
	return nil
}

func (s *MemoryStore) CountSubjects(_ context.Context, userID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, sub := range s.subjects {
		if sub.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListCards(_ context.Context, q CardQuery) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(q.Search)

	out := []Card{}
	for _, c := range s.cards {
		if c.UserID != q.UserID {
			continue
		}
		if q.SubjectID != nil && c.SubjectID != *q.SubjectID {
			continue
		}
		if q.Box != nil && c.BoxNumber != *q.Box {
			continue
		}
		if q.DueBefore != nil && c.NextReview != nil && c.NextReview.After(*q.DueBefore) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Front), search) &&
			!strings.Contains(strings.ToLower(c.Back), search) {
			continue
		}
		out = append(out, c)
	}

	switch q.Order {
	case OrderByDuePriority:
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.BoxNumber != b.BoxNumber {
				return a.BoxNumber < b.BoxNumber
			}
			// nulls first
			if (a.LastReviewed == nil) != (b.LastReviewed == nil) {
				return a.LastReviewed == nil
			}
			if a.LastReviewed != nil && !a.LastReviewed.Equal(*b.LastReviewed) {
				return a.LastReviewed.Before(*b.LastReviewed)
			}
			return a.ID < b.ID
		})
	case OrderByCreatedDesc:
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out, nil
}

func (s *MemoryStore) GetCard(_ context.Context, id, userID uint64) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return Card{}, ErrNotFound
	}
	if c.UserID != userID {
		return Card{}, ErrForbidden
	}
	return c, nil
}

func (s *MemoryStore) CreateCard(_ context.Context, c *Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.cards[c.ID] = *c
	return nil
}

func (s *MemoryStore) UpdateCard(_ context.Context, c *Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.cards[c.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.UserID != c.UserID {
		return ErrForbidden
	}
	cur.Front = c.Front
	cur.Back = c.Back
	cur.BoxNumber = c.BoxNumber
	cur.LastReviewed = c.LastReviewed
	cur.NextReview = c.NextReview
	s.cards[c.ID] = cur
	return nil
}

func (s *MemoryStore) DeleteCard(_ context.Context, id, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return ErrNotFound
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	delete(s.cards, id)
	return nil
}

func (s *MemoryStore) CountCards(_ context.Context, userID, subjectID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, c := range s.cards {
		if c.UserID == userID && c.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) DeleteAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.cards {
		if c.UserID == userID {
			delete(s.cards, id)
		}
	}
	for id, sub := range s.subjects {
		if sub.UserID == userID {
			delete(s.subjects, id)
		}
	}
	return nil
}
