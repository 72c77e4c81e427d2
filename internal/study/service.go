package study

import (
	"context"
	"strings"
	"time"

	"memorygym/internal/quota"
)

// Service implements the card/subject operations on top of a Store,
// enforcing ownership scoping and plan quotas.
type Service struct {
	Store Store
	Quota *quota.Policy

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func NewService(store Store, policy *quota.Policy) *Service {
	return &Service{Store: store, Quota: policy, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ListSubjects(ctx context.Context, userID uint64) ([]Subject, error) {
	return s.Store.ListSubjects(ctx, userID)
}

func (s *Service) CountSubjects(ctx context.Context, userID uint64) (int64, error) {
	return s.Store.CountSubjects(ctx, userID)
}

type CreateSubjectInput struct {
	Name        string
	Description string
	Color       string
}

func (s *Service) CreateSubject(ctx context.Context, userID uint64, in CreateSubjectInput) (Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Subject{}, &ValidationError{Field: "name", Reason: "required"}
	}

	dec, err := s.Quota.CanAddSubject(ctx, userID)
	if err != nil {
		return Subject{}, err
	}
	if !dec.Allowed {
		return Subject{}, &QuotaError{Resource: "subjects", Limit: dec.Limit, Count: dec.Count}
	}

	sub := Subject{
		UserID:      userID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Color:       in.Color,
		CreatedAt:   s.now(),
	}
	if err := s.Store.CreateSubject(ctx, &sub); err != nil {
		return Subject{}, err
	}
	return sub, nil
}

type UpdateSubjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

func (s *Service) UpdateSubject(ctx context.Context, userID, id uint64, in UpdateSubjectInput) (Subject, error) {
	sub, err := s.Store.GetSubject(ctx, id, userID)
	if err != nil {
		return Subject{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Subject{}, &ValidationError{Field: "name", Reason: "required"}
		}
		sub.Name = name
	}
	if in.Description != nil {
		sub.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil {
		sub.Color = *in.Color
	}

	if err := s.Store.UpdateSubject(ctx, &sub); err != nil {
		return Subject{}, err
	}
	return sub, nil
}

// DeleteSubject removes the subject and cascades to its cards.
func (s *Service) DeleteSubject(ctx context.Context, userID, id uint64) error {
	return s.Store.DeleteSubject(ctx, id, userID)
}

// ListCards returns all of the caller's cards, box regardless, ordered
// by id. This is what a subject-management view shows.
func (s *Service) ListCards(ctx context.Context, userID uint64, subjectID *uint64) ([]Card, error) {
	return s.Store.ListCards(ctx, CardQuery{
		UserID:    userID,
		SubjectID: subjectID,
		Order:     OrderByID,
	})
}

// ListCardsByBox returns the caller's cards in the given box, ordered by
// id so a study session sees a stable sequence.
func (s *Service) ListCardsByBox(ctx context.Context, userID uint64, box int, subjectID *uint64) ([]Card, error) {
	if box < MinBox || box > MaxBox {
		return nil, &ValidationError{Field: "box", Reason: "must be 1..5"}
	}
	return s.Store.ListCards(ctx, CardQuery{
		UserID:    userID,
		SubjectID: subjectID,
		Box:       &box,
		Order:     OrderByID,
	})
}

// ListCardsDueToday returns cards whose next review has passed (or was
// never set), lowest box first, least-recently-reviewed first.
func (s *Service) ListCardsDueToday(ctx context.Context, userID uint64, subjectID *uint64) ([]Card, error) {
	now := s.now()
	return s.Store.ListCards(ctx, CardQuery{
		UserID:    userID,
		SubjectID: subjectID,
		DueBefore: &now,
		Order:     OrderByDuePriority,
	})
}

// SearchCards matches the query case-insensitively against front or back.
// An empty query returns an empty result, not all rows.
func (s *Service) SearchCards(ctx context.Context, userID uint64, query string, subjectID *uint64) ([]Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Card{}, nil
	}
	return s.Store.ListCards(ctx, CardQuery{
		UserID:    userID,
		SubjectID: subjectID,
		Search:    query,
		Order:     OrderByCreatedDesc,
	})
}

func (s *Service) CountCards(ctx context.Context, userID, subjectID uint64) (int64, error) {
	if _, err := s.Store.GetSubject(ctx, subjectID, userID); err != nil {
		return 0, err
	}
	return s.Store.CountCards(ctx, userID, subjectID)
}

type CreateCardInput struct {
	Front     string
	Back      string
	SubjectID uint64
}

func (s *Service) CreateCard(ctx context.Context, userID uint64, in CreateCardInput) (Card, error) {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if in.Front == "" {
		return Card{}, &ValidationError{Field: "front", Reason: "required"}
	}
	if in.Back == "" {
		return Card{}, &ValidationError{Field: "back", Reason: "required"}
	}

	// The target subject must exist and belong to the caller.
	if _, err := s.Store.GetSubject(ctx, in.SubjectID, userID); err != nil {
		return Card{}, err
	}

	dec, err := s.Quota.CanAddCard(ctx, userID, in.SubjectID)
	if err != nil {
		return Card{}, err
	}
	if !dec.Allowed {
		return Card{}, &QuotaError{Resource: "cards", Limit: dec.Limit, Count: dec.Count}
	}

	now := s.now()
	c := Card{
		UserID:       userID,
		SubjectID:    in.SubjectID,
		Front:        in.Front,
		Back:         in.Back,
		BoxNumber:    MinBox,
		LastReviewed: &now,
		NextReview:   &now,
		CreatedAt:    now,
	}
	if err := s.Store.CreateCard(ctx, &c); err != nil {
		return Card{}, err
	}
	return c, nil
}

type UpdateCardInput struct {
	Front *string
	Back  *string
}

// UpdateCard edits card content only; box and schedule fields are never
// touched here.
func (s *Service) UpdateCard(ctx context.Context, userID, id uint64, in UpdateCardInput) (Card, error) {
	c, err := s.Store.GetCard(ctx, id, userID)
	if err != nil {
		return Card{}, err
	}

	if in.Front != nil {
		front := strings.TrimSpace(*in.Front)
		if front == "" {
			return Card{}, &ValidationError{Field: "front", Reason: "required"}
		}
		c.Front = front
	}
	if in.Back != nil {
		back := strings.TrimSpace(*in.Back)
		if back == "" {
			return Card{}, &ValidationError{Field: "back", Reason: "required"}
		}
		c.Back = back
	}

	if err := s.Store.UpdateCard(ctx, &c); err != nil {
		return Card{}, err
	}
	return c, nil
}

// ReviewCard applies the Leitner transition for one review outcome and
// persists the new box and schedule.
func (s *Service) ReviewCard(ctx context.Context, userID, id uint64, correct bool) (Card, error) {
	c, err := s.Store.GetCard(ctx, id, userID)
	if err != nil {
		return Card{}, err
	}

	now := s.now()
	c.BoxNumber = NextBox(c.BoxNumber, correct)
	next := NextReviewAt(c.BoxNumber, now)
	c.LastReviewed = &now
	c.NextReview = &next

	if err := s.Store.UpdateCard(ctx, &c); err != nil {
		return Card{}, err
	}
	return c, nil
}

// MoveCard is the administrative box override: it re-derives the schedule
// from the target box without recording a review.
func (s *Service) MoveCard(ctx context.Context, userID, id uint64, box int) (Card, error) {
	if box < MinBox || box > MaxBox {
		return Card{}, &ValidationError{Field: "box", Reason: "must be 1..5"}
	}

	c, err := s.Store.GetCard(ctx, id, userID)
	if err != nil {
		return Card{}, err
	}

	next := NextReviewAt(box, s.now())
	c.BoxNumber = box
	c.NextReview = &next

	if err := s.Store.UpdateCard(ctx, &c); err != nil {
		return Card{}, err
	}
	return c, nil
}

func (s *Service) DeleteCard(ctx context.Context, userID, id uint64) error {
	return s.Store.DeleteCard(ctx, id, userID)
}

// DeleteAllForUser wipes every card and subject the user owns. Called by
// account deletion.
func (s *Service) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return s.Store.DeleteAllForUser(ctx, userID)
}
