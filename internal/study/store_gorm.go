package study

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns the Postgres-backed Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListSubjects(ctx context.Context, userID uint64) ([]Subject, error) {
	var out []Subject
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, &UpstreamError{Op: "list subjects", Err: err}
	}
	return out, nil
}

func (s *gormStore) GetSubject(ctx context.Context, id, userID uint64) (Subject, error) {
	var sub Subject
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Subject{}, ErrNotFound
	}
	if err != nil {
		return Subject{}, &UpstreamError{Op: "get subject", Err: err}
	}
	return sub, nil
}

func (s *gormStore) CreateSubject(ctx context.Context, sub *Subject) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return &UpstreamError{Op: "create subject", Err: err}
	}
	return nil
}

func (s *gormStore) UpdateSubject(ctx context.Context, sub *Subject) error {
	res := s.db.WithContext(ctx).
		Model(&Subject{}).
		Where("id = ? AND user_id = ?", sub.ID, sub.UserID).
		Updates(map[string]any{
			"name":        sub.Name,
			"description": sub.Description,
			"color":       sub.Color,
		})
	if res.Error != nil {
		return &UpstreamError{Op: "update subject", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteSubject(ctx context.Context, id, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Subject{})
		if res.Error != nil {
			return &UpstreamError{Op: "delete subject", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("subject_id = ? AND user_id = ?", id, userID).Delete(&Card{}).Error; err != nil {
			return &UpstreamError{Op: "delete subject cards", Err: err}
		}
		return nil
	})
}

func (s *gormStore) CountSubjects(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&Subject{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, &UpstreamError{Op: "count subjects", Err: err}
	}
	return n, nil
}

func (s *gormStore) ListCards(ctx context.Context, q CardQuery) ([]Card, error) {
	db := s.db.WithContext(ctx).Model(&Card{}).Where("user_id = ?", q.UserID)

	if q.SubjectID != nil {
		db = db.Where("subject_id = ?", *q.SubjectID)
	}
	if q.Box != nil {
		db = db.Where("box_number = ?", *q.Box)
	}
	if q.DueBefore != nil {
		db = db.Where("next_review IS NULL OR next_review <= ?", *q.DueBefore)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("front ILIKE ? OR back ILIKE ?", like, like)
	}

	switch q.Order {
	case OrderByDuePriority:
		db = db.Order("box_number asc, last_reviewed asc nulls first, id asc")
	case OrderByCreatedDesc:
		db = db.Order("created_at desc, id desc")
	default:
		db = db.Order("id asc")
	}

	var out []Card
	if err := db.Find(&out).Error; err != nil {
		return nil, &UpstreamError{Op: "list cards", Err: err}
	}
	return out, nil
}

func (s *gormStore) GetCard(ctx context.Context, id, userID uint64) (Card, error) {
	var c Card
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Card{}, ErrNotFound
	}
	if err != nil {
		return Card{}, &UpstreamError{Op: "get card", Err: err}
	}
	return c, nil
}

func (s *gormStore) CreateCard(ctx context.Context, c *Card) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return &UpstreamError{Op: "create card", Err: err}
	}
	return nil
}

func (s *gormStore) UpdateCard(ctx context.Context, c *Card) error {
	res := s.db.WithContext(ctx).
		Model(&Card{}).
		Where("id = ? AND user_id = ?", c.ID, c.UserID).
		Updates(map[string]any{
			"front":         c.Front,
			"back":          c.Back,
			"box_number":    c.BoxNumber,
			"last_reviewed": c.LastReviewed,
			"next_review":   c.NextReview,
		})
	if res.Error != nil {
		return &UpstreamError{Op: "update card", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteCard(ctx context.Context, id, userID uint64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Card{})
	if res.Error != nil {
		return &UpstreamError{Op: "delete card", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CountCards(ctx context.Context, userID, subjectID uint64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&Card{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Count(&n).Error
	if err != nil {
		return 0, &UpstreamError{Op: "count cards", Err: err}
	}
	return n, nil
}

func (s *gormStore) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&Card{}).Error; err != nil {
			return &UpstreamError{Op: "delete user cards", Err: err}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&Subject{}).Error; err != nil {
			return &UpstreamError{Op: "delete user subjects", Err: err}
		}
		return nil
	})
}
