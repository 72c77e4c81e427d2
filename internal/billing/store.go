package billing

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the billing persistence boundary.
type Store interface {
	// GetProfile returns the profile and whether a row exists.
	GetProfile(ctx context.Context, userID uint64) (Profile, bool, error)
	SaveProfile(ctx context.Context, p *Profile) error
	DeleteProfile(ctx context.Context, userID uint64) error
	CreatePayment(ctx context.Context, pay *Payment) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetProfile(ctx context.Context, userID uint64) (Profile, bool, error) {
	var p Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{UserID: userID}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

func (s *gormStore) SaveProfile(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_premium", "premium_until", "updated_at"}),
		}).
		Create(p).Error
}

func (s *gormStore) DeleteProfile(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Profile{}).Error
}

func (s *gormStore) CreatePayment(ctx context.Context, pay *Payment) error {
	return s.db.WithContext(ctx).Create(pay).Error
}
