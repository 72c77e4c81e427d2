package billing

import "time"

// Profile carries the premium state for one user. A user without a row is
// on the free tier.
type Profile struct {
	UserID       uint64     `gorm:"primaryKey" json:"user_id"`
	IsPremium    bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumUntil *time.Time `gorm:"type:timestamptz" json:"premium_until"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

// Payment is one verified (or rejected) gateway transaction.
type Payment struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"user_id"`
	ImpUID      string    `gorm:"uniqueIndex;not null" json:"imp_uid"`
	MerchantUID string    `gorm:"index;not null" json:"merchant_uid"`
	Amount      int       `gorm:"not null" json:"amount"`
	Status      string    `gorm:"not null" json:"status"` // paid / forged / unpaid
	Period      string    `gorm:"not null;default:''" json:"period"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// EffectivePremium derives the premium status actually in force: the
// stored flag only counts while the expiry has not passed. A lapsed
// subscription silently degrades to free-tier limits.
func EffectivePremium(p Profile, now time.Time) bool {
	if !p.IsPremium {
		return false
	}
	if p.PremiumUntil == nil {
		return true
	}
	return !now.After(*p.PremiumUntil)
}
