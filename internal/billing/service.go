package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

var (
	// ErrAmountMismatch means the client-reported amount does not match
	// what the gateway settled. Treated as a forged payment.
	ErrAmountMismatch = errors.New("payment amount mismatch")
	// ErrNotPaid means the gateway does not consider the payment settled.
	ErrNotPaid = errors.New("payment not settled")
	// ErrGatewayDisabled means no gateway credentials were configured.
	ErrGatewayDisabled = errors.New("payment gateway disabled")
	// ErrBadPeriod means the requested subscription period is unknown.
	ErrBadPeriod = errors.New("unknown subscription period")
)

// Enqueuer schedules the premium-expiry tidy-up job. The jobs repo
// satisfies this; nil disables scheduling.
type Enqueuer interface {
	EnqueuePremiumExpire(ctx context.Context, userID uint64, runAt time.Time) error
}

type Service struct {
	Store   Store
	Gateway Gateway
	Jobs    Enqueuer
	Log     zerolog.Logger

	Now func() time.Time
}

func NewService(store Store, gw Gateway, jobs Enqueuer, log zerolog.Logger) *Service {
	return &Service{Store: store, Gateway: gw, Jobs: jobs, Log: log, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Profile returns the user's billing profile, or the free-tier zero value
// when none exists yet.
func (s *Service) Profile(ctx context.Context, userID uint64) (Profile, error) {
	p, _, err := s.Store.GetProfile(ctx, userID)
	return p, err
}

// IsPremium reports the effective premium status, re-derived on every
// call so a lapsed expiry takes effect immediately.
func (s *Service) IsPremium(ctx context.Context, userID uint64) (bool, error) {
	p, ok, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return EffectivePremium(p, s.now()), nil
}

// NewMerchantUID issues the order id the client hands to the gateway
// before starting a payment.
func NewMerchantUID() string {
	return "mg_" + uuid.NewString()
}

type VerifyInput struct {
	ImpUID      string
	MerchantUID string
	Amount      int
	Period      string // monthly or yearly
}

// Verify checks a completed gateway payment against what the client
// claims, and on success upgrades the user to premium and schedules the
// expiry job. The gateway is the source of truth for amount and status.
func (s *Service) Verify(ctx context.Context, userID uint64, in VerifyInput) (Payment, error) {
	if s.Gateway == nil {
		return Payment{}, ErrGatewayDisabled
	}
	if in.ImpUID == "" || in.MerchantUID == "" {
		return Payment{}, fmt.Errorf("%w: imp_uid and merchant_uid required", ErrNotPaid)
	}

	period := strings.ToLower(strings.TrimSpace(in.Period))
	if period == "" {
		period = PeriodMonthly
	}
	if period != PeriodMonthly && period != PeriodYearly {
		return Payment{}, ErrBadPeriod
	}

	gp, err := s.Gateway.Lookup(ctx, in.ImpUID)
	if err != nil {
		return Payment{}, err
	}

	pay := Payment{
		UserID:      userID,
		ImpUID:      in.ImpUID,
		MerchantUID: in.MerchantUID,
		Amount:      gp.Amount,
		Period:      period,
		CreatedAt:   s.now(),
	}

	if gp.Status != "paid" {
		pay.Status = "unpaid"
		s.recordPayment(ctx, &pay)
		return pay, ErrNotPaid
	}
	if gp.Amount != in.Amount || gp.MerchantUID != in.MerchantUID {
		pay.Status = "forged"
		s.recordPayment(ctx, &pay)
		return pay, ErrAmountMismatch
	}

	pay.Status = "paid"
	if err := s.Store.CreatePayment(ctx, &pay); err != nil {
		return Payment{}, err
	}

	now := s.now()
	profile, _, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return Payment{}, err
	}

	// Extend from the current expiry when the subscription is still
	// running, otherwise from now.
	base := now
	if EffectivePremium(profile, now) && profile.PremiumUntil != nil && profile.PremiumUntil.After(now) {
		base = *profile.PremiumUntil
	}

	var until time.Time
	switch period {
	case PeriodYearly:
		until = base.AddDate(1, 0, 0)
	default:
		until = base.AddDate(0, 1, 0)
	}

	profile.UserID = userID
	profile.IsPremium = true
	profile.PremiumUntil = &until
	profile.UpdatedAt = now
	if err := s.Store.SaveProfile(ctx, &profile); err != nil {
		return Payment{}, err
	}

	if s.Jobs != nil {
		if err := s.Jobs.EnqueuePremiumExpire(ctx, userID, until); err != nil {
			// The stored flag is tidy-up only; effective premium is
			// derived from the expiry, so a failed enqueue is not fatal.
			s.Log.Error().Err(err).Uint64("user_id", userID).Time("run_at", until).Msg("premium expire enqueue failed")
		}
	}
	return pay, nil
}

// recordPayment writes the audit row for a rejected payment. The caller
// returns the domain error either way; losing the record only costs the
// trail, so a storage failure is logged, not propagated.
func (s *Service) recordPayment(ctx context.Context, pay *Payment) {
	if err := s.Store.CreatePayment(ctx, pay); err != nil {
		s.Log.Error().Err(err).Str("imp_uid", pay.ImpUID).Str("status", pay.Status).Msg("payment record failed")
	}
}
