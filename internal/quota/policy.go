package quota

import "context"

// PremiumSource reports whether a user currently has an unexpired premium
// subscription. Resolved by the billing boundary.
type PremiumSource interface {
	IsPremium(ctx context.Context, userID uint64) (bool, error)
}

// Counters exposes the aggregate counts the policy needs. The study store
// satisfies this.
type Counters interface {
	CountSubjects(ctx context.Context, userID uint64) (int64, error)
	CountCards(ctx context.Context, userID, subjectID uint64) (int64, error)
}

// Decision is the outcome of a quota check. Limit and Count are only
// meaningful when Allowed is false.
type Decision struct {
	Allowed bool
	Limit   int
	Count   int64
}

// Policy decides whether a create is permitted under the caller's plan.
// It is consulted on every create attempt; nothing is cached, since plan
// status and counts both change over time.
type Policy struct {
	Premium  PremiumSource
	Counters Counters
}

func (p *Policy) CanAddSubject(ctx context.Context, userID uint64) (Decision, error) {
	premium, err := p.Premium.IsPremium(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	plan := Free
	if premium {
		plan = Premium
	}
	if plan.MaxSubjects == Unlimited {
		return Decision{Allowed: true}, nil
	}

	n, err := p.Counters.CountSubjects(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed: n < int64(plan.MaxSubjects),
		Limit:   plan.MaxSubjects,
		Count:   n,
	}, nil
}

func (p *Policy) CanAddCard(ctx context.Context, userID, subjectID uint64) (Decision, error) {
	premium, err := p.Premium.IsPremium(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	plan := Free
	if premium {
		plan = Premium
	}
	if plan.MaxCardsPerSubject == Unlimited {
		return Decision{Allowed: true}, nil
	}

	n, err := p.Counters.CountCards(ctx, userID, subjectID)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed: n < int64(plan.MaxCardsPerSubject),
		Limit:   plan.MaxCardsPerSubject,
		Count:   n,
	}, nil
}
