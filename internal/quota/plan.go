package quota

// Plan describes a pricing tier. A limit of -1 means unlimited.
type Plan struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PriceMonthly       int    `json:"price_monthly"`
	PriceYearly        int    `json:"price_yearly"`
	MaxSubjects        int    `json:"max_subjects"`
	MaxCardsPerSubject int    `json:"max_cards_per_subject"`
}

const Unlimited = -1

var (
	Free = Plan{
		ID:                 1,
		Name:               "free",
		Description:        "기본 무료 플랜",
		PriceMonthly:       0,
		PriceYearly:        0,
		MaxSubjects:        1,
		MaxCardsPerSubject: 100,
	}

	Premium = Plan{
		ID:                 2,
		Name:               "premium",
		Description:        "프리미엄 플랜",
		PriceMonthly:       4900,
		PriceYearly:        49000,
		MaxSubjects:        Unlimited,
		MaxCardsPerSubject: Unlimited,
	}
)

func Plans() []Plan {
	return []Plan{Free, Premium}
}

func ByName(name string) (Plan, bool) {
	for _, p := range Plans() {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}
