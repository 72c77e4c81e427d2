package study

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorygym/internal/quota"
)

type fakePremium struct {
	premium bool
}

func (f *fakePremium) IsPremium(context.Context, uint64) (bool, error) {
	return f.premium, nil
}

type testEnv struct {
	svc     *Service
	store   *MemoryStore
	premium *fakePremium
	clock   time.Time
}

func newTestEnv() *testEnv {
	store := NewMemoryStore()
	premium := &fakePremium{}
	env := &testEnv{
		store:   store,
		premium: premium,
		clock:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	env.svc = &Service{
		Store: store,
		Quota: &quota.Policy{Premium: premium, Counters: store},
		Now:   func() time.Time { return env.clock },
	}
	return env
}

func (e *testEnv) advance(d time.Duration) { e.clock = e.clock.Add(d) }

func TestStudyScenario(t *testing.T) {
	// New subject, one card, correct review, then incorrect review.
	env := newTestEnv()
	ctx := context.Background()

	sub, err := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	require.NoError(t, err)

	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, card.BoxNumber)
	require.NotNil(t, card.NextReview)
	assert.True(t, card.NextReview.Equal(env.clock))

	card, err = env.svc.ReviewCard(ctx, 1, card.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, card.BoxNumber)
	assert.True(t, card.NextReview.Equal(env.clock.AddDate(0, 0, 3)))
	require.NotNil(t, card.LastReviewed)
	assert.True(t, card.LastReviewed.Equal(env.clock))

	env.advance(72 * time.Hour)
	card, err = env.svc.ReviewCard(ctx, 1, card.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, card.BoxNumber)
	assert.True(t, card.NextReview.Equal(env.clock.AddDate(0, 0, 1)))
}

func TestCreateSubjectValidation(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateSubject(context.Background(), 1, CreateSubjectInput{Name: "   "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestSubjectQuotaFreeTier(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	require.NoError(t, err)

	_, err = env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "History"})
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "subjects", qe.Resource)
	assert.Equal(t, 1, qe.Limit)
	assert.Equal(t, int64(1), qe.Count)

	// another user is unaffected
	_, err = env.svc.CreateSubject(ctx, 2, CreateSubjectInput{Name: "History"})
	assert.NoError(t, err)
}

func TestSubjectQuotaPremium(t *testing.T) {
	env := newTestEnv()
	env.premium.premium = true
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: fmt.Sprintf("Deck %d", i)})
		require.NoError(t, err)
	}
}

func TestCardQuotaBoundary(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, err := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	require.NoError(t, err)

	for i := 0; i < 99; i++ {
		_, err := env.svc.CreateCard(ctx, 1, CreateCardInput{
			Front: fmt.Sprintf("front %d", i), Back: fmt.Sprintf("back %d", i), SubjectID: sub.ID,
		})
		require.NoError(t, err)
	}

	// 100th card still fits
	_, err = env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "front 99", Back: "back 99", SubjectID: sub.ID})
	require.NoError(t, err)

	n, err := env.svc.CountCards(ctx, 1, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	// 101st does not
	_, err = env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "extra", Back: "extra", SubjectID: sub.ID})
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "cards", qe.Resource)
	assert.Equal(t, 100, qe.Limit)
	assert.Equal(t, int64(100), qe.Count)
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, err := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	require.NoError(t, err)
	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)

	// user 2 cannot touch user 1's rows
	_, err = env.svc.ReviewCard(ctx, 2, card.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	front := "hacked"
	_, err = env.svc.UpdateCard(ctx, 2, card.ID, UpdateCardInput{Front: &front})
	assert.ErrorIs(t, err, ErrForbidden)

	err = env.svc.DeleteCard(ctx, 2, card.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = env.svc.DeleteSubject(ctx, 2, sub.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// and never sees them in listings
	cards, err := env.svc.ListCardsByBox(ctx, 2, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, cards)

	subjects, err := env.svc.ListSubjects(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, subjects)

	// user 1 still has everything
	cards, err = env.svc.ListCardsByBox(ctx, 1, 1, nil)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestUpdateCardContentOnlyAndIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)

	card, err = env.svc.ReviewCard(ctx, 1, card.ID, true)
	require.NoError(t, err)
	wantBox := card.BoxNumber
	wantNext := *card.NextReview

	front, back := "배", "Pear"
	first, err := env.svc.UpdateCard(ctx, 1, card.ID, UpdateCardInput{Front: &front, Back: &back})
	require.NoError(t, err)
	second, err := env.svc.UpdateCard(ctx, 1, card.ID, UpdateCardInput{Front: &front, Back: &back})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "배", second.Front)
	assert.Equal(t, "Pear", second.Back)
	assert.Equal(t, wantBox, second.BoxNumber)
	assert.True(t, second.NextReview.Equal(wantNext), "content edits must not touch the schedule")
}

func TestDueTodayOrdering(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})

	mk := func(front string, box int, reviewed time.Time) Card {
		c, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: front, Back: front, SubjectID: sub.ID})
		require.NoError(t, err)
		past := env.clock.Add(-time.Hour)
		c.BoxNumber = box
		c.LastReviewed = &reviewed
		c.NextReview = &past
		require.NoError(t, env.store.UpdateCard(ctx, &c))
		return c
	}

	t0 := env.clock.Add(-72 * time.Hour)
	t1 := env.clock.Add(-48 * time.Hour)
	t2 := env.clock.Add(-24 * time.Hour)

	b2 := mk("two", 2, t2)
	b1late := mk("one-late", 1, t1)
	b1early := mk("one-early", 1, t0)

	due, err := env.svc.ListCardsDueToday(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, b1early.ID, due[0].ID)
	assert.Equal(t, b1late.ID, due[1].ID)
	assert.Equal(t, b2.ID, due[2].ID)
}

func TestDueTodayExcludesFuture(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)

	// freshly created card is due immediately
	due, err := env.svc.ListCardsDueToday(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, due, 1)

	// after a correct review it is scheduled out three days
	_, err = env.svc.ReviewCard(ctx, 1, card.ID, true)
	require.NoError(t, err)

	due, err = env.svc.ListCardsDueToday(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, due)

	env.advance(4 * 24 * time.Hour)
	due, err = env.svc.ListCardsDueToday(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestSearchCards(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	_, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)
	_, err = env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "바나나", Back: "Banana", SubjectID: sub.ID})
	require.NoError(t, err)

	// empty query returns nothing, not everything
	got, err := env.svc.SearchCards(ctx, 1, "   ", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	// case-insensitive, matches front or back
	got, err = env.svc.SearchCards(ctx, 1, "aPPl", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Apple", got[0].Back)

	got, err = env.svc.SearchCards(ctx, 1, "사과", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeleteSubjectCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteSubject(ctx, 1, sub.ID))

	_, err = env.store.GetCard(ctx, card.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	subjects, err := env.svc.ListSubjects(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestMoveCardOverride(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "English"})
	card, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "사과", Back: "Apple", SubjectID: sub.ID})
	require.NoError(t, err)
	reviewed := card.LastReviewed

	card, err = env.svc.MoveCard(ctx, 1, card.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, card.BoxNumber)
	assert.True(t, card.NextReview.Equal(env.clock.AddDate(0, 0, 14)))
	assert.Equal(t, reviewed, card.LastReviewed, "manual move is not a review")

	_, err = env.svc.MoveCard(ctx, 1, card.ID, 6)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteAllForUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	sub1, _ := env.svc.CreateSubject(ctx, 1, CreateSubjectInput{Name: "Mine"})
	_, err := env.svc.CreateCard(ctx, 1, CreateCardInput{Front: "a", Back: "b", SubjectID: sub1.ID})
	require.NoError(t, err)
	sub2, _ := env.svc.CreateSubject(ctx, 2, CreateSubjectInput{Name: "Theirs"})

	require.NoError(t, env.svc.DeleteAllForUser(ctx, 1))

	mine, err := env.svc.ListSubjects(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := env.svc.ListSubjects(ctx, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, sub2.ID, theirs[0].ID)
}

func TestListCardsByBoxValidatesBox(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ListCardsByBox(context.Background(), 1, 0, nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = env.svc.ListCardsByBox(context.Background(), 1, 6, nil)
	assert.ErrorAs(t, err, &ve)
}
