package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorygym/internal/auth"
	"memorygym/internal/quota"
	"memorygym/internal/study"
)

type alwaysFree struct{}

func (alwaysFree) IsPremium(context.Context, uint64) (bool, error) { return false, nil }

func newCardFixture(t *testing.T) (*CardHandler, *study.Service, study.Subject) {
	t.Helper()
	store := study.NewMemoryStore()
	svc := study.NewService(store, &quota.Policy{Premium: alwaysFree{}, Counters: store})
	subject, err := svc.CreateSubject(context.Background(), 1, study.CreateSubjectInput{Name: "English"})
	require.NoError(t, err)
	return &CardHandler{Svc: svc}, svc, subject
}

// subjectGet builds GET {target} as user 1 with the subject {id} route
// param set the way the router would.
func subjectGet(target string, subjectID uint64) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.FormatUint(subjectID, 10))
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(auth.ContextWithUserID(ctx, 1))
}

type cardListResp struct {
	Data []study.Card `json:"data"`
}

func TestListCardsWithoutBoxReturnsAll(t *testing.T) {
	h, svc, subject := newCardFixture(t)
	ctx := context.Background()

	a, err := svc.CreateCard(ctx, 1, study.CreateCardInput{Front: "사과", Back: "apple", SubjectID: subject.ID})
	require.NoError(t, err)
	b, err := svc.CreateCard(ctx, 1, study.CreateCardInput{Front: "바나나", Back: "banana", SubjectID: subject.ID})
	require.NoError(t, err)
	_, err = svc.MoveCard(ctx, 1, b.ID, 3)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, subjectGet("/subjects/1/cards", subject.ID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp cardListResp
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 2, "with no box filter the whole subject comes back")
	assert.Equal(t, a.ID, resp.Data[0].ID)
	assert.Equal(t, b.ID, resp.Data[1].ID)
}

func TestListCardsFiltersByBox(t *testing.T) {
	h, svc, subject := newCardFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCard(ctx, 1, study.CreateCardInput{Front: "사과", Back: "apple", SubjectID: subject.ID})
	require.NoError(t, err)
	b, err := svc.CreateCard(ctx, 1, study.CreateCardInput{Front: "바나나", Back: "banana", SubjectID: subject.ID})
	require.NoError(t, err)
	_, err = svc.MoveCard(ctx, 1, b.ID, 3)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, subjectGet("/subjects/1/cards?box=3", subject.ID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp cardListResp
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, b.ID, resp.Data[0].ID)
}

func TestListCardsRejectsBadBox(t *testing.T) {
	h, _, subject := newCardFixture(t)

	rec := httptest.NewRecorder()
	h.List(rec, subjectGet("/subjects/1/cards?box=abc", subject.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, subjectGet("/subjects/1/cards?box=9", subject.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
