package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"memorygym/internal/quota"
	"memorygym/internal/study"
)

type fakePremium struct{ premium bool }

func (f fakePremium) IsPremium(context.Context, uint64) (bool, error) {
	return f.premium, nil
}

// workbook builds an xlsx in memory with a header row followed by the
// given rows.
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Answer", "Prompt"}))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"사과", "apple"},
		{"바나나", "banana"},
		{"", ""},          // blank, silently dropped
		{"orphan", ""},    // half-filled, reported
		{" padded ", " x "},
	})

	rows, rowErrs, err := ParseWorkbook(buf)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Front: "사과", Back: "apple"}, rows[0])
	assert.Equal(t, Row{Front: "padded", Back: "x"}, rows[2], "cells are trimmed")

	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0], "row 5")
}

func TestParseWorkbookGarbage(t *testing.T) {
	_, _, err := ParseWorkbook(strings.NewReader("this is not a zip"))
	assert.ErrorIs(t, err, ErrBadWorkbook)
}

func newStudyService(premium bool) (*study.Service, *study.MemoryStore) {
	store := study.NewMemoryStore()
	policy := &quota.Policy{Premium: fakePremium{premium}, Counters: store}
	return study.NewService(store, policy), store
}

func TestImportCreatesCards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStudyService(false)
	subject, err := svc.CreateSubject(ctx, 1, study.CreateSubjectInput{Name: "English"})
	require.NoError(t, err)

	buf := workbook(t, [][]interface{}{
		{"사과", "apple"},
		{"바나나", "banana"},
		{"", "orphan"},
	})

	im := &Importer{Study: svc}
	res, err := im.Import(ctx, 1, subject.ID, buf)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)

	n, err := svc.CountCards(ctx, 1, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Imported cards start in box 1 and are due immediately.
	due, err := svc.ListCardsDueToday(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, 1, due[0].BoxNumber)
}

func TestImportStopsAtCardQuota(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStudyService(false)
	subject, err := svc.CreateSubject(ctx, 1, study.CreateSubjectInput{Name: "English"})
	require.NoError(t, err)

	for i := 0; i < 98; i++ {
		_, err := svc.CreateCard(ctx, 1, study.CreateCardInput{
			Front: "front", Back: "back", SubjectID: subject.ID,
		})
		require.NoError(t, err)
	}

	buf := workbook(t, [][]interface{}{
		{"a", "1"},
		{"b", "2"},
		{"c", "3"},
		{"d", "4"},
	})

	im := &Importer{Study: svc}
	res, err := im.Import(ctx, 1, subject.ID, buf)
	require.NoError(t, err, "hitting the quota is a partial result, not a failure")

	assert.Equal(t, 2, res.Created, "room for 100 cards total")
	assert.Equal(t, 2, res.Skipped)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[len(res.Errors)-1], "card limit reached")

	n, err := svc.CountCards(ctx, 1, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
}

func TestImportUnknownSubject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStudyService(false)

	buf := workbook(t, [][]interface{}{{"a", "1"}})

	im := &Importer{Study: svc}
	_, err := im.Import(ctx, 1, 999, buf)
	assert.ErrorIs(t, err, study.ErrNotFound)
}
