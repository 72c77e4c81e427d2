// Package importer loads flashcards in bulk from an uploaded
// spreadsheet. Column A is the answer (front), column B the prompt
// (back); the first row is treated as a header and skipped.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"memorygym/internal/study"
)

// Row is one parsed card-to-be.
type Row struct {
	Front string
	Back  string
}

// ErrBadWorkbook marks a file that could not be read as xlsx at all.
var ErrBadWorkbook = errors.New("unreadable workbook")

// Result summarises one import run. Row-level problems land in Errors;
// they do not abort the run.
type Result struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ParseWorkbook reads the first sheet of an xlsx workbook. Returns the
// usable rows plus per-row error messages for rows it had to skip.
func ParseWorkbook(r io.Reader) ([]Row, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}

	var out []Row
	var rowErrs []string
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 {
			continue
		}

		var front, back string
		if len(row) > 0 {
			front = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			back = strings.TrimSpace(row[1])
		}
		if front == "" && back == "" {
			continue
		}
		if front == "" || back == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: both front and back are required", i+1))
			continue
		}
		out = append(out, Row{Front: front, Back: back})
	}
	return out, rowErrs, nil
}

// Importer creates cards through the study service so quota and
// ownership rules apply to bulk uploads exactly as to single creates.
type Importer struct {
	Study *study.Service
}

func (im *Importer) Import(ctx context.Context, userID, subjectID uint64, r io.Reader) (Result, error) {
	rows, rowErrs, err := ParseWorkbook(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Total:   len(rows) + len(rowErrs),
		Skipped: len(rowErrs),
		Errors:  rowErrs,
	}

	for i, row := range rows {
		_, err := im.Study.CreateCard(ctx, userID, study.CreateCardInput{
			Front:     row.Front,
			Back:      row.Back,
			SubjectID: subjectID,
		})
		if err == nil {
			res.Created++
			continue
		}

		var qe *study.QuotaError
		if errors.As(err, &qe) {
			// Remaining rows cannot succeed either.
			remaining := len(rows) - i
			res.Skipped += remaining
			res.Errors = append(res.Errors, fmt.Sprintf("card limit reached (%d of %d), %d rows not imported", qe.Count, qe.Limit, remaining))
			return res, nil
		}

		var ve *study.ValidationError
		if errors.As(err, &ve) {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row skipped: %v", ve))
			continue
		}

		// Ownership or upstream failure: abort.
		return res, err
	}
	return res, nil
}
