package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// MaxImportErrors is how many row errors a report lists before summarizing.
const MaxImportErrors = 50

// Column order of an import file. A first row starting with "name" is a header.
var importColumns = []string{"name", "phone", "email", "street", "postal", "city", "province", "apartment"}

type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

func (r *ImportReport) fail(line int, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %v", line, err))
}

// Summary returns the errors to show: the first MaxImportErrors, then one
// line counting the rest.
func (r ImportReport) Summary() []string {
	if len(r.Errors) <= MaxImportErrors {
		return r.Errors
	}
	out := make([]string, 0, MaxImportErrors+1)
	out = append(out, r.Errors[:MaxImportErrors]...)
	return append(out, fmt.Sprintf("... and %d more errors", len(r.Errors)-MaxImportErrors))
}

// Import creates one customer per CSV row. Rows succeed or fail on their own;
// a bad row never stops the rest.
func (s *CustomerService) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	report := ImportReport{Errors: []string{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return report, fmt.Errorf("failed to read import file: %w", err)
			}
			report.Total++
			report.fail(line, err)
			continue
		}
		if line == 1 && isImportHeader(record) {
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		report.Total++
		input, err := importInput(record)
		if err == nil {
			err = input.Validate()
		}
		if err == nil {
			_, err = s.Create(ctx, input)
		}
		if err != nil {
			report.fail(line, err)
			continue
		}
		report.Imported++
	}

	utils.InfoLogger.Infof("Customer import: %d rows, %d imported, %d failed", report.Total, report.Imported, report.Failed)
	report.Errors = report.Summary()
	return report, nil
}

func importInput(record []string) (CustomerInput, error) {
	if len(record) < 2 {
		return CustomerInput{}, fmt.Errorf("expected at least name and phone, got %d columns", len(record))
	}
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return CustomerInput{
		Name:  field(0),
		Phone: field(1),
		Email: field(2),
		Address: models.Address{
			Street:     field(3),
			PostalCode: field(4),
			City:       field(5),
			Province:   field(6),
			Apartment:  field(7),
		},
	}, nil
}

func isImportHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff")), importColumns[0])
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
