// Package parser reads currency rates out of the PHP dump written by the
// exchange office software. A relevant line looks like
//
//	$EURku='4.6700';
//
// where "ku" marks the buy rate and "sp" the sell rate.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"rates-updater/internal/datastructs"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedLine   = errors.New("malformed line")
	ErrMalformedValue  = errors.New("malformed value")
	ErrUnknownCurrency = errors.New("unknown currency code")
	ErrUnknownType     = errors.New("unknown rate type")
)

// LineError describes a candidate line that could not be turned into a rate.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IsCandidate reports whether the line may hold a rate at all.
func IsCandidate(line string) bool {
	return strings.Contains(line, "ku") || strings.Contains(line, "sp")
}

// ParseLine parses one assignment and stores the rate in rates.
// It returns false without an error for deprecated currencies.
func ParseLine(line string, rates datastructs.RateMapping) (bool, error) {
	name, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found || len(name) < 4 || name[0] != '$' {
		return false, ErrMalformedLine
	}

	code := name[1 : len(name)-2]
	if _, ok := deprecatedCodes[code]; ok {
		return false, nil
	}

	label, ok := currencyNames[code]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	suffix, ok := rateTypes[name[len(name)-2:]]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownType, name[len(name)-2:])
	}

	if len(value) < 3 || value[0] != '\'' || !strings.HasSuffix(value, "';") {
		return false, ErrMalformedLine
	}
	amount, err := decimal.NewFromString(value[1 : len(value)-2])
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrMalformedValue, err)
	}
	rate, _ := amount.Float64()

	rates[label+suffix] = rate
	return true, nil
}

// Parse collects every rate in the file content into a new mapping.
// Candidate lines that cannot be parsed are returned as *LineError values.
func Parse(data []byte) (datastructs.RateMapping, []error) {
	rates := make(datastructs.RateMapping)
	var errs []error

	// The dump may hold arbitrarily long lines, so no line length limit here.
	for i, line := range strings.Split(string(data), "\n") {
		if !IsCandidate(line) {
			continue
		}
		if _, err := ParseLine(line, rates); err != nil {
			errs = append(errs, &LineError{Line: i + 1, Text: strings.TrimSpace(line), Err: err})
		}
	}
	return rates, errs
}
