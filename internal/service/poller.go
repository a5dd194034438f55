package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rates-updater/internal/parser"
)

var ErrTooManyReadErrors = errors.New("too many consecutive read errors")

type pollState struct {
	// modification time of the last version that was read
	baseline   time.Time
	readErrors int
}

// Run polls the rates file and sends the rates every time it changes.
// Versions written before Run was called are not sent.
func (s *Service) Run(ctx context.Context) error {
	state := pollState{baseline: s.now()}
	s.log.Infof("watching [%s] for changes after [%s]", s.RatesFile, state.baseline.Format("2006-01-02 15:04:05"))

	for {
		content, modTime, changed, err := s.checkFile(state.baseline)
		if err != nil {
			state.readErrors++
			s.metrics.ReadErrorsTotal.Inc()
			s.log.Errorf("rates file (%d/%d): %s", state.readErrors, s.MaxReadErrors, err)
			if state.readErrors >= s.MaxReadErrors {
				return fmt.Errorf("%w: %s", ErrTooManyReadErrors, err)
			}
			if !s.sleep(ctx, s.RetryDelay) {
				return ctx.Err()
			}
			continue
		}

		if !changed {
			state.readErrors = 0
			s.log.Tracef("rates file [%s] not newer than [%s]",
				modTime.Format("2006-01-02 15:04:05"),
				state.baseline.Format("2006-01-02 15:04:05"),
			)
			if !s.sleep(ctx, s.CheckInterval) {
				return ctx.Err()
			}
			continue
		}

		state.baseline = modTime
		state.readErrors = 0
		s.processRates(ctx, content, modTime)
	}
}

// checkFile reads the rates file only when it is newer than baseline.
func (s *Service) checkFile(baseline time.Time) ([]byte, time.Time, bool, error) {
	info, err := s.stat(s.RatesFile)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("stat: %w", err)
	}
	modTime := info.ModTime()
	if !modTime.After(baseline) {
		return nil, modTime, false, nil
	}

	content, err := s.readFile(s.RatesFile)
	if err != nil {
		return nil, modTime, false, fmt.Errorf("read: %w", err)
	}
	return content, modTime, true, nil
}

func (s *Service) processRates(ctx context.Context, content []byte, modTime time.Time) {
	s.metrics.CyclesTotal.Inc()
	s.metrics.LastFileModTime.Set(float64(modTime.Unix()))
	s.log.Infof("rates file changed at [%s] - update needed", modTime.Format("2006-01-02 15:04:05"))

	rates, errs := parser.Parse(content)
	for _, err := range errs {
		s.metrics.LinesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		s.log.Warnln("skip line:", err)
	}
	buy, sell := rates.CountBySide()
	s.log.Infof("parsed [%d] currency rates (%d buy, %d sell)", len(rates), buy, sell)

	s.metrics.RatesDispatched.Set(float64(len(rates)))
	status, err := s.sender.SendRates(ctx, rates)
	if err != nil {
		s.metrics.DispatchTotal.WithLabelValues("failed").Inc()
		s.log.Errorln("send currency rates:", err)
		return
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.metrics.DispatchTotal.WithLabelValues("http_error").Inc()
		s.log.Warnf("API responded [%d %s]", status, http.StatusText(status))
		return
	}
	s.metrics.DispatchTotal.WithLabelValues("ok").Inc()
	s.log.Infof("API responded [%d %s]", status, http.StatusText(status))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrUnknownCurrency):
		return "unknown_currency"
	case errors.Is(err, parser.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, parser.ErrMalformedValue):
		return "malformed_value"
	case errors.Is(err, parser.ErrMalformedLine):
		return "malformed_line"
	default:
		return "other"
	}
}
