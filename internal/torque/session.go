package torque

import (
	"context"
	"fmt"
	"log/slog"
)

// MaxTestsPerAllowance is how many readings a calibration run records
// against each allowance range.
const MaxTestsPerAllowance = 5

// ReadingRecorder persists accepted readings; implemented by the raw
// readings repository.
type ReadingRecorder interface {
	InsertReading(ctx context.Context, value float64, specID int, allowanceLabel, rangeStr string) error
}

// Session accumulates live readings for one selected spec. It is owned by
// a single test run and is not safe for concurrent use, matching the one
// reader goroutine that feeds it.
type Session struct {
	spec     Spec
	recorder ReadingRecorder
	results  map[string][]float64 // allowance range -> accepted readings
	log      *slog.Logger
}

func NewSession(spec Spec, recorder ReadingRecorder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		spec:     spec,
		recorder: recorder,
		results:  make(map[string][]float64),
		log:      logger,
	}
}

// Record matches a reading against the spec's allowances and stores it
// under each matching range that still has test slots open. It returns
// the fits so a display layer can show pass/fail.
func (s *Session) Record(ctx context.Context, value float64) []Fit {
	fits := FindFits(value, s.spec)
	for _, fit := range fits {
		current := s.results[fit.RangeStr]
		if len(current) >= MaxTestsPerAllowance {
			continue
		}
		if s.recorder != nil {
			label := fmt.Sprintf("allowance%d", fit.AllowanceIndex)
			if err := s.recorder.InsertReading(ctx, value, s.spec.ID, label, fit.RangeStr); err != nil {
				s.log.Error("session.record_error", "spec_id", s.spec.ID, "value", value, "error", err)
				continue
			}
		}
		s.results[fit.RangeStr] = append(current, value)
	}
	return fits
}

// Results returns the accepted readings for one allowance range.
func (s *Session) Results(rangeStr string) []float64 {
	return s.results[rangeStr]
}

// Rows flattens the session into summary rows, one per allowance, in
// spec order: applied torque, allowance range, then the recorded tests.
func (s *Session) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(s.spec.Allowances))
	for i := 1; i <= len(s.spec.Allowances); i++ {
		var applied float64
		if i-1 < len(s.spec.AppliedTorques) {
			applied = s.spec.AppliedTorques[i-1]
		}
		rng := s.spec.Allowance(i)
		rows = append(rows, SummaryRow{
			Applied:  applied,
			RangeStr: rng,
			Tests:    s.results[rng],
		})
	}
	return rows
}

// SummaryRow is one line of the exported summary table.
type SummaryRow struct {
	Applied  float64
	RangeStr string
	Tests    []float64
}
