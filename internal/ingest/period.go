package ingest

import (
	"fmt"
	"time"

	"github.com/jsripraj/stock-alchemy/internal/queryir"
)

// Durations stored in facts.duration. Instant values (balance sheet items,
// share counts) have no duration.
const (
	DurationInstant       = queryir.DurationUnspecified
	DurationOneQuarter    = "OneQuarter"
	DurationTwoQuarters   = "TwoQuarters"
	DurationThreeQuarters = "ThreeQuarters"
	DurationYear          = queryir.DurationYear
	DurationOther         = "Other"
)

const dateLayout = "2006-01-02"

// ClassifyPeriod names the duration between two YYYY-MM-DD dates. An
// empty start is an instant. Windows are open intervals in days:
// (80,100) one quarter, (170,190) two, (260,280) three, (330,380) a year.
func ClassifyPeriod(start, end string) (string, error) {
	if start == "" {
		return DurationInstant, nil
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", fmt.Errorf("period start: %w", err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return "", fmt.Errorf("period end: %w", err)
	}

	days := int(e.Sub(s).Hours() / 24)
	switch {
	case days > 80 && days < 100:
		return DurationOneQuarter, nil
	case days > 170 && days < 190:
		return DurationTwoQuarters, nil
	case days > 260 && days < 280:
		return DurationThreeQuarters, nil
	case days > 330 && days < 380:
		return DurationYear, nil
	default:
		return DurationOther, nil
	}
}

// FiscalPeriod maps a filing's fp field to the stored fiscal period.
// Annual reports are stored as the fourth quarter.
func FiscalPeriod(fp string) (string, bool) {
	switch fp {
	case "FY":
		return queryir.PeriodQ4, true
	case "Q1", "Q2", "Q3", "Q4":
		return fp, true
	default:
		return "", false
	}
}
