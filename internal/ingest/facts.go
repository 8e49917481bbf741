package ingest

import (
	"fmt"
	"io"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/store"
)

// Forms accepted from company facts.
var Forms = map[string]bool{
	"10-K": true,
	"10-Q": true,
}

// entry is one reported value of one tag.
type entry struct {
	start, end string
	accn, form string
	filed      string
	fy         int64
	fp         string
	value      float64
}

type candidate struct {
	fact     store.Fact
	priority int
	filed    string
}

// ParseCompanyFacts reads one companyfacts document and returns the facts
// of the tags in aliases, attributed to cik. Facts are ordered by concept,
// fiscal year, period and duration.
//
// Entries without a fiscal year, a recognised fiscal period, a value, or a
// parseable period are skipped.
func ParseCompanyFacts(r io.Reader, cik string, aliases []Alias) ([]store.Fact, error) {
	doc, err := oj.Load(r)
	if err != nil {
		return nil, fmt.Errorf("parse company facts: %w", err)
	}

	best := make(map[string]candidate)
	for priority, alias := range aliases {
		x, err := jp.ParseString("$.facts.*." + alias.Tag + ".units.*[*]")
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", alias.Tag, err)
		}

		entries := principal(decodeEntries(x.Get(doc)))
		label := concept.Concept{Name: alias.Concept}.Label()
		for _, e := range entries {
			period, ok := FiscalPeriod(e.fp)
			if !ok {
				continue
			}
			duration, err := ClassifyPeriod(e.start, e.end)
			if err != nil {
				continue
			}

			f := store.Fact{
				CIK:          cik,
				Concept:      label,
				FiscalYear:   int(e.fy),
				FiscalPeriod: period,
				Duration:     duration,
				EndDate:      e.end,
				Accn:         e.accn,
				Form:         e.form,
				Value:        e.value,
			}
			key := fmt.Sprintf("%s|%d|%s|%s", f.Concept, f.FiscalYear, f.FiscalPeriod, f.Duration)
			prev, seen := best[key]
			if seen && (prev.priority < priority || (prev.priority == priority && prev.filed >= e.filed)) {
				continue
			}
			best[key] = candidate{fact: f, priority: priority, filed: e.filed}
		}
	}

	facts := make([]store.Fact, 0, len(best))
	for _, c := range best {
		facts = append(facts, c.fact)
	}
	sort.Slice(facts, func(i, j int) bool {
		a, b := facts[i], facts[j]
		if a.Concept != b.Concept {
			return a.Concept < b.Concept
		}
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear < b.FiscalYear
		}
		if a.FiscalPeriod != b.FiscalPeriod {
			return a.FiscalPeriod < b.FiscalPeriod
		}
		return a.Duration < b.Duration
	})
	return facts, nil
}

func decodeEntries(raw []any) []entry {
	entries := make([]entry, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		form, _ := m["form"].(string)
		if !Forms[form] {
			continue
		}
		fy, ok := asInt(m["fy"])
		if !ok {
			continue
		}
		value, ok := asFloat(m["val"])
		if !ok {
			continue
		}
		e := entry{form: form, fy: fy, value: value}
		e.start, _ = m["start"].(string)
		e.end, _ = m["end"].(string)
		e.accn, _ = m["accn"].(string)
		e.filed, _ = m["filed"].(string)
		e.fp, _ = m["fp"].(string)
		if e.end == "" || e.accn == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// principal keeps the entries of each filing that end on the filing's
// latest reported date.
func principal(entries []entry) []entry {
	latest := make(map[string]string)
	for _, e := range entries {
		if e.end > latest[e.accn] {
			latest[e.accn] = e.end
		}
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.end == latest[e.accn] {
			kept = append(kept, e)
		}
	}
	return kept
}
