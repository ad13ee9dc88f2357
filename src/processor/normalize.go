// normalize.go
package processor

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"FareAudit/src/utils"
)

// SchemaError reports that the business or economy index column could not be
// resolved by any strategy. Available lists the column names that were
// present, to aid diagnosis.
type SchemaError struct {
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required fare index columns not found; available columns: %s",
		strings.Join(e.Available, ", "))
}

// columnRule is one step of the column resolution priority chain. Rules are
// tried in order and the first match wins.
type columnRule struct {
	name    string
	resolve func(names []string) (string, bool)
}

func exactRule(canonical string) columnRule {
	return columnRule{
		name: "exact:" + canonical,
		resolve: func(names []string) (string, bool) {
			for _, n := range names {
				if n == canonical {
					return n, true
				}
			}
			return "", false
		},
	}
}

func keywordRule(want []string, avoid []string) columnRule {
	return columnRule{
		name: "keyword:" + strings.Join(want, "+"),
		resolve: func(names []string) (string, bool) {
			for _, n := range names {
				lower := strings.ToLower(n)
				ok := true
				for _, kw := range want {
					if !strings.Contains(lower, kw) {
						ok = false
						break
					}
				}
				for _, kw := range avoid {
					if strings.Contains(lower, kw) {
						ok = false
						break
					}
				}
				if ok {
					return n, true
				}
			}
			return "", false
		},
	}
}

func positionRule(idx int) columnRule {
	return columnRule{
		name: fmt.Sprintf("position:%d", idx),
		resolve: func(names []string) (string, bool) {
			if len(names) > idx {
				return names[idx], true
			}
			return "", false
		},
	}
}

func resolveColumn(names []string, rules []columnRule) (string, bool) {
	for _, rule := range rules {
		if name, ok := rule.resolve(names); ok {
			return name, true
		}
	}
	return "", false
}

// Resolution chains per index. Positional fallbacks follow the BITRE column
// order: Month, Business(2), ..., Restricted Economy(6), Best Discount(8).
var (
	businessRules = []columnRule{
		exactRule(ColBusiness),
		keywordRule([]string{"business"}, []string{"restricted"}),
		positionRule(1),
	}
	economyRules = []columnRule{
		exactRule(ColEconomy),
		keywordRule([]string{"restricted", "economy"}, nil),
		positionRule(5),
	}
	discountRules = []columnRule{
		exactRule(ColBestDiscount),
		keywordRule([]string{"best", "discount"}, nil),
		positionRule(7),
	}
)

// Normalize turns the raw table into typed FareRecords: resolves the three
// index columns, coerces them to numeric, parses months, drops unusable rows
// and sorts ascending by month. Rows where both business and economy are
// missing are discarded; rows whose month cannot be parsed are discarded.
func Normalize(df dataframe.DataFrame) (*FareTable, error) {
	names := df.Names()
	if !utils.HasColumn(df, ColMonth) {
		return nil, &SchemaError{Available: names}
	}

	businessCol, okB := resolveColumn(names, businessRules)
	economyCol, okE := resolveColumn(names, economyRules)
	discountCol, okD := resolveColumn(names, discountRules)
	if !okB || !okE {
		return nil, &SchemaError{Available: names}
	}

	business := coerce(df, businessCol)
	economy := coerce(df, economyCol)
	var discount series.Series
	if okD {
		discount = coerce(df, discountCol)
	}

	months := df.Col(ColMonth).Records()
	records := make([]FareRecord, 0, len(months))
	for i, raw := range months {
		month, ok := parseMonth(raw)
		if !ok {
			continue // title fragments, footnote rows, blanks
		}
		rec := FareRecord{
			Month:    month,
			Business: floatAt(business, i),
			Economy:  floatAt(economy, i),
		}
		if okD {
			rec.BestDiscount = floatAt(discount, i)
		}
		if rec.Business == nil && rec.Economy == nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Month.Before(records[j].Month)
	})
	records = dedupeMonths(records)

	return &FareTable{Records: records, HasDiscount: okD}, nil
}

// coerce re-types a string column as Float. Non-numeric tokens such as
// "n.a." or "-" become NA instead of failing the run.
func coerce(df dataframe.DataFrame, col string) series.Series {
	raw := df.Col(col).Records()
	cleaned := make([]string, len(raw))
	for i, v := range raw {
		cleaned[i] = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	}
	return series.New(cleaned, series.Float, col)
}

func floatAt(s series.Series, i int) *float64 {
	e := s.Elem(i)
	if e.IsNA() {
		return nil
	}
	v := e.Float()
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// dedupeMonths keeps the first occurrence of each month in a sorted slice so
// the uniqueness invariant always holds.
func dedupeMonths(records []FareRecord) []FareRecord {
	out := records[:0]
	last := ""
	for _, r := range records {
		key := r.MonthKey()
		if key == last {
			continue
		}
		out = append(out, r)
		last = key
	}
	return out
}

// monthFormats covers the date layouts BITRE has used across three decades
// of publications.
var monthFormats = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"02/01/2006",
	"Jan-2006",
	"Jan-06",
	"January 2006",
}

var excelSerialPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// parseMonth parses a raw month cell to the first day of its calendar month.
func parseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range monthFormats {
		if t, err := time.Parse(format, s); err == nil {
			return monthOf(t), true
		}
	}
	if excelSerialPattern.MatchString(s) {
		if t, ok := excelSerialToTime(s); ok {
			return monthOf(t), true
		}
	}
	return time.Time{}, false
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// excelSerialToTime converts an Excel date serial. Serials count days from
// the 1899-12-30 epoch; values below 61 predate Excel's fictitious
// 1900-02-29 and never occur in BITRE files, so no leap-bug adjustment is
// applied.
func excelSerialToTime(s string) (time.Time, bool) {
	days, err := strconv.ParseFloat(s, 64)
	if err != nil || days < 61 {
		return time.Time{}, false
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	whole := int(days)
	frac := days - float64(whole)
	return base.AddDate(0, 0, whole).
		Add(time.Duration(86400 * frac * float64(time.Second))), true
}
