// fare.go
package processor

import "time"

// Canonical column names for the normalized fare table. ColMonth matches the
// name assigned by the layout resolver in datasource/file.
const (
	ColMonth        = "Month"
	ColBusiness     = "Real Business Class"
	ColEconomy      = "Real Restricted Economy"
	ColBestDiscount = "Real Best Discount"
)

// MonthKeyFormat is the key format used for note lookups and report output.
const MonthKeyFormat = "2006-01"

// FareRecord is one reporting month of the normalized fare table. Index
// values are nil when the source cell was missing or non-numeric. The MoM
// fields stay nil for the first record and whenever the prior value is
// nil or zero.
type FareRecord struct {
	Month          time.Time
	Business       *float64
	Economy        *float64
	BestDiscount   *float64
	BusinessMoM    *float64
	EconomyMoM     *float64
	RevenueLeakage bool
	OfficialNote   string
}

// MonthKey formats the record month as "YYYY-MM".
func (r *FareRecord) MonthKey() string {
	return r.Month.Format(MonthKeyFormat)
}

// FareTable is the pipeline output: records sorted ascending by month with
// no duplicates. HasDiscount reports whether a best-discount column could be
// resolved in the source file.
type FareTable struct {
	Records     []FareRecord
	HasDiscount bool
}
