// metrics.go
package processor

// Default anomaly thresholds: the economy index falling more than 10% in a
// month while the business index moves no more than 3% either way.
const (
	DefaultEconomyDropPct    = -10.0
	DefaultBusinessStablePct = 3.0
)

// ComputeMoM derives month-on-month percentage changes for the business and
// economy indices. The first record and any record whose prior value is nil
// or zero keep nil MoM fields.
func ComputeMoM(records []FareRecord) {
	for i := 1; i < len(records); i++ {
		records[i].BusinessMoM = momPct(records[i-1].Business, records[i].Business)
		records[i].EconomyMoM = momPct(records[i-1].Economy, records[i].Economy)
	}
}

func momPct(prev, cur *float64) *float64 {
	if prev == nil || cur == nil || *prev == 0 {
		return nil
	}
	pct := (*cur / *prev * 100) - 100
	return &pct
}

// FlagLeakage marks months where the economy index dropped below
// economyDropPct while the business index stayed within
// [-businessStablePct, businessStablePct]. A record with either MoM value
// missing is never flagged. Returns the number of flagged records.
func FlagLeakage(records []FareRecord, economyDropPct, businessStablePct float64) int {
	flagged := 0
	for i := range records {
		r := &records[i]
		if r.EconomyMoM == nil || r.BusinessMoM == nil {
			r.RevenueLeakage = false
			continue
		}
		r.RevenueLeakage = *r.EconomyMoM < economyDropPct &&
			*r.BusinessMoM >= -businessStablePct &&
			*r.BusinessMoM <= businessStablePct
		if r.RevenueLeakage {
			flagged++
		}
	}
	return flagged
}
