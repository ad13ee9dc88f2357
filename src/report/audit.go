// audit.go
package report

import (
	"fmt"
	"io"
	"strings"

	"FareAudit/src/processor"
)

const reportWidth = 70

// WriteAudit prints the fixed-format audit summary: scope, key findings and
// the historical-context listing.
func WriteAudit(w io.Writer, table *processor.FareTable) {
	records := table.Records
	var leakage []processor.FareRecord
	for _, r := range records {
		if r.RevenueLeakage {
			leakage = append(leakage, r)
		}
	}

	heavy := strings.Repeat("=", reportWidth)
	divider := strings.Repeat("-", reportWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, heavy)
	fmt.Fprintln(w, "         BITRE AIR FARE AUDIT REPORT")
	fmt.Fprintln(w, "    Aviation Revenue Integrity Assessment")
	fmt.Fprintln(w, heavy)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[AUDIT SCOPE]")
	fmt.Fprintln(w, divider)
	if len(records) > 0 {
		fmt.Fprintf(w, "  Period covered:          %s to %s\n",
			records[0].MonthKey(), records[len(records)-1].MonthKey())
	}
	fmt.Fprintf(w, "  Observations analysed:   %d months\n", len(records))
	indices := processor.ColBusiness + ", " + processor.ColEconomy
	if table.HasDiscount {
		indices += ", " + processor.ColBestDiscount
	}
	fmt.Fprintf(w, "  Indices reviewed:        %s\n", indices)
	fmt.Fprintln(w, "  Methodology:             Month-on-Month % change analysis with")
	fmt.Fprintln(w, "                           REVENUE_LEAKAGE flag (Economy drop >10%,")
	fmt.Fprintln(w, "                           Business stable -3% to +3%)")
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[KEY FINDINGS]")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "  REVENUE_LEAKAGE events:  %d\n", len(leakage))
	fmt.Fprintln(w, divider)

	if len(leakage) > 0 {
		for _, r := range leakage {
			label := "REVENUE_LEAKAGE"
			if r.MonthKey() == "2011-06" {
				label = "High Priority Anomaly"
			}
			fmt.Fprintf(w, "  %s  |  %s\n", r.MonthKey(), label)
			fmt.Fprintf(w, "       Economy MoM: %+.2f%%  |  Business MoM: %+.2f%%\n",
				*r.EconomyMoM, *r.BusinessMoM)
			if r.OfficialNote != "" {
				fmt.Fprintf(w, "       Note: %s\n", r.OfficialNote)
			}
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintln(w, "  No REVENUE_LEAKAGE events detected in the audit period.")
	}
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)

	var noted []processor.FareRecord
	for _, r := range records {
		if r.OfficialNote != "" {
			noted = append(noted, r)
		}
	}
	if len(noted) > 0 {
		fmt.Fprintln(w, "[HISTORICAL CONTEXT]")
		fmt.Fprintln(w, divider)
		for _, r := range noted {
			fmt.Fprintf(w, "  %s:\n", r.MonthKey())
			fmt.Fprintf(w, "       %s\n", r.OfficialNote)
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, divider)
		fmt.Fprintln(w)
	}
}
