// chart.go
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"FareAudit/src/processor"
)

const (
	colorBusiness = "RoyalBlue"
	colorEconomy  = "Coral"
	colorDiscount = "ForestGreen"
	colorLeakage  = "red"
)

// BuildChart renders the two-panel trend chart as a self-contained HTML
// document: business and economy indices with leakage markers on top,
// economy and best-discount indices below. Tooltips show the index values
// and any official note for the hovered month.
func BuildChart(table *processor.FareTable, path string) error {
	months := make([]string, len(table.Records))
	notes := make(map[string]string, len(table.Records))
	for i, r := range table.Records {
		months[i] = r.MonthKey()
		if r.OfficialNote != "" {
			notes[r.MonthKey()] = r.OfficialNote
		}
	}

	formatter, err := tooltipFormatter(notes)
	if err != nil {
		return err
	}

	top := newPanel("Corporate Yield Audit", formatter)
	top.SetXAxis(months).
		AddSeries(processor.ColBusiness, lineData(table.Records, func(r processor.FareRecord) *float64 { return r.Business }),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorBusiness, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBusiness})).
		AddSeries(processor.ColEconomy, lineData(table.Records, func(r processor.FareRecord) *float64 { return r.Economy }),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorEconomy, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorEconomy}))

	markers := charts.NewScatter()
	markers.SetXAxis(months).
		AddSeries("REVENUE_LEAKAGE", leakageData(table.Records),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorLeakage}))
	top.Overlap(markers)

	bottom := newPanel("Market Competition Audit", formatter)
	bottom.SetXAxis(months).
		AddSeries(processor.ColEconomy, lineData(table.Records, func(r processor.FareRecord) *float64 { return r.Economy }),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorEconomy, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorEconomy}))
	if table.HasDiscount {
		bottom.AddSeries(processor.ColBestDiscount, lineData(table.Records, func(r processor.FareRecord) *float64 { return r.BestDiscount }),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorDiscount, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorDiscount}))
	}

	page := components.NewPage()
	page.PageTitle = "Australian Domestic Aviation: Fare Index Trend & Revenue Leakage Audit"
	page.SetLayout(components.PageCenterLayout)
	page.AddCharts(top, bottom)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newPanel(title string, formatter types.FuncStr) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1180px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis", Formatter: formatter}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Audit Timeline"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Fare Index (Real)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	return line
}

// tooltipFormatter builds the shared tooltip callback with the official
// notes embedded, so hovering an annotated month shows its note.
func tooltipFormatter(notes map[string]string) (types.FuncStr, error) {
	payload, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("failed to encode notes: %w", err)
	}
	fn := fmt.Sprintf(`function (params) {
		var notes = %s;
		var lines = [params[0].axisValue];
		params.forEach(function (p) {
			if (p.value !== null && p.value !== undefined) {
				lines.push(p.marker + ' ' + p.seriesName + ': ' + Number(p.value).toFixed(2));
			}
		});
		var note = notes[params[0].axisValue];
		if (note) {
			lines.push('Note: ' + note);
		}
		return lines.join('<br/>');
	}`, payload)
	return opts.FuncOpts(fn), nil
}

func lineData(records []processor.FareRecord, value func(processor.FareRecord) *float64) []opts.LineData {
	data := make([]opts.LineData, len(records))
	for i, r := range records {
		if v := value(r); v != nil {
			data[i] = opts.LineData{Value: *v}
		} else {
			data[i] = opts.LineData{Value: nil} // keep the gap visible
		}
	}
	return data
}

// leakageData marks flagged months on the economy line; all other points
// stay empty so only anomalies render.
func leakageData(records []processor.FareRecord) []opts.ScatterData {
	data := make([]opts.ScatterData, len(records))
	for i, r := range records {
		if r.RevenueLeakage && r.Economy != nil {
			data[i] = opts.ScatterData{Value: *r.Economy, Symbol: "diamond", SymbolSize: 12}
		} else {
			data[i] = opts.ScatterData{Value: nil}
		}
	}
	return data
}
