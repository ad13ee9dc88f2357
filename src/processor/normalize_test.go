package processor

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeDF builds a string-typed DataFrame from a header row plus data rows.
func makeDF(rows [][]string) dataframe.DataFrame {
	headers := rows[0]
	columns := make([][]string, len(headers))
	for i := range columns {
		for _, row := range rows[1:] {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			columns[i] = append(columns[i], v)
		}
	}
	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New(columns[i], series.String, name)
	}
	return dataframe.New(seriesList...)
}

func TestNormalizeCanonicalHeaders(t *testing.T) {
	df := makeDF([][]string{
		{ColMonth, ColBusiness, ColEconomy, ColBestDiscount},
		{"1992-01", "100", "90", "80"},
		{"1992-02", "n.a.", "85", "-"},
	})

	table, err := Normalize(df)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.True(t, table.HasDiscount)

	first := table.Records[0]
	assert.Equal(t, "1992-01", first.MonthKey())
	require.NotNil(t, first.Business)
	assert.InDelta(t, 100, *first.Business, 1e-9)
	require.NotNil(t, first.BestDiscount)
	assert.InDelta(t, 80, *first.BestDiscount, 1e-9)

	// Non-numeric tokens degrade to nil, the row itself survives.
	second := table.Records[1]
	assert.Nil(t, second.Business)
	require.NotNil(t, second.Economy)
	assert.InDelta(t, 85, *second.Economy, 1e-9)
	assert.Nil(t, second.BestDiscount)
}

func TestNormalizeKeywordHeaders(t *testing.T) {
	df := makeDF([][]string{
		{ColMonth, "Restricted Economy (real terms)", "Business Class (real terms)", "Best Discount (real terms)"},
		{"2005-07", "70", "110", "55"},
	})

	table, err := Normalize(df)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)

	rec := table.Records[0]
	require.NotNil(t, rec.Business)
	assert.InDelta(t, 110, *rec.Business, 1e-9, "business keyword must skip the restricted column")
	require.NotNil(t, rec.Economy)
	assert.InDelta(t, 70, *rec.Economy, 1e-9)
	require.NotNil(t, rec.BestDiscount)
	assert.InDelta(t, 55, *rec.BestDiscount, 1e-9)
}

func TestNormalizePositionalFallback(t *testing.T) {
	// Unrecognizable headers but the standard BITRE column order:
	// business in column 2, economy in column 6, discount in column 8.
	df := makeDF([][]string{
		{ColMonth, "A", "B", "C", "D", "E", "F", "G"},
		{"2010-03", "111", "1", "2", "3", "66", "4", "88"},
	})

	table, err := Normalize(df)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.True(t, table.HasDiscount)

	rec := table.Records[0]
	require.NotNil(t, rec.Business)
	assert.InDelta(t, 111, *rec.Business, 1e-9)
	require.NotNil(t, rec.Economy)
	assert.InDelta(t, 66, *rec.Economy, 1e-9)
	require.NotNil(t, rec.BestDiscount)
	assert.InDelta(t, 88, *rec.BestDiscount, 1e-9)
}

func TestNormalizeSchemaError(t *testing.T) {
	df := makeDF([][]string{
		{ColMonth, "Remarks"},
		{"2010-03", "n.a."},
	})

	_, err := Normalize(df)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Available, ColMonth)
	assert.Contains(t, schemaErr.Available, "Remarks")
	assert.Contains(t, err.Error(), "Remarks")
}

func TestNormalizeDropsUnusableRows(t *testing.T) {
	df := makeDF([][]string{
		{ColMonth, ColBusiness, ColEconomy},
		{"1999-10", "100", "90"},
		{"Source: BITRE", "100", "90"}, // month unparseable
		{"1999-11", "n.a.", "-"},       // both indices missing
		{"", "", ""},
	})

	table, err := Normalize(df)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "1999-10", table.Records[0].MonthKey())
}

func TestNormalizeSortsAndDedupes(t *testing.T) {
	df := makeDF([][]string{
		{ColMonth, ColBusiness, ColEconomy},
		{"2001-03", "103", "93"},
		{"2001-01", "101", "91"},
		{"2001-02", "102", "92"},
		{"2001-01", "999", "999"}, // duplicate month, first wins
	})

	table, err := Normalize(df)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)

	var prev time.Time
	for i, r := range table.Records {
		if i > 0 {
			assert.True(t, r.Month.After(prev), "months must be strictly increasing")
		}
		prev = r.Month
	}
	require.NotNil(t, table.Records[0].Business)
	assert.InDelta(t, 101, *table.Records[0].Business, 1e-9)
}

func TestNormalizeMissingMonthColumn(t *testing.T) {
	df := makeDF([][]string{
		{"Period", ColBusiness, ColEconomy},
		{"2001-03", "103", "93"},
	})

	_, err := Normalize(df)

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1992-01", "1992-01", true},
		{"1992-01-15", "1992-01", true},
		{"Jan-1995", "1995-01", true},
		{"Jan-98", "1998-01", true},
		{"July 2003", "2003-07", true},
		{"02/07/2011", "2011-07", true},
		{"34394", "1994-03", true}, // Excel serial for 1994-03-01
		{"  2020-04  ", "2020-04", true},
		{"12", "", false}, // serial below the 1900-03-01 cutoff
		{"", "", false},
		{"Source: BITRE", "", false},
		{"n.a.", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseMonth(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got.Format(MonthKeyFormat))
				assert.Equal(t, 1, got.Day(), "months normalize to their first day")
			}
		})
	}
}

func TestResolveColumnPriority(t *testing.T) {
	// The exact canonical name wins over a keyword match elsewhere.
	names := []string{ColMonth, "Business fares (indicative)", ColBusiness}
	got, ok := resolveColumn(names, businessRules)
	require.True(t, ok)
	assert.Equal(t, ColBusiness, got)

	// Keyword beats position.
	names = []string{ColMonth, "Filler", "Flexible Business fare"}
	got, ok = resolveColumn(names, businessRules)
	require.True(t, ok)
	assert.Equal(t, "Flexible Business fare", got)

	// Nothing matches and the table is too narrow for the position rule.
	_, ok = resolveColumn([]string{ColMonth}, businessRules)
	assert.False(t, ok)
}
