package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FareAudit/src/config"
	"FareAudit/src/datasource/file"
	"FareAudit/src/storage"
)

func testConfig(t *testing.T) (*config.Config, *storage.Logger) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.OutputHTML = filepath.Join(dir, "trend_analysis.html")
	cfg.OutputWorkbook = filepath.Join(dir, "audit_table.xlsx")
	cfg.LogName = filepath.Join(dir, "app.log")
	require.NoError(t, os.Mkdir(cfg.DataDir, 0755))

	logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxBytes)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return cfg, logger
}

func TestRunEndToEnd(t *testing.T) {
	cfg, logger := testConfig(t)
	csv := "Month,Real Business Class,Real Restricted Economy,Real Best Discount\n" +
		"2020-02,118,92,60\n" +
		"2020-03,119,91,59\n" +
		"2020-04,120,60,40\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "air_fares_2020.csv"), []byte(csv), 0644))

	dcfg := config.DefaultDataConfig()
	var out bytes.Buffer
	require.NoError(t, run(cfg, dcfg, logger, &out))

	report := out.String()
	assert.Contains(t, report, "BITRE AIR FARE AUDIT REPORT")
	assert.Contains(t, report, "Period covered:          2020-02 to 2020-04")
	assert.Contains(t, report, "REVENUE_LEAKAGE events:  1")
	assert.Contains(t, report, "2020-04  |  REVENUE_LEAKAGE")
	assert.Contains(t, report, "COVID-19 Impact")

	html, err := os.ReadFile(cfg.OutputHTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Corporate Yield Audit")

	_, err = os.Stat(cfg.OutputWorkbook)
	require.NoError(t, err)

	logRaw, err := os.ReadFile(cfg.LogName)
	require.NoError(t, err)
	assert.Contains(t, string(logRaw), "Revenue leakage events flagged: 1")
}

func TestRunNoInputFile(t *testing.T) {
	cfg, logger := testConfig(t)

	var out bytes.Buffer
	err := run(cfg, config.DefaultDataConfig(), logger, &out)

	var notFound *file.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, out.String(), "no report is written on a fatal error")
}

func TestRunWorkbookDisabled(t *testing.T) {
	cfg, logger := testConfig(t)
	cfg.OutputWorkbook = ""
	csv := "Month,Real Business Class,Real Restricted Economy\n2019-01,100,90\n2019-02,101,91\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "air_fares.csv"), []byte(csv), 0644))

	var out bytes.Buffer
	require.NoError(t, run(cfg, config.DefaultDataConfig(), logger, &out))

	assert.Contains(t, out.String(), "No REVENUE_LEAKAGE events detected")
}
