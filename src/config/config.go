package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config defines the application configuration.
type Config struct {
	DataDir        string `json:"data_dir"`        // directory searched for air_fares* files
	OutputHTML     string `json:"output_html"`     // chart output path
	OutputWorkbook string `json:"output_workbook"` // normalized-table export path, empty disables
	LogName        string `json:"log_name"`
	LogMaxBytes    int64  `json:"log_max_bytes"`

	Audit AuditConfig `json:"audit"`
}

// AuditConfig holds the tunable audit heuristics.
type AuditConfig struct {
	EconomyDropPct    float64 `json:"economy_drop_pct"`    // leakage when Economy MoM falls below this
	BusinessStablePct float64 `json:"business_stable_pct"` // leakage only while |Business MoM| stays within this
	MaxHeaderScan     int     `json:"max_header_scan"`     // candidate header-row offsets tried for CSV input
}

// DataConfig holds the curated historical-context table, keyed by "YYYY-MM".
type DataConfig struct {
	HistoricalContext map[string]string `json:"historical_context"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "./data",
		OutputHTML:     "trend_analysis.html",
		OutputWorkbook: "audit_table.xlsx",
		LogName:        "app.log",
		LogMaxBytes:    10 * 1024 * 1024,
		Audit: AuditConfig{
			EconomyDropPct:    -10,
			BusinessStablePct: 3,
			MaxHeaderScan:     5,
		},
	}
}

// DefaultDataConfig returns the built-in historical-context table.
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		HistoricalContext: map[string]string{
			"2011-06": "Structural Change: Virgin & Jetstar introduced simplified, lower-cost Flexi fare structures; Qantas followed with competitive price cuts.",
			"2012-01": "Market Shift: Virgin Australia expanded Business Class; Full Economy index rose as Premium Economy was removed.",
			"2015-03": "Methodology Change: Qantas discontinued Full Economy fares; index tracking for this category ceased.",
			"2017-11": "Product Redefinition: Jetstar changed refund rules to vouchers, removing its product from the BITRE Restricted Economy definition.",
			"2020-04": "COVID-19 Impact: Massive reduction in services; indices based on limited available routes.",
		},
	}
}

// LoadConfig loads both configuration files once per process. Missing files
// fall back to the compiled-in defaults so the tool runs with zero setup.
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configData, err := readOptionalFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	dataConfigData, err := readOptionalFile(filepath.Join(jsonFolder, dataJsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

// readOptionalFile returns nil data, nil error when the file does not exist.
func readOptionalFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, cfg); err != nil {
			errChan <- fmt.Errorf("failed to parse Config: %w", err)
			return
		}
	}
	applyDefaults(cfg)
	resultChan <- cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultDataConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, dcfg); err != nil {
			errChan <- fmt.Errorf("failed to parse DataConfig: %w", err)
			return
		}
	}
	if dcfg.HistoricalContext == nil {
		dcfg.HistoricalContext = map[string]string{}
	}
	resultChan <- dcfg
}

// applyDefaults fills fields a partial config file left at zero values.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.OutputHTML == "" {
		cfg.OutputHTML = def.OutputHTML
	}
	if cfg.LogName == "" {
		cfg.LogName = def.LogName
	}
	if cfg.LogMaxBytes <= 0 {
		cfg.LogMaxBytes = def.LogMaxBytes
	}
	if cfg.Audit.EconomyDropPct == 0 {
		cfg.Audit.EconomyDropPct = def.Audit.EconomyDropPct
	}
	if cfg.Audit.BusinessStablePct == 0 {
		cfg.Audit.BusinessStablePct = def.Audit.BusinessStablePct
	}
	if cfg.Audit.MaxHeaderScan <= 0 {
		cfg.Audit.MaxHeaderScan = def.Audit.MaxHeaderScan
	}
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}
	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("configuration only partially loaded")
	}
	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}
