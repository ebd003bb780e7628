package contract

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sprintcast/schema"
)

// Default values for configuration.
const (
	DefaultSimulations     = 10000
	DefaultForecastSize    = 100
	DefaultConfidenceLevel = 0.97
	DefaultMinSprints      = 2
	DefaultMinProbability  = 0.85
	DefaultSprintsFile     = "sprints.csv"
	MaxSimulations         = 10_000_000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a forecast.
// This struct remains the "final, validated" config.
type Config struct {
	SprintsFile string

	Simulations     int
	ForecastSize    int
	ConfidenceLevel float64
	MinSprints      int
	Seed            uint64
	Seeded          bool // True when the seed came from the user rather than crypto/rand
	Workers         int

	Deadline       time.Time
	MinProbability float64

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	SprintsFile      string  `mapstructure:"sprints-file"`
	Simulations      int     `mapstructure:"simulations"`
	ForecastSize     int     `mapstructure:"forecast-size"`
	Confidence       float64 `mapstructure:"confidence"`
	MinSprints       int     `mapstructure:"min-sprints"`
	Seed             string  `mapstructure:"seed"`
	Workers          int     `mapstructure:"workers"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`

	// --- Fields from checkCmd.Flags() ---
	Deadline       string  `mapstructure:"deadline"`
	MinProbability float64 `mapstructure:"min-probability"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Params returns the simulation knobs for the core forecaster.
func (c *Config) Params() schema.ForecastParams {
	return schema.ForecastParams{
		Simulations:     c.Simulations,
		ForecastSize:    c.ForecastSize,
		ConfidenceLevel: c.ConfidenceLevel,
		MinSprints:      c.MinSprints,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}

// ParamsMap returns the config values worth recording alongside a forecast run.
func (c *Config) ParamsMap() map[string]any {
	params := map[string]any{
		"sprints_file":     c.SprintsFile,
		"simulations":      c.Simulations,
		"forecast_size":    c.ForecastSize,
		"confidence_level": c.ConfidenceLevel,
		"min_sprints":      c.MinSprints,
		"seed":             c.Seed,
		"seeded":           c.Seeded,
		"workers":          c.Workers,
	}
	if !c.Deadline.IsZero() {
		params["deadline"] = c.Deadline.Format(schema.DateLayout)
		params["min_probability"] = c.MinProbability
	}
	return params
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processForecastParams(cfg, input); err != nil {
		return err
	}
	if err := processDeadline(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RevalidateForecast re-runs the forecast and deadline validation after a caller
// has overridden fields of an already validated config. Empty seed and deadline
// strings keep the values already present in cfg.
func RevalidateForecast(cfg *Config, seedStr, deadlineStr string) error {
	input := &ConfigRawInput{
		Simulations:    cfg.Simulations,
		ForecastSize:   cfg.ForecastSize,
		Confidence:     cfg.ConfidenceLevel,
		MinSprints:     cfg.MinSprints,
		Seed:           seedStr,
		Deadline:       deadlineStr,
		MinProbability: cfg.MinProbability,
	}
	if input.Seed == "" && cfg.Seeded {
		input.Seed = strconv.FormatUint(cfg.Seed, 10)
	}
	if input.Deadline == "" && !cfg.Deadline.IsZero() {
		input.Deadline = cfg.Deadline.Format(schema.DateLayout)
	}

	if err := processForecastParams(cfg, input); err != nil {
		return err
	}
	return processDeadline(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if filepath.Clean(cachePath) == filepath.Clean(historyPath) {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SprintsFile = strings.TrimSpace(input.SprintsFile)
	if cfg.SprintsFile == "" {
		cfg.SprintsFile = DefaultSprintsFile
	}
	cfg.OutputFile = input.OutputFile

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	return nil
}

// processForecastParams validates the simulation knobs and the optional seed.
func processForecastParams(cfg *Config, input *ConfigRawInput) error {
	if input.Simulations < 1 || input.Simulations > MaxSimulations {
		return fmt.Errorf("simulations must be between 1 and %d (received %d)", MaxSimulations, input.Simulations)
	}
	cfg.Simulations = input.Simulations

	if input.ForecastSize < 1 {
		return fmt.Errorf("forecast-size must be at least 1 (received %d)", input.ForecastSize)
	}
	cfg.ForecastSize = input.ForecastSize

	if math.IsNaN(input.Confidence) || input.Confidence <= 0 || input.Confidence >= 1 {
		return fmt.Errorf("confidence must be strictly between 0 and 1 (received %v)", input.Confidence)
	}
	cfg.ConfidenceLevel = input.Confidence

	if input.MinSprints < 0 {
		return fmt.Errorf("min-sprints cannot be negative (received %d)", input.MinSprints)
	}
	cfg.MinSprints = input.MinSprints

	seedStr := strings.TrimSpace(input.Seed)
	if seedStr == "" {
		cfg.Seed = 0
		cfg.Seeded = false
		return nil
	}
	seed, err := strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid --seed value '%s': %w", input.Seed, err)
	}
	// Seeds are stored in signed 64-bit columns
	if seed > math.MaxInt64 {
		return fmt.Errorf("invalid --seed value '%s': must be at most %d", input.Seed, int64(math.MaxInt64))
	}
	cfg.Seed = seed
	cfg.Seeded = true
	return nil
}

// processDeadline parses the optional deadline used by the check command.
func processDeadline(cfg *Config, input *ConfigRawInput) error {
	cfg.Deadline = time.Time{}
	if input.Deadline != "" {
		t, err := time.Parse(schema.DateLayout, strings.TrimSpace(input.Deadline))
		if err != nil {
			return fmt.Errorf("invalid deadline '%s'. expected YYYY-MM-DD", input.Deadline)
		}
		cfg.Deadline = t
	}

	if input.MinProbability < 0 || input.MinProbability > 1 {
		return fmt.Errorf("min-probability must be between 0 and 1 (received %v)", input.MinProbability)
	}
	cfg.MinProbability = input.MinProbability
	return nil
}
