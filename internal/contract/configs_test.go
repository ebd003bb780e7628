package contract

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input as it looks after viper applied its defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		SprintsFile:    "team.csv",
		Simulations:    DefaultSimulations,
		ForecastSize:   DefaultForecastSize,
		Confidence:     DefaultConfidenceLevel,
		MinSprints:     DefaultMinSprints,
		Workers:        4,
		Output:         "text",
		Color:          "yes",
		CacheBackend:   string(schema.SQLiteBackend),
		MinProbability: DefaultMinProbability,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero simulations", mutate: func(in *ConfigRawInput) { in.Simulations = 0 }, expectError: true},
		{name: "too many simulations", mutate: func(in *ConfigRawInput) { in.Simulations = MaxSimulations + 1 }, expectError: true},
		{name: "zero forecast size", mutate: func(in *ConfigRawInput) { in.ForecastSize = 0 }, expectError: true},
		{name: "confidence of one", mutate: func(in *ConfigRawInput) { in.Confidence = 1 }, expectError: true},
		{name: "confidence as percent", mutate: func(in *ConfigRawInput) { in.Confidence = 97 }, expectError: true},
		{name: "confidence not a number", mutate: func(in *ConfigRawInput) { in.Confidence = math.NaN() }, expectError: true},
		{name: "negative min sprints", mutate: func(in *ConfigRawInput) { in.MinSprints = -1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "invalid output format", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid seed", mutate: func(in *ConfigRawInput) { in.Seed = "-3" }, expectError: true},
		{name: "seed above int64 range", mutate: func(in *ConfigRawInput) { in.Seed = "9223372036854775808" }, expectError: true},
		{name: "invalid deadline", mutate: func(in *ConfigRawInput) { in.Deadline = "03/01/2024" }, expectError: true},
		{name: "min probability above one", mutate: func(in *ConfigRawInput) { in.MinProbability = 1.5 }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{
			name:        "mysql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name:        "postgresql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/sprintcast"
			},
		},
		{name: "none backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = string(schema.NoneBackend) }},
		{name: "invalid history backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "csv" }, expectError: true},
		{
			name: "cache and history share a sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.SQLiteBackend)
				in.CacheDBConnect = "/tmp/shared.db"
				in.HistoryDBConnect = "/tmp/shared.db"
			},
			expectError: true,
		},
		{
			name:   "cache and history default sqlite files",
			mutate: func(in *ConfigRawInput) { in.HistoryBackend = string(schema.SQLiteBackend) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
				return
			}
			require.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
			assert.Equal(t, input.Simulations, cfg.Simulations)
			assert.Equal(t, input.ForecastSize, cfg.ForecastSize)
			assert.Equal(t, schema.OutputMode(input.Output), cfg.Output)
		})
	}
}

func TestProcessAndValidateSeed(t *testing.T) {
	t.Run("unseeded", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.False(t, cfg.Seeded)
		assert.Zero(t, cfg.Seed)
	})

	t.Run("explicit seed", func(t *testing.T) {
		input := validInput()
		input.Seed = " 9223372036854775807 "
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.True(t, cfg.Seeded)
		assert.Equal(t, uint64(math.MaxInt64), cfg.Seed)
	})

	t.Run("seed too large to store", func(t *testing.T) {
		input := validInput()
		input.Seed = "18446744073709551615"
		err := ProcessAndValidate(&Config{}, input)
		assert.ErrorContains(t, err, "must be at most 9223372036854775807")
	})

	t.Run("explicit zero seed still counts", func(t *testing.T) {
		input := validInput()
		input.Seed = "0"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.True(t, cfg.Seeded)
	})
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.SprintsFile = "  "
	input.CacheBackend = ""
	input.Output = "JSON"
	input.Deadline = "2024-03-01"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, DefaultSprintsFile, cfg.SprintsFile)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.DatabaseBackend(""), cfg.HistoryBackend)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cfg.Deadline)
	assert.True(t, cfg.UseColors)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{
		SprintsFile:     "team.csv",
		Simulations:     500,
		ForecastSize:    20,
		ConfidenceLevel: 0.9,
		MinSprints:      3,
		Seed:            7,
		Seeded:          true,
		Workers:         2,
	}

	params := cfg.Params()
	assert.Equal(t, schema.ForecastParams{
		Simulations:     500,
		ForecastSize:    20,
		ConfidenceLevel: 0.9,
		MinSprints:      3,
		Seed:            7,
		Workers:         2,
	}, params)

	m := cfg.ParamsMap()
	assert.Equal(t, 500, m["simulations"])
	assert.Equal(t, true, m["seeded"])
	assert.NotContains(t, m, "deadline")

	cfg.Deadline = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	cfg.MinProbability = 0.8
	m = cfg.ParamsMap()
	assert.Equal(t, "2024-06-30", m["deadline"])
	assert.Equal(t, 0.8, m["min_probability"])
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Simulations: 100, SprintsFile: "a.csv"}
	clone := cfg.Clone()
	clone.Simulations = 200
	assert.Equal(t, 100, cfg.Simulations)
	assert.Equal(t, "a.csv", clone.SprintsFile)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite ignores string", schema.SQLiteBackend, "", false},
		{"none ignores string", schema.NoneBackend, "anything", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@127.0.0.1/db", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=sc user=u", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=sc", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateForecast(t *testing.T) {
	base := &Config{}
	require.NoError(t, ProcessAndValidate(base, validInput()))

	t.Run("keeps existing seed and deadline", func(t *testing.T) {
		cfg := base.Clone()
		cfg.Seed, cfg.Seeded = 9, true
		cfg.Deadline = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		require.NoError(t, RevalidateForecast(cfg, "", ""))
		assert.Equal(t, uint64(9), cfg.Seed)
		assert.True(t, cfg.Seeded)
		assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), cfg.Deadline)
	})

	t.Run("applies overrides", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateForecast(cfg, "77", "2025-01-31"))
		assert.Equal(t, uint64(77), cfg.Seed)
		assert.True(t, cfg.Seeded)
		assert.Equal(t, "2025-01-31", cfg.Deadline.Format(schema.DateLayout))
	})

	t.Run("rejects bad values", func(t *testing.T) {
		cfg := base.Clone()
		cfg.ForecastSize = 0
		assert.ErrorContains(t, RevalidateForecast(cfg, "", ""), "forecast-size")

		cfg = base.Clone()
		assert.ErrorContains(t, RevalidateForecast(cfg, "-1", ""), "--seed")

		cfg = base.Clone()
		assert.ErrorContains(t, RevalidateForecast(cfg, "", "31/01/2025"), "deadline")

		cfg = base.Clone()
		assert.ErrorContains(t, RevalidateForecast(cfg, "9223372036854775808", ""), "--seed")

		cfg = base.Clone()
		cfg.ConfidenceLevel = math.NaN()
		assert.ErrorContains(t, RevalidateForecast(cfg, "", ""), "confidence")
	})
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "run"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "run", profile.Prefix)
}
