// Package main provides a performance benchmarking tool for the sprintcast CLI.
// It measures forecast and deadline check times across simulation counts,
// running each test multiple times, treating the first successful cached run as cold
// and averaging the rest as warm, and writes CSV output for documentation.
//
// Prerequisites:
// - sprintcast binary installed and available in PATH
// - A sprint history file (see 'sprintcast sprints init')
//
// Usage: go run benchmark/main.go [sprints-file]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Simulations int
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SprintsFile  string
	Timeout      time.Duration
	Workers      int
	NoCacheRuns  int
	CacheRuns    int
	Simulations  []int
	ForecastSize int
	Deadline     string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [sprints-file]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		SprintsFile:  os.Args[1],
		Timeout:      5 * time.Minute,
		Workers:      14,
		NoCacheRuns:  3,
		CacheRuns:    4,
		Simulations:  []int{10_000, 100_000, 1_000_000},
		ForecastSize: 100,
		Deadline:     time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("sprintcast", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the sprintcast binary and the sprint file exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("sprintcast"); err != nil {
		return fmt.Errorf("sprintcast binary not found in PATH")
	}
	if _, err := os.Stat(config.SprintsFile); err != nil {
		return fmt.Errorf("sprint file %s: %w", config.SprintsFile, err)
	}
	return nil
}

// runBenchmarks executes the forecast and check suites for every simulation count
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Simulations), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, sims := range config.Simulations {
		fmt.Printf("Benchmarking %d simulations\n", sims)
		results = append(results, runBenchmarkSuite(config, sims, "forecast"))
		results = append(results, runBenchmarkSuite(config, sims, "check", "--deadline", config.Deadline, "--min-probability", "0"))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, sims int, command string, extraArgs ...string) BenchmarkResult {
	fmt.Printf("Running %s with %d simulations\n", command, sims)

	// Phase 1: No-cache runs
	fmt.Printf("  No-cache phase (%d runs)\n", config.NoCacheRuns)
	noCacheAvg := "TIMEOUT"
	if times := runBenchmark(config, sims, command, extraArgs, "none", config.NoCacheRuns); len(times) > 0 {
		noCacheAvg = formatAverage(times)
	}

	// Phase 2: Cache runs; the first run fills the cache
	fmt.Printf("  Cache phase (%d runs)\n", config.CacheRuns)
	var coldTime float64
	warmAvg := "N/A"
	if times := runBenchmark(config, sims, command, extraArgs, "sqlite", config.CacheRuns); len(times) > 0 {
		coldTime = times[0]
		if len(times) > 1 {
			warmAvg = formatAverage(times[1:])
		}
	}

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Simulations: sims,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a sprintcast command numRuns times and returns the successful run times.
// Every run uses the same seed so cached runs can be served from the cache.
func runBenchmark(config BenchmarkConfig, sims int, command string, extraArgs []string, cacheBackend string, numRuns int) []float64 {
	args := []string{
		command,
		"--sprints-file", config.SprintsFile,
		"--simulations", strconv.Itoa(sims),
		"--forecast-size", strconv.Itoa(config.ForecastSize),
		"--workers", strconv.Itoa(config.Workers),
		"--seed", "1",
		"--cache-backend", cacheBackend,
		"--color", "no",
	}
	args = append(args, extraArgs...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "sprintcast", args...).CombinedOutput()
		elapsed := time.Since(start)
		timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil && !timedOut && isSuccess(output, command) {
			times = append(times, elapsed.Seconds())
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	completionPhrase := "Forecast completed in"
	if command == "check" {
		completionPhrase = "Check completed in"
	}

	return strings.Contains(outputStr, completionPhrase) && strings.Contains(outputStr, "workers")
}

func formatAverage(times []float64) string {
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/sprintcast_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"simulations", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		row := []string{strconv.Itoa(result.Simulations), result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "forecast", "Forecast:")
	printCommandSummary(results, "check", "Deadline Check:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-10d: No-cache: %s, Cold: %s, Warm: %s\n", result.Simulations, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
