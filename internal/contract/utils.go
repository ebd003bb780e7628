package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Delivery likelihood label constants.
const (
	LikelyValue   = "Likely"   // Likely value
	PossibleValue = "Possible" // Possible value
	AtRiskValue   = "At Risk"  // At risk value
	UnlikelyValue = "Unlikely" // Unlikely value
)

// Color variables for console output.
var (
	LikelyColor   = color.New(color.FgGreen, color.Bold)   // LikelyColor represents a comfortable margin.
	PossibleColor = color.New(color.FgCyan)                // PossibleColor represents a coin flip leaning our way.
	AtRiskColor   = color.New(color.FgYellow)              // AtRiskColor represents standard caution, not bold.
	UnlikelyColor = color.New(color.FgRed, color.Bold)     // UnlikelyColor represents standard danger.
	HeaderColor   = color.New(color.FgMagenta, color.Bold) // HeaderColor highlights section headers.
)

// GetPlainLabel returns a plain text label describing how likely delivery is
// given the probability of finishing by a deadline. This is the core logic used
// for CSV, JSON, and table printing.
func GetPlainLabel(probability float64) string {
	switch {
	case probability >= 0.85:
		return LikelyValue
	case probability >= 0.5:
		return PossibleValue
	case probability >= 0.15:
		return AtRiskValue
	default:
		return UnlikelyValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(probability float64) string {
	text := GetPlainLabel(probability)

	switch text {
	case LikelyValue:
		return LikelyColor.Sprint(text)
	case PossibleValue:
		return PossibleColor.Sprint(text)
	case AtRiskValue:
		return AtRiskColor.Sprint(text)
	default:
		return UnlikelyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the result cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintcast_cache.db"
	}
	return filepath.Join(homeDir, ".sprintcast_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for forecast history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintcast_history.db"
	}
	return filepath.Join(homeDir, ".sprintcast_history.db")
}

// TruncateText truncates a string to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
