package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Rate label constants.
const (
	StrongValue   = "Strong"   // Strong rate
	HealthyValue  = "Healthy"  // Healthy rate
	WatchValue    = "Watch"    // Rate worth watching
	LowValue      = "Low"      // Low rate
	NoneValue     = "-"        // No data
	storeDBName   = ".hirefunnel.db"
	cacheDBName   = ".hirefunnel_cache.db"
	rateHighMark  = 70.0
	rateMidMark   = 50.0
	rateWatchMark = 30.0
)

// Color variables for console output.
var (
	StrongColor  = color.New(color.FgGreen, color.Bold)
	HealthyColor = color.New(color.FgCyan)
	WatchColor   = color.New(color.FgYellow)
	LowColor     = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for a percentage rate. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(rate float64) string {
	switch {
	case math.IsNaN(rate):
		return NoneValue
	case rate >= rateHighMark:
		return StrongValue
	case rate >= rateMidMark:
		return HealthyValue
	case rate >= rateWatchMark:
		return WatchValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(rate float64) string {
	text := GetPlainLabel(rate)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case HealthyValue:
		return HealthyColor.Sprint(text)
	case WatchValue:
		return WatchColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	default:
		return text
	}
}

// GetLabel picks the colored or plain label depending on useColors.
func GetLabel(rate float64, useColors bool) string {
	if useColors {
		return GetColorLabel(rate)
	}
	return GetPlainLabel(rate)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
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

// GetStoreDBFilePath returns the path to the SQLite DB file for the event store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return storeDBName
	}
	return filepath.Join(homeDir, storeDBName)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the metric cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cacheDBName
	}
	return filepath.Join(homeDir, cacheDBName)
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// RoundTo rounds v to the given number of decimal places, half away from zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return RoundTo(float64(part)/float64(whole)*100, 1)
}
