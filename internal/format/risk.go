// Package format holds the pure display helpers shared by the orchestrators,
// the gauge renderer and the HTTP layer. Nothing here has state or imports
// from internal/.
package format

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ─── LEVELS ───────────────────────────────────────────────────────────────────

// Level is a normalized risk level. The predictor may answer "HIGH", "High"
// or "high"; NormalizeLevel maps all of them to LevelHigh.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Gauge and badge colors.
const (
	colorHigh    = "#f44336"
	colorMedium  = "#ff9800"
	colorLow     = "#4caf50"
	colorUnknown = "#9e9e9e"

	// NeutralColor fills the unfilled remainder of the gauge.
	NeutralColor = "#e0e0e0"
)

// NormalizeLevel maps a raw level case-insensitively onto one of the known
// levels. Unrecognised input is returned trimmed and title-cased so it can
// still be displayed, but RiskColor will treat it as unknown.
func NormalizeLevel(raw string) Level {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "high":
		return LevelHigh
	case "medium":
		return LevelMedium
	case "low":
		return LevelLow
	case "":
		return ""
	default:
		r, n := utf8.DecodeRuneInString(s)
		return Level(string(unicode.ToUpper(r)) + s[n:])
	}
}

// RiskColor returns the display color for level, or a neutral grey when the
// level is not one of high/medium/low.
func RiskColor(level string) string {
	switch NormalizeLevel(level) {
	case LevelHigh:
		return colorHigh
	case LevelMedium:
		return colorMedium
	case LevelLow:
		return colorLow
	default:
		return colorUnknown
	}
}

// RiskLabel renders "<Level> Risk", or "Risk Unknown" when level is absent.
func RiskLabel(level string) string {
	l := NormalizeLevel(level)
	if l == "" {
		return "Risk Unknown"
	}
	return string(l) + " Risk"
}

// Percent converts a probability to a whole percentage clamped to [0, 100].
// Out-of-range probabilities are clamped rather than rejected: 1.2 → 100,
// -0.1 → 0. NaN is treated as 0.
func Percent(probability float64) int {
	if math.IsNaN(probability) {
		return 0
	}
	return clamp(int(math.Round(probability*100)), 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
