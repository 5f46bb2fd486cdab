package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"idea-engine/models"
)

var (
	ErrInvalidTimeframe = errors.New("invalid timeframe")
	ErrInvalidMinScore  = errors.New("minScore must be a number")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
)

// Timeframe is a trend window in days. Zero means unbounded.
type Timeframe int

var namedTimeframes = map[string]Timeframe{
	"":        0,
	"all":     0,
	"7days":   7,
	"30days":  30,
	"90days":  90,
	"180days": 180,
	"1year":   365,
}

// ParseTimeframe accepts the named windows used by the dashboard and "<n>days".
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if tf, ok := namedTimeframes[s]; ok {
		return tf, nil
	}
	if n, ok := strings.CutSuffix(s, "days"); ok {
		days, err := strconv.Atoi(n)
		if err == nil && days > 0 {
			return Timeframe(days), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
}

// Trim keeps the points within the window ending at the newest point. Points whose month
// cannot be parsed are kept.
func (tf Timeframe) Trim(points []models.TrendPoint) []models.TrendPoint {
	if tf <= 0 || len(points) == 0 {
		return points
	}
	var newest time.Time
	for _, p := range points {
		if t, ok := models.ParseMonth(p.Month); ok && t.After(newest) {
			newest = t
		}
	}
	if newest.IsZero() {
		return points
	}
	cutoff := newest.AddDate(0, 0, -int(tf))
	out := make([]models.TrendPoint, 0, len(points))
	for _, p := range points {
		t, ok := models.ParseMonth(p.Month)
		if !ok || !t.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

// TopicFilter is the typed form of the /api/topics query string.
type TopicFilter struct {
	Category   string
	Search     string
	DeepSearch bool
	Timeframe  Timeframe
}

// NewTopicFilter validates raw query values.
func NewTopicFilter(category, search, timeframe, deepSearch string) (TopicFilter, error) {
	tf, err := ParseTimeframe(timeframe)
	if err != nil {
		return TopicFilter{}, err
	}
	deep, _ := strconv.ParseBool(deepSearch)
	return TopicFilter{
		Category:   normalizeCategory(category),
		Search:     cleanLine(search),
		DeepSearch: deep,
		Timeframe:  tf,
	}, nil
}

// ParseMinScore parses the opportunities threshold; empty means the default of 70.
func ParseMinScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMinScore, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinScore, s)
	}
	return v, nil
}

// ParseLimit parses a result limit and clamps it to [1, max].
func ParseLimit(s string, def, max int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, s)
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n, nil
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if strings.EqualFold(c, "all") {
		return ""
	}
	return c
}
