package reminders

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultIntervalHours is used when the frequency is empty or cannot be understood
const DefaultIntervalHours = 24

// Frequency is the interval between two doses as read from free text. It is
// never stored; it is parsed again every time reminders are generated.
type Frequency struct {
	Hours float64
	Err   error
}

// Valid reports whether the text was understood
func (f Frequency) Valid() bool {
	return f.Err == nil
}

// Interval returns Hours as a duration, with minute precision kept for
// fractional hours such as the 8h of "3 times a day"
func (f Frequency) Interval() time.Duration {
	return time.Duration(f.Hours * float64(time.Hour))
}

// FrequencyError describes why a frequency text was rejected
type FrequencyError struct {
	Text   string
	Reason string
}

func (e *FrequencyError) Error() string {
	return e.Reason
}

type frequencyRule struct {
	name  string
	match func(text string) (Frequency, bool)
}

var (
	everyHoursPattern = regexp.MustCompile(`(?:a\s+cada|every)\s+(\d+)\s*h`)
	timesADayPattern  = regexp.MustCompile(`(\d+)\s+(?:vezes\s+ao\s+dia|times\s+(?:a|per)\s+day)`)
	bareHoursPattern  = regexp.MustCompile(`^(\d+)\s*h?$`)
)

// frequencyRules are tried in order and the first match wins. Each rule gets
// the trimmed, lower-cased text; ParseFrequency puts the caller's text back
// on any FrequencyError.
var frequencyRules = []frequencyRule{
	{name: "empty", match: matchEmpty},
	{name: "every-n-hours", match: matchEveryHours},
	{name: "daily", match: matchDaily},
	{name: "times-a-day", match: matchTimesADay},
	{name: "bare-hours", match: matchBareHours},
}

// ParseFrequency turns a dosing frequency such as "A cada 12h", "daily" or
// "3 vezes ao dia" into an interval in hours. Text it cannot use yields the
// daily default together with an error.
func ParseFrequency(text string) Frequency {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range frequencyRules {
		if f, ok := rule.match(normalized); ok {
			var ferr *FrequencyError
			if errors.As(f.Err, &ferr) {
				ferr.Text = text
			}
			return f
		}
	}
	return Frequency{
		Hours: DefaultIntervalHours,
		Err: &FrequencyError{
			Text:   text,
			Reason: fmt.Sprintf("unrecognized frequency format: %s", text),
		},
	}
}

func matchEmpty(text string) (Frequency, bool) {
	if text != "" {
		return Frequency{}, false
	}
	return Frequency{Hours: DefaultIntervalHours}, true
}

func matchEveryHours(text string) (Frequency, bool) {
	m := everyHoursPattern.FindStringSubmatch(text)
	if m == nil {
		return Frequency{}, false
	}
	n, ok := boundedCount(m[1])
	if !ok {
		return invalid(text, fmt.Sprintf("invalid hours: %s", m[1])), true
	}
	return Frequency{Hours: float64(n)}, true
}

func matchDaily(text string) (Frequency, bool) {
	if strings.Contains(text, "diariamente") || strings.Contains(text, "daily") {
		return Frequency{Hours: DefaultIntervalHours}, true
	}
	return Frequency{}, false
}

func matchTimesADay(text string) (Frequency, bool) {
	m := timesADayPattern.FindStringSubmatch(text)
	if m == nil {
		return Frequency{}, false
	}
	n, ok := boundedCount(m[1])
	if !ok {
		return invalid(text, fmt.Sprintf("invalid count: %s", m[1])), true
	}
	return Frequency{Hours: 24 / float64(n)}, true
}

// matchBareHours only claims in-range numbers; "36" falls through to the
// unrecognized format error.
func matchBareHours(text string) (Frequency, bool) {
	m := bareHoursPattern.FindStringSubmatch(text)
	if m == nil {
		return Frequency{}, false
	}
	n, ok := boundedCount(m[1])
	if !ok {
		return Frequency{}, false
	}
	return Frequency{Hours: float64(n)}, true
}

// boundedCount parses a decimal in [1, 24]
func boundedCount(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

func invalid(text, reason string) Frequency {
	return Frequency{
		Hours: DefaultIntervalHours,
		Err:   &FrequencyError{Text: text, Reason: reason},
	}
}
