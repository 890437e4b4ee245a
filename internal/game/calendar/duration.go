package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cory-johannsen/alchimist/internal/game/dice"
)

// ErrUnparseableDuration is returned for duration text none of the known
// patterns match. Callers fall back to their own default.
var ErrUnparseableDuration = errors.New("unparseable duration")

const (
	// SomeUnits is the count behind "einige <unit>".
	SomeUnits = 3
	// SeveralUnits is the count behind "mehrere <unit>".
	SeveralUnits = 5
	// MaxDurationDays bounds any resolved duration to 10000 years.
	MaxDurationDays = 10000 * DaysPerYear
)

// unitDays maps case-folded unit words to their length in days.
var unitDays = map[string]int{
	"tag": 1, "tage": 1, "tagen": 1, "tages": 1,
	"woche": 7, "wochen": 7,
	"monat": 30, "monate": 30, "monaten": 30, "monats": 30,
	"mond": 30, "monde": 30, "monden": 30, "mondes": 30,
	"quartal": 90, "quartale": 90, "quartalen": 90,
	"jahr": 365, "jahre": 365, "jahren": 365, "jahres": 365,
}

var amountWords = map[string]int{
	"ein": 1, "eine": 1, "einen": 1, "einem": 1, "einer": 1, "eines": 1,
	"zwei": 2, "drei": 3, "vier": 4, "fünf": 5, "sechs": 6,
	"sieben": 7, "acht": 8, "neun": 9, "zehn": 10, "elf": 11, "zwölf": 12,
}

var parenthetical = regexp.MustCompile(`\([^()]*\)`)

// Duration is a resolved span of days, or Unlimited.
type Duration struct {
	Days      int
	Unlimited bool
}

// Unlimited is the duration of things that never expire.
var Unlimited = Duration{Unlimited: true}

func (d Duration) String() string {
	if d.Unlimited {
		return "unbegrenzt"
	}
	return strconv.Itoa(d.Days) + " Tage"
}

// ResolveDuration turns shelf-life text into a day count. Dice amounts are
// rolled with src; "W3+1 Monate" is read as 1W3+1 months.
//
// Precondition: src must be non-nil when text may contain dice.
// Postcondition: Returns a Duration of at most MaxDurationDays, or an error
// wrapping ErrUnparseableDuration.
func ResolveDuration(text string, src dice.Source) (Duration, error) {
	s := fold.String(norm.NFC.String(text))
	s = strings.TrimSpace(parenthetical.ReplaceAllString(s, " "))
	if s == "ewig" || strings.Contains(s, "unbegrenzt") {
		return Unlimited, nil
	}

	words := strings.Fields(strings.NewReplacer(",", " ", ".", " ").Replace(s))
	if len(words) > 0 && words[0] == "etwa" {
		words = words[1:]
	}
	if len(words) < 2 {
		return Duration{}, fmt.Errorf("calendar: %q: %w", text, ErrUnparseableDuration)
	}

	factor, ok := unitDays[words[1]]
	if !ok {
		return Duration{}, fmt.Errorf("calendar: unknown unit %q in %q: %w", words[1], text, ErrUnparseableDuration)
	}

	amount, err := resolveAmount(words[0], src)
	if err != nil {
		return Duration{}, fmt.Errorf("calendar: %q: %w", text, err)
	}
	if amount > MaxDurationDays/factor {
		return Duration{}, fmt.Errorf("calendar: %q exceeds %d days: %w", text, MaxDurationDays, ErrUnparseableDuration)
	}
	return Duration{Days: amount * factor}, nil
}

func resolveAmount(word string, src dice.Source) (int, error) {
	switch word {
	case "einige":
		return SomeUnits, nil
	case "mehrere":
		return SeveralUnits, nil
	}
	if n, ok := amountWords[word]; ok {
		return n, nil
	}
	if n, err := strconv.Atoi(word); err == nil && n >= 0 {
		return n, nil
	}
	expr, err := dice.Parse(word)
	if err != nil {
		return 0, ErrUnparseableDuration
	}
	if src == nil {
		return 0, fmt.Errorf("no dice source for %s: %w", expr, ErrUnparseableDuration)
	}
	res, err := dice.Roll(expr, src)
	if err != nil {
		return 0, ErrUnparseableDuration
	}
	return max(res.Total(), 0), nil
}

// ExpiryDate returns current shifted by the duration text. Unparseable text
// leaves current unchanged; an unlimited duration yields UnlimitedDate.
func ExpiryDate(current Date, durationText string, src dice.Source) Date {
	d, err := ResolveDuration(durationText, src)
	if err != nil {
		return current
	}
	if d.Unlimited {
		return UnlimitedDate
	}
	return current.AddDays(d.Days)
}

// ExpiryText is ExpiryDate over date strings. A current date that does not
// parse is returned as given.
func ExpiryText(currentText, durationText string, src dice.Source) string {
	current, err := ParseDate(currentText)
	if err != nil {
		return currentText
	}
	return ExpiryDate(current, durationText, src).String()
}
