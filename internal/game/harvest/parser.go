package harvest

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/cory-johannsen/alchimist/internal/game/dice"
)

var (
	undSep    = regexp.MustCompile(`(?i)\s+und\s+`)
	aside     = regexp.MustCompile(`\([^()]*\)`)
	spaces    = regexp.MustCompile(`\s+`)
	condition = regexp.MustCompile(`(?i)^IF\s+TaP\*?\s*(>=|>)\s*(\d+)\s*:\s*`)
	connector = regexp.MustCompile(`(?i)^.*?\smit\s+`)
)

var fold = cases.Fold()

// numberWords maps case-folded German number words to their value.
var numberWords = foldKeys(map[string]int{
	"ein": 1, "eine": 1, "einen": 1, "einem": 1, "einer": 1, "eines": 1,
	"zwei": 2, "drei": 3, "vier": 4, "fünf": 5, "sechs": 6,
	"sieben": 7, "acht": 8, "neun": 9, "zehn": 10, "elf": 11, "zwölf": 12,
	"zwanzig": 20, "dreißig": 30, "hundert": 100,
	"ein dutzend": 12, "dutzend": 12,
})

// stopWords end a product name.
var stopWords = foldKeys(map[string]int{"pro": 0, "je": 0, "bei": 0, "oder": 0, "sowie": 0})

func foldKeys(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[fold.String(k)] = v
	}
	return out
}

// ParseOptions controls conditional segments.
type ParseOptions struct {
	// ApplyCondition drops conditional segments whose threshold does not hold
	// for Points. Without it, or without Points, conditional items are kept
	// with their Threshold attached.
	ApplyCondition bool
	Points         *int
}

// Parse splits text into items in written order. An empty text yields an empty
// list; it never fails, unknown segments become a fixed quantity of 1.
func Parse(text string, opts ParseOptions) []Item {
	items := make([]Item, 0)
	for _, seg := range segments(text) {
		it, keep := parseSegment(seg, opts)
		if keep {
			items = append(items, it)
		}
	}
	return items
}

// ParseWithPoints parses text and drops conditional segments that points does
// not satisfy.
func ParseWithPoints(text string, points int) []Item {
	return Parse(text, ParseOptions{ApplyCondition: true, Points: &points})
}

func segments(text string) []string {
	text = norm.NFC.String(text)
	// Asides may themselves contain separators, so they go first.
	for aside.MatchString(text) {
		text = aside.ReplaceAllString(text, " ")
	}
	var raw []string
	if strings.Contains(text, ";") {
		raw = strings.Split(text, ";")
	} else {
		raw = undSep.Split(text, -1)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
		s = strings.Trim(s, " .,")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseSegment(seg string, opts ParseOptions) (Item, bool) {
	var it Item
	if m := condition.FindStringSubmatch(seg); m != nil {
		value, err := strconv.Atoi(m[2])
		if err == nil {
			th := Threshold{Comparator: AtLeast, Value: value}
			if m[1] == ">" {
				th.Comparator = Greater
			}
			it.Threshold = &th
			if opts.ApplyCondition && opts.Points != nil && !th.Holds(*opts.Points) {
				return Item{}, false
			}
		}
		seg = strings.TrimSpace(seg[len(m[0]):])
	}

	if loc := connector.FindStringIndex(seg); loc != nil {
		if rest := seg[loc[1]:]; startsWithQuantity(rest) {
			seg = rest
		}
	}

	words := strings.Fields(seg)
	for i := range words {
		q, width, ok := quantityAt(words, i)
		if !ok || (i > 0 && !q.numeric) {
			continue
		}
		it.Quantity = q.Quantity
		it.Product = productAfter(words[i+width:])
		if it.Product == "" {
			it.Product = strings.Join(words[:i], " ")
		}
		return it, true
	}

	it.Quantity = FixedQuantity(1)
	it.Product = seg
	return it, true
}

func startsWithQuantity(s string) bool {
	_, _, ok := quantityAt(strings.Fields(s), 0)
	return ok
}

// token is a quantity found in a segment. Number words are numeric=false: they
// count only at the start of a segment, since inside a phrase such as
// "Blätter von drei Pflanzen" they describe rather than count.
type token struct {
	Quantity
	numeric bool
}

// quantityAt reports whether words[i] (or words[i:i+2] for two-word number
// phrases) is a quantity token, and how many words it spans.
func quantityAt(words []string, i int) (token, int, bool) {
	if i >= len(words) {
		return token{}, 0, false
	}
	w := strings.Trim(words[i], ".,:")
	if e, err := dice.Parse(w); err == nil {
		return token{DiceQuantity(e), true}, 1, true
	}
	if n, err := strconv.Atoi(w); err == nil && n >= 0 {
		return token{FixedQuantity(n), true}, 1, true
	}
	if i+1 < len(words) {
		if n, ok := numberWords[fold.String(w+" "+strings.Trim(words[i+1], ".,:"))]; ok {
			return token{Quantity: FixedQuantity(n)}, 2, true
		}
	}
	if n, ok := numberWords[fold.String(w)]; ok {
		return token{Quantity: FixedQuantity(n)}, 1, true
	}
	return token{}, 0, false
}

func productAfter(words []string) string {
	end := len(words)
	for i, w := range words {
		if _, stop := stopWords[fold.String(strings.Trim(w, ".,:"))]; stop {
			end = i
			break
		}
	}
	return strings.Trim(strings.Join(words[:end], " "), " .,:")
}
