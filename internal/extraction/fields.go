package extraction

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmtuentertainment/payplan/internal/timeutil"
)

// ErrFieldNotFound is returned by an extractor when no candidate substring exists at all
// (distinct from a malformed candidate, which returns a more specific error).
var ErrFieldNotFound = errors.New("field not found")

// ErrInvalidAmount is returned when the first dollar-amount token is zero. An out-of-range
// token is skipped like any other unparseable candidate rather than reported with this error.
var ErrInvalidAmount = errors.New("invalid amount")

// ExtractAmountCents scans s for the first dollar-amount token and returns it in integer
// cents. Implemented as an explicit character scan rather than a regex, per the spec's
// ReDoS guidance for amount parsing (spec §9): a hand-rolled scanner has no backtracking
// behavior to exploit regardless of the underlying regex engine's guarantees.
func ExtractAmountCents(s string) (int64, error) {
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '$' {
			continue
		}
		negative := precedingSign(runes, i)
		cents, consumed, ok := scanAmountAfterDollar(runes, i+1)
		if !ok || consumed == 0 {
			continue
		}
		if cents == 0 {
			return 0, ErrInvalidAmount
		}
		if negative {
			cents = -cents
		}
		return cents, nil
	}
	return 0, ErrFieldNotFound
}

// precedingSign reports whether a '-' (optionally parenthesized) immediately precedes the
// '$' at index dollarIdx, signaling a refund.
func precedingSign(runes []rune, dollarIdx int) bool {
	j := dollarIdx - 1
	for j >= 0 && runes[j] == ' ' {
		j--
	}
	return j >= 0 && (runes[j] == '-' || runes[j] == '(')
}

// scanAmountAfterDollar reads digits (commas after the first digit are skipped), an optional
// decimal point, and up to two fractional digits, returning the value in cents.
func scanAmountAfterDollar(runes []rune, start int) (cents int64, consumed int, ok bool) {
	i := start
	var whole int64
	sawDigit := false
	for i < len(runes) {
		r := runes[i]
		if r >= '0' && r <= '9' {
			whole = whole*10 + int64(r-'0')
			sawDigit = true
			i++
			continue
		}
		if r == ',' && sawDigit {
			i++
			continue
		}
		break
	}
	if !sawDigit {
		return 0, 0, false
	}
	cents = whole * 100
	if i < len(runes) && runes[i] == '.' {
		i++
		frac := 0
		fracDigits := 0
		for i < len(runes) && fracDigits < 2 && runes[i] >= '0' && runes[i] <= '9' {
			frac = frac*10 + int(runes[i]-'0')
			fracDigits++
			i++
		}
		for fracDigits < 2 {
			frac *= 10
			fracDigits++
		}
		cents += int64(frac)
	}
	if cents > (1 << 53) {
		return 0, 0, false // out-of-range guard, mirrors rejecting scientific notation overflow
	}
	return cents, i - start, true
}

var (
	isoDateToken     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateToken   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	monthNameToken   = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`)
	monthNameAbbrevs = map[string]time.Month{
		"Jan": time.January, "Feb": time.February, "Mar": time.March, "Apr": time.April,
		"May": time.May, "Jun": time.June, "Jul": time.July, "Aug": time.August,
		"Sep": time.September, "Oct": time.October, "Nov": time.November, "Dec": time.December,
	}
	monthNameParts = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
)

// ExtractDueDate finds a due-date-shaped token in s and parses it in loc. Forms are tried
// in a fixed order (month-name, then ISO, then slash via C1), and the first form that
// matches anywhere in s wins, not the earliest token by position (spec §4.C4).
func ExtractDueDate(s string, loc *time.Location) (time.Time, error) {
	if m := monthNameParts.FindStringSubmatch(s); m != nil {
		mo := monthNameAbbrevs[m[1]]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return time.Date(year, mo, day, 0, 0, 0, 0, loc), nil
	}
	if m := isoDateToken.FindString(s); m != "" {
		return timeutil.ParseISODate(m, loc)
	}
	if m := slashDateToken.FindString(s); m != "" {
		pd, err := timeutil.ParseFlexibleDate(m, loc)
		if err != nil {
			return time.Time{}, err
		}
		return pd.Date, nil
	}
	return time.Time{}, timeutil.ErrUnsupportedDateFormat
}

var installmentNoToken = regexp.MustCompile(`(?i)(?:installment\s*(?:#|no\.?|number)?\s*|payment\s+)(\d+)(?:\s+of\s+\d+)?`)

// ExtractInstallmentNo finds the first installment-number token in s (spec §4.C4: "integer
// >=1").
func ExtractInstallmentNo(s string) (int, error) {
	m := installmentNoToken.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrFieldNotFound
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, ErrFieldNotFound
	}
	return n, nil
}

var (
	autopayOn  = regexp.MustCompile(`(?i)auto-?pay\s+(?:is\s+)?(on|enabled)`)
	autopayOff = regexp.MustCompile(`(?i)auto-?pay\s+(?:is\s+)?(off|disabled)`)
)

// ExtractAutopay reports whether s states autopay is active, defaulting to false when
// neither keyword form is present (spec §4.C4).
func ExtractAutopay(s string) bool {
	if autopayOff.MatchString(s) {
		return false
	}
	return autopayOn.MatchString(s)
}

var lateFeeLabel = regexp.MustCompile(`(?i)late\s+fee[^$]{0,20}(\$[\d,]+(?:\.\d{1,2})?)`)

// ExtractLateFeeCents finds a dollar amount following a "late fee" label, defaulting to 0
// when absent (spec §4.C4).
func ExtractLateFeeCents(s string) (int64, error) {
	m := lateFeeLabel.FindStringSubmatch(s)
	if m == nil {
		return 0, nil
	}
	cents, err := ExtractAmountCents(m[1])
	if err != nil {
		return 0, nil
	}
	if cents < 0 {
		cents = -cents
	}
	return cents, nil
}

var isoCurrency = regexp.MustCompile(`\b(USD|CAD|GBP|EUR|AUD|NZD)\b`)

// ExtractCurrency finds an ISO-4217 currency code in s, defaulting to USD (spec §4.C4).
func ExtractCurrency(s string) string {
	if m := isoCurrency.FindString(s); m != "" {
		return strings.ToUpper(m)
	}
	return "USD"
}
