package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// Tag is the tentative type assigned to a single cell.
type Tag uint8

const (
	// N marks a value that is numeric or safely convertible to a number.
	N Tag = iota
	// PN marks a possible numeric: currency, grouped digits, suffixed measures.
	PN
	// PD marks a possible date.
	PD
	// T marks plain text.
	T
)

// Tags lists every tag in classification priority order.
var Tags = []Tag{N, PN, PD, T}

func (t Tag) String() string {
	switch t {
	case N:
		return "N"
	case PN:
		return "PN"
	case PD:
		return "PD"
	case T:
		return "T"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// MarshalText lets tags key JSON objects.
func (t Tag) MarshalText() ([]byte, error) {
	if t > T {
		return nil, fmt.Errorf("invalid tag %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(b []byte) error {
	v, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

var errUnknownTag = errors.New("unknown type tag")

// ParseTag accepts the short codes N, PN, PD and T (case-insensitive).
func ParseTag(s string) (Tag, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N":
		return N, nil
	case "PN":
		return PN, nil
	case "PD":
		return PD, nil
	case "T":
		return T, nil
	}
	return 0, fmt.Errorf("%w: %q (use N, PN, PD or T)", errUnknownTag, s)
}

// Classify assigns exactly one tag to v. Checks run in the order
// N, PN, PD and the first match wins; anything else is T.
func Classify(v dataset.Value) Tag {
	if IsNumeric(v) {
		return N
	}
	s := v.Str()
	if IsPossibleNumeric(s) {
		return PN
	}
	if IsPossibleDate(s) {
		return PD
	}
	return T
}

// IsNumeric reports whether v is a native number or a string that is fully
// numeric: all Unicode number runes, or a valid complex literal (which also
// covers signed integers, decimals and scientific notation).
func IsNumeric(v dataset.Value) bool {
	if v.IsNumber() {
		return true
	}
	s := v.Str()
	return allNumberRunes(s) || isComplexLiteral(s)
}

var monthPrefixes = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// IsPossibleDate reports whether s contains a month abbreviation or exactly
// two date separators ('/' or '-'). Three or more separators do not qualify.
func IsPossibleDate(s string) bool {
	s = strings.ToLower(s)
	for _, m := range monthPrefixes {
		if strings.Contains(s, m) {
			return true
		}
	}
	return strings.Count(s, "/")+strings.Count(s, "-") == 2
}

// IsPossibleNumeric reports whether s looks like a number with decoration:
// it has a digit, is not a possible date, and has at most one '.' and at
// most one '$'.
func IsPossibleNumeric(s string) bool {
	return strings.IndexFunc(s, isDigitRune) >= 0 &&
		!IsPossibleDate(s) &&
		strings.Count(s, ".") < 2 &&
		strings.Count(s, "$") < 2
}

func allNumberRunes(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isNumberRune(r) {
			return false
		}
	}
	return true
}

// digitForms are digits outside category Nd: superscripts, subscripts,
// circled and parenthesized forms and a few script-specific digits.
var digitForms = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// hanNumerals are ideographs carrying a numeric value although their
// category is Lo.
var hanNumerals = func() *unicode.RangeTable {
	cps := []uint16{
		0x4e00, 0x4e03, 0x4e07, 0x4e09, 0x4e5d, 0x4e8c, 0x4e94, 0x4ebf,
		0x4edf, 0x4f0d, 0x4f70, 0x5104, 0x5146, 0x516b, 0x516d, 0x5341,
		0x5343, 0x5345, 0x534c, 0x53c3, 0x56db, 0x58f9, 0x5eff, 0x62fe,
		0x634c, 0x67d2, 0x7396, 0x767e, 0x8086, 0x842c, 0x8cb3, 0x9678,
		0x96f6,
	}
	t := &unicode.RangeTable{R16: make([]unicode.Range16, len(cps))}
	for i, c := range cps {
		t.R16[i] = unicode.Range16{Lo: c, Hi: c, Stride: 1}
	}
	return t
}()

func isNumberRune(r rune) bool {
	return unicode.IsNumber(r) || unicode.Is(hanNumerals, r)
}

func isDigitRune(r rune) bool {
	return unicode.IsDigit(r) || unicode.Is(digitForms, r)
}

// asciiDigits rewrites decimal digits of any script to 0-9.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || !unicode.IsDigit(r) {
			return r
		}
		zero := r
		for unicode.IsDigit(zero - 1) {
			zero--
		}
		return '0' + (r-zero)%10
	}, s)
}

// isComplexLiteral accepts real or complex literals with an optional j
// imaginary suffix and optional parentheses: "6", "-4.1", "1e5", "inf", "2j",
// "(1+2j)", " 3 ".
func isComplexLiteral(s string) bool {
	s = strings.TrimSpace(asciiDigits(s))
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	if last != 'j' && last != 'J' {
		return isFloatLiteral(s)
	}
	body := s[:len(s)-1]
	// split "re±im" at the last sign that does not belong to an exponent
	split := -1
	for i := len(body) - 1; i > 0; i-- {
		if (body[i] == '+' || body[i] == '-') && body[i-1] != 'e' && body[i-1] != 'E' {
			split = i
			break
		}
	}
	re, im := "", body
	if split > 0 {
		re, im = body[:split], body[split:]
	}
	if im == "" || im == "+" || im == "-" {
		im += "1"
	}
	if re != "" && !isFloatLiteral(re) {
		return false
	}
	return isFloatLiteral(im)
}

// isFloatLiteral validates decimal float syntax, including inf/nan and
// underscores placed between digits. Hex floats are rejected.
func isFloatLiteral(s string) bool {
	// x and p only ever appear in hex floats
	if s == "" || strings.ContainsAny(s, "xXpP \t\n\r\v\f") {
		return false
	}
	if strings.Contains(s, "_") {
		var ok bool
		if s, ok = stripDigitUnderscores(s); !ok {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func stripDigitUnderscores(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isASCIIDigit(s[i-1]) || !isASCIIDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }
