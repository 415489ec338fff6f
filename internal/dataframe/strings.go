package dataframe

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/language"
)

// StringAccessor applies text operations to one Object column at a time.
// Every method returns a one-column DataFrame named after the column.
// Missing values stay missing in text results, become NaN in integer results
// and false in boolean results.
type StringAccessor struct {
	df *DataFrame
}

// Str returns the string accessor of the DataFrame.
func (df *DataFrame) Str() StringAccessor {
	return StringAccessor{df: df}
}

func (s StringAccessor) text(op, column string) (vector, error) {
	op = "Str." + op
	if err := validation.ValidateColumns(s.df, op, column); err != nil {
		return vector{}, err
	}
	v := s.df.column(column)
	if v.kind != series.Object {
		return vector{}, errors.NewTypeError(op, column,
			fmt.Sprintf("string methods require an object column, got %s", v.kind))
	}
	return v, nil
}

func (s StringAccessor) mapText(op, column string, fn func(string) (string, bool)) (*DataFrame, error) {
	v, err := s.text(op, column)
	if err != nil {
		return nil, err
	}
	out := make([]string, v.len())
	valid := make([]bool, v.len())
	for i := range out {
		if v.missing(i) {
			continue
		}
		out[i], valid[i] = fn(v.strs[i])
	}
	return s.df.fromVectors([]string{column}, []vector{objectVector(out, valid)}), nil
}

func (s StringAccessor) mapString(op, column string, fn func(string) string) (*DataFrame, error) {
	return s.mapText(op, column, func(str string) (string, bool) { return fn(str), true })
}

func (s StringAccessor) mapInt(op, column string, fn func(string) int) (*DataFrame, error) {
	v, err := s.text(op, column)
	if err != nil {
		return nil, err
	}
	if v.hasMissing() {
		floats := make([]float64, v.len())
		for i := range floats {
			floats[i] = math.NaN()
			if !v.missing(i) {
				floats[i] = float64(fn(v.strs[i]))
			}
		}
		return s.df.fromVectors([]string{column}, []vector{floatVector(floats)}), nil
	}
	ints := make([]int64, v.len())
	for i := range ints {
		ints[i] = int64(fn(v.strs[i]))
	}
	return s.df.fromVectors([]string{column}, []vector{intVector(ints)}), nil
}

func (s StringAccessor) mapBool(op, column string, fn func(string) bool) (*DataFrame, error) {
	v, err := s.text(op, column)
	if err != nil {
		return nil, err
	}
	out := make([]bool, v.len())
	for i := range out {
		out[i] = !v.missing(i) && fn(v.strs[i])
	}
	return s.df.fromVectors([]string{column}, []vector{boolVector(out)}), nil
}

// Capitalize uppercases the first character and lowercases the rest.
func (s StringAccessor) Capitalize(column string) (*DataFrame, error) {
	lower := cases.Lower(language.Und)
	return s.mapString("Capitalize", column, func(str string) string {
		r, size := utf8.DecodeRuneInString(str)
		if size == 0 {
			return str
		}
		return string(unicode.ToUpper(r)) + lower.String(str[size:])
	})
}

// Center pads both sides with fill up to width characters. Extra padding
// goes to the right for odd gaps.
func (s StringAccessor) Center(column string, width int, fill rune) (*DataFrame, error) {
	return s.mapString("Center", column, func(str string) string {
		gap := width - utf8.RuneCountInString(str)
		if gap <= 0 {
			return str
		}
		left := gap/2 + (gap & width & 1)
		return strings.Repeat(string(fill), left) + str + strings.Repeat(string(fill), gap-left)
	})
}

// Count counts non-overlapping occurrences of pat. The optional bounds are
// the start and stop character positions searched; negative positions count
// from the end.
func (s StringAccessor) Count(column, pat string, bounds ...int) (*DataFrame, error) {
	if err := checkBounds("Count", bounds); err != nil {
		return nil, err
	}
	return s.mapInt("Count", column, func(str string) int {
		sub, _, ok := window(str, bounds)
		if !ok {
			return 0
		}
		return strings.Count(sub, pat)
	})
}

// EndsWith reports whether each value ends with suffix, optionally within
// start and stop bounds.
func (s StringAccessor) EndsWith(column, suffix string, bounds ...int) (*DataFrame, error) {
	if err := checkBounds("EndsWith", bounds); err != nil {
		return nil, err
	}
	return s.mapBool("EndsWith", column, func(str string) bool {
		sub, _, ok := window(str, bounds)
		return ok && strings.HasSuffix(sub, suffix)
	})
}

// StartsWith reports whether each value starts with prefix, optionally
// within start and stop bounds.
func (s StringAccessor) StartsWith(column, prefix string, bounds ...int) (*DataFrame, error) {
	if err := checkBounds("StartsWith", bounds); err != nil {
		return nil, err
	}
	return s.mapBool("StartsWith", column, func(str string) bool {
		sub, _, ok := window(str, bounds)
		return ok && strings.HasPrefix(sub, prefix)
	})
}

// Find returns the character position of the first sub, or -1. With bounds
// the search covers only [start, stop), but the position still counts from
// the beginning of the value.
func (s StringAccessor) Find(column, sub string, bounds ...int) (*DataFrame, error) {
	if err := checkBounds("Find", bounds); err != nil {
		return nil, err
	}
	return s.mapInt("Find", column, func(str string) int {
		part, offset, ok := window(str, bounds)
		if !ok {
			return -1
		}
		i := runeIndex(part, sub)
		if i < 0 {
			return -1
		}
		return offset + i
	})
}

func checkBounds(op string, bounds []int) error {
	if len(bounds) > 2 {
		return errors.NewInvalidInputError("Str."+op,
			fmt.Sprintf("expected at most start and stop, got %d bounds", len(bounds)))
	}
	return nil
}

// window cuts str to the optional [start, stop) character range. Negative
// positions count from the end and stop is clamped to the length. ok is
// false when the range is empty because start lies past stop or past the
// end.
func window(str string, bounds []int) (string, int, bool) {
	if len(bounds) == 0 {
		return str, 0, true
	}
	runes := []rune(str)
	n := len(runes)
	resolve := func(p int) int {
		if p < 0 {
			p = max(p+n, 0)
		}
		return p
	}
	start, stop := resolve(bounds[0]), n
	if len(bounds) == 2 {
		stop = min(resolve(bounds[1]), n)
	}
	if start > n || start > stop {
		return "", start, false
	}
	return string(runes[start:stop]), start, true
}

// Index is Find, but a value without sub is an error.
func (s StringAccessor) Index(column, sub string) (*DataFrame, error) {
	const op = "Index"
	v, err := s.text(op, column)
	if err != nil {
		return nil, err
	}
	for i := range v.strs {
		if !v.missing(i) && !strings.Contains(v.strs[i], sub) {
			return nil, errors.NewInvalidInputError("Str."+op,
				fmt.Sprintf("substring %q not found in %q", sub, v.strs[i]))
		}
	}
	return s.mapInt(op, column, func(str string) int { return runeIndex(str, sub) })
}

func runeIndex(str, sub string) int {
	i := strings.Index(str, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(str[:i])
}

// Len returns the number of characters of each value.
func (s StringAccessor) Len(column string) (*DataFrame, error) {
	return s.mapInt("Len", column, utf8.RuneCountInString)
}

// Get returns the character at position i, counting from the end when i is
// negative. Values shorter than that become missing.
func (s StringAccessor) Get(column string, i int) (*DataFrame, error) {
	return s.mapText("Get", column, func(str string) (string, bool) {
		runes := []rune(str)
		pos := i
		if pos < 0 {
			pos += len(runes)
		}
		if pos < 0 || pos >= len(runes) {
			return "", false
		}
		return string(runes[pos]), true
	})
}

// IsAlnum reports non-empty values made only of letters and digits.
func (s StringAccessor) IsAlnum(column string) (*DataFrame, error) {
	return s.mapBool("IsAlnum", column, allRunes(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}))
}

// IsAlpha reports non-empty values made only of letters.
func (s StringAccessor) IsAlpha(column string) (*DataFrame, error) {
	return s.mapBool("IsAlpha", column, allRunes(unicode.IsLetter))
}

// IsDecimal reports non-empty values made only of decimal digits.
func (s StringAccessor) IsDecimal(column string) (*DataFrame, error) {
	return s.mapBool("IsDecimal", column, allRunes(unicode.IsDigit))
}

// IsNumeric reports non-empty values made only of numeric characters,
// including fractions and numerals.
func (s StringAccessor) IsNumeric(column string) (*DataFrame, error) {
	return s.mapBool("IsNumeric", column, allRunes(unicode.IsNumber))
}

// IsSpace reports non-empty values made only of whitespace.
func (s StringAccessor) IsSpace(column string) (*DataFrame, error) {
	return s.mapBool("IsSpace", column, allRunes(unicode.IsSpace))
}

// IsLower reports values with at least one cased character and no uppercase.
func (s StringAccessor) IsLower(column string) (*DataFrame, error) {
	return s.mapBool("IsLower", column, func(str string) bool {
		return hasCased(str) && !strings.ContainsFunc(str, func(r rune) bool {
			return unicode.IsUpper(r) || unicode.IsTitle(r)
		})
	})
}

// IsUpper reports values with at least one cased character and no lowercase.
func (s StringAccessor) IsUpper(column string) (*DataFrame, error) {
	return s.mapBool("IsUpper", column, func(str string) bool {
		return hasCased(str) && !strings.ContainsFunc(str, unicode.IsLower)
	})
}

// IsTitle reports values where every word starts uppercase and continues
// lowercase.
func (s StringAccessor) IsTitle(column string) (*DataFrame, error) {
	return s.mapBool("IsTitle", column, isTitle)
}

func isTitle(str string) bool {
	cased, previousCased := false, false
	for _, r := range str {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if previousCased {
				return false
			}
			previousCased, cased = true, true
		case unicode.IsLower(r):
			if !previousCased {
				return false
			}
			previousCased, cased = true, true
		default:
			previousCased = false
		}
	}
	return cased
}

func allRunes(pred func(rune) bool) func(string) bool {
	return func(str string) bool {
		if str == "" {
			return false
		}
		for _, r := range str {
			if !pred(r) {
				return false
			}
		}
		return true
	}
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

func hasCased(str string) bool {
	return strings.ContainsFunc(str, isCased)
}

// LStrip removes leading characters in chars, or whitespace when chars is
// empty.
func (s StringAccessor) LStrip(column, chars string) (*DataFrame, error) {
	return s.mapString("LStrip", column, func(str string) string {
		if chars == "" {
			return strings.TrimLeftFunc(str, unicode.IsSpace)
		}
		return strings.TrimLeft(str, chars)
	})
}

// RStrip removes trailing characters in chars, or whitespace when chars is
// empty.
func (s StringAccessor) RStrip(column, chars string) (*DataFrame, error) {
	return s.mapString("RStrip", column, func(str string) string {
		if chars == "" {
			return strings.TrimRightFunc(str, unicode.IsSpace)
		}
		return strings.TrimRight(str, chars)
	})
}

// Strip removes characters in chars from both ends, or whitespace when chars
// is empty.
func (s StringAccessor) Strip(column, chars string) (*DataFrame, error) {
	return s.mapString("Strip", column, func(str string) string {
		if chars == "" {
			return strings.TrimSpace(str)
		}
		return strings.Trim(str, chars)
	})
}

// Replace substitutes every occurrence of pat with repl.
func (s StringAccessor) Replace(column, pat, repl string) (*DataFrame, error) {
	return s.mapString("Replace", column, func(str string) string {
		return strings.ReplaceAll(str, pat, repl)
	})
}

// SwapCase inverts the case of every character.
func (s StringAccessor) SwapCase(column string) (*DataFrame, error) {
	return s.mapString("SwapCase", column, func(str string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case unicode.IsUpper(r):
				return unicode.ToLower(r)
			case unicode.IsLower(r):
				return unicode.ToUpper(r)
			}
			return r
		}, str)
	})
}

// Title uppercases a cased character that follows an uncased one and
// lowercases the others, so "they're" becomes "They'Re".
func (s StringAccessor) Title(column string) (*DataFrame, error) {
	return s.mapString("Title", column, func(str string) string {
		var b strings.Builder
		b.Grow(len(str))
		previousCased := false
		for _, r := range str {
			if previousCased {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			previousCased = isCased(r)
		}
		return b.String()
	})
}

// Lower lowercases every value.
func (s StringAccessor) Lower(column string) (*DataFrame, error) {
	caser := cases.Lower(language.Und)
	return s.mapString("Lower", column, caser.String)
}

// Upper uppercases every value.
func (s StringAccessor) Upper(column string) (*DataFrame, error) {
	caser := cases.Upper(language.Und)
	return s.mapString("Upper", column, caser.String)
}

// ZFill left-pads each value with zeros to width characters, keeping a
// leading sign in front.
func (s StringAccessor) ZFill(column string, width int) (*DataFrame, error) {
	return s.mapString("ZFill", column, func(str string) string {
		gap := width - utf8.RuneCountInString(str)
		if gap <= 0 {
			return str
		}
		zeros := strings.Repeat("0", gap)
		if str != "" && (str[0] == '+' || str[0] == '-') {
			return str[:1] + zeros + str[1:]
		}
		return zeros + str
	})
}

// Encode converts each value to the bytes of the named IANA character set,
// such as "utf-8" or "ISO-8859-1". In "strict" mode a character the set
// cannot represent is an error; "replace" substitutes the set's replacement
// byte.
func (s StringAccessor) Encode(column, charset, mode string) (*DataFrame, error) {
	const op = "Str.Encode"
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("unknown encoding %q", charset))
	}
	var encoder *encoding.Encoder
	switch mode {
	case "", "strict":
		encoder = enc.NewEncoder()
	case "replace":
		encoder = encoding.ReplaceUnsupported(enc.NewEncoder())
	default:
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("unknown error mode %q", mode))
	}

	var failure error
	out, err := s.mapText("Encode", column, func(str string) (string, bool) {
		encoded, err := encoder.String(str)
		if err != nil && failure == nil {
			failure = errors.NewInvalidInputError(op, fmt.Sprintf("cannot encode %q as %s: %v", str, charset, err))
		}
		return encoded, err == nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		out.Release()
		return nil, failure
	}
	return out, nil
}
