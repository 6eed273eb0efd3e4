package criterion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// DateValue is a date or date-time, or a range of them. Value2 is empty when unset.
type DateValue struct {
	Value  string `json:"value"`
	Value2 string `json:"value2,omitempty"`
}

// DateInput is the query predicate of date and timestamp criteria.
type DateInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Value    string            `json:"value,omitempty"`
	Value2   *string           `json:"value2,omitempty"`
}

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(( |T)\d{2}:\d{2})?$`)

// NormalizeTimestamp converts "YYYY-MM-DD[ HH:MM]" to the T-separated form.
// Anything else normalises to "".
func NormalizeTimestamp(v string) string {
	v = strings.TrimSpace(v)
	if !timestampPattern.MatchString(v) {
		return ""
	}
	return strings.Replace(v, " ", "T", 1)
}

func validDate(m modifier.Modifier, v DateValue) bool {
	if m.IsNullCheck() {
		return true
	}
	if v.Value == "" {
		return false
	}
	return !m.IsRange() || v.Value2 != ""
}

func dateInput(m modifier.Modifier, v DateValue, normalize func(string) string) DateInput {
	in := DateInput{Modifier: m}
	if m.IsNullCheck() {
		return in
	}
	in.Value = normalize(v.Value)
	if m.IsRange() && v.Value2 != "" {
		v2 := normalize(v.Value2)
		in.Value2 = &v2
	}
	return in
}

func dateLabel(m modifier.Modifier, v DateValue) string {
	if m.IsRange() && v.Value2 != "" {
		return v.Value + ", " + v.Value2
	}
	return v.Value
}

// DateCriterion matches a calendar date (YYYY-MM-DD).
type DateCriterion struct {
	base[DateValue]
}

// NewDate creates an empty date criterion.
func NewDate(o *Option) *DateCriterion {
	return &DateCriterion{base: newBase(o, DateValue{}, nil)}
}

// IsValid requires value, and value2 under range modifiers.
func (c *DateCriterion) IsValid() bool { return validDate(c.modifier, c.value) }

// Label renders the date or "d1, d2" for ranges.
func (c *DateCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, dateLabel(c.modifier, c.value))
}

// QueryInput returns DateInput with values as entered.
func (c *DateCriterion) QueryInput() any {
	return dateInput(c.modifier, c.value, strings.TrimSpace)
}

// Clone returns an independent copy.
func (c *DateCriterion) Clone() Criterion { return &DateCriterion{base: c.cloneBase()} }

func (c *DateCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *DateCriterion) unmarshalValue(data []byte) error {
	return decodeStrict(data, &c.value)
}

// TimestampCriterion matches a date-time field such as created_at.
type TimestampCriterion struct {
	base[DateValue]
}

// NewTimestamp creates an empty timestamp criterion.
func NewTimestamp(o *Option) *TimestampCriterion {
	return &TimestampCriterion{base: newBase(o, DateValue{}, nil)}
}

// IsValid requires value, and value2 under range modifiers.
func (c *TimestampCriterion) IsValid() bool { return validDate(c.modifier, c.value) }

// Label renders the timestamps as entered.
func (c *TimestampCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, dateLabel(c.modifier, c.value))
}

// QueryInput returns DateInput with T-separated timestamps.
func (c *TimestampCriterion) QueryInput() any {
	return dateInput(c.modifier, c.value, NormalizeTimestamp)
}

// Clone returns an independent copy.
func (c *TimestampCriterion) Clone() Criterion { return &TimestampCriterion{base: c.cloneBase()} }

func (c *TimestampCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *TimestampCriterion) unmarshalValue(data []byte) error {
	return decodeStrict(data, &c.value)
}
