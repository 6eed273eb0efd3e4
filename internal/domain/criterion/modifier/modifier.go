package modifier

import "slices"

// Modifier is the comparison operator a criterion applies.
type Modifier string

// Modifier constants. Values match the query backend's CriterionModifier enum.
const (
	Equals          Modifier = "EQUALS"
	NotEquals       Modifier = "NOT_EQUALS"
	GreaterThan     Modifier = "GREATER_THAN"
	LessThan        Modifier = "LESS_THAN"
	Between         Modifier = "BETWEEN"
	NotBetween      Modifier = "NOT_BETWEEN"
	Includes        Modifier = "INCLUDES"
	IncludesAll     Modifier = "INCLUDES_ALL"
	Excludes        Modifier = "EXCLUDES"
	IsNull          Modifier = "IS_NULL"
	NotNull         Modifier = "NOT_NULL"
	MatchesRegex    Modifier = "MATCHES_REGEX"
	NotMatchesRegex Modifier = "NOT_MATCHES_REGEX"
)

var messageIDs = map[Modifier]string{
	Equals:          "criterion_modifier.equals",
	NotEquals:       "criterion_modifier.not_equals",
	GreaterThan:     "criterion_modifier.greater_than",
	LessThan:        "criterion_modifier.less_than",
	Between:         "criterion_modifier.between",
	NotBetween:      "criterion_modifier.not_between",
	Includes:        "criterion_modifier.includes",
	IncludesAll:     "criterion_modifier.includes_all",
	Excludes:        "criterion_modifier.excludes",
	IsNull:          "criterion_modifier.is_null",
	NotNull:         "criterion_modifier.not_null",
	MatchesRegex:    "criterion_modifier.matches_regex",
	NotMatchesRegex: "criterion_modifier.not_matches_regex",
}

// IsValid checks if the modifier is a known value.
func (m Modifier) IsValid() bool {
	_, ok := messageIDs[m]
	return ok
}

// IsNullCheck reports whether the modifier ignores the criterion value.
func (m Modifier) IsNullCheck() bool {
	return m == IsNull || m == NotNull
}

// IsRange reports whether the modifier needs both bounds of a range.
func (m Modifier) IsRange() bool {
	return m == Between || m == NotBetween
}

// IsNegation reports whether the listed values are excluded rather than matched.
func (m Modifier) IsNegation() bool {
	return m == Excludes || m == NotEquals
}

// MessageID returns the label template id for the modifier ("" if unknown).
func (m Modifier) MessageID() string {
	return messageIDs[m]
}

// Contains reports whether m is in list.
func Contains(list []Modifier, m Modifier) bool {
	return slices.Contains(list, m)
}
