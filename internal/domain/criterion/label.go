package criterion

import (
	"fmt"
	"strings"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// Formatter renders a message template with named arguments.
// Unknown template ids should be returned unchanged.
type Formatter interface {
	Format(id string, args map[string]string) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(id string, args map[string]string) string

// Format calls f(id, args).
func (f FormatterFunc) Format(id string, args map[string]string) string { return f(id, args) }

// Label template ids.
const (
	MsgFormat         = "criterion.format_string"
	MsgFormatDepth    = "criterion.format_string_depth"
	MsgFormatExcludes = "criterion.format_string_excludes"
	MsgFormatBoth     = "criterion.format_string_excludes_depth"
	MsgAll            = "criterion.all"
	MsgTrue           = "true"
	MsgFalse          = "false"
)

var englishTemplates = map[string]string{
	MsgFormat:         "{criterion} {modifierString} {valueString}",
	MsgFormatDepth:    "{criterion} {modifierString} {valueString} (+{depth})",
	MsgFormatExcludes: "{criterion} {modifierString} {valueString} (excludes: {excludedString})",
	MsgFormatBoth:     "{criterion} {modifierString} {valueString} (+{depth}, excludes: {excludedString})",
	MsgAll:            "all",
	MsgTrue:           "true",
	MsgFalse:          "false",

	"criterion_modifier.equals":            "is",
	"criterion_modifier.not_equals":        "is not",
	"criterion_modifier.greater_than":      "is greater than",
	"criterion_modifier.less_than":         "is less than",
	"criterion_modifier.between":           "between",
	"criterion_modifier.not_between":       "not between",
	"criterion_modifier.includes":          "includes",
	"criterion_modifier.includes_all":      "includes all",
	"criterion_modifier.excludes":          "excludes",
	"criterion_modifier.is_null":           "is null",
	"criterion_modifier.not_null":          "is not null",
	"criterion_modifier.matches_regex":     "matches regex",
	"criterion_modifier.not_matches_regex": "not matches regex",
}

// English is the built-in formatter. Field names fall through as their message id.
var English Formatter = FormatterFunc(func(id string, args map[string]string) string {
	tmpl, ok := englishTemplates[id]
	if !ok {
		return id
	}
	return expand(tmpl, args)
})

func expand(tmpl string, args map[string]string) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	out := strings.NewReplacer(pairs...).Replace(tmpl)
	return strings.Join(strings.Fields(out), " ")
}

func formatLabel(f Formatter, o *Option, m modifier.Modifier, value string) string {
	if m.IsNullCheck() {
		value = ""
	}
	return f.Format(MsgFormat, map[string]string{
		"criterion":      f.Format(o.MessageID(), nil),
		"modifierString": f.Format(m.MessageID(), nil),
		"valueString":    value,
	})
}

func joinLabels(items []LabeledID) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return strings.Join(labels, ", ")
}

// secondsToTimestamp renders seconds as HH:MM:SS, dropping a zero hour.
func secondsToTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
