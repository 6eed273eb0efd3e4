package criterion

import (
	"fmt"
	"slices"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// InputType hints which editor widget a criterion uses.
type InputType string

// Input type constants.
const (
	InputNone       InputType = ""
	InputNumber     InputType = "number"
	InputText       InputType = "text"
	InputPerformers InputType = "performers"
	InputStudios    InputType = "studios"
	InputTags       InputType = "tags"
	InputScenes     InputType = "scenes"
	InputGroups     InputType = "groups"
	InputGalleries  InputType = "galleries"
)

// Factory creates a fresh criterion bound to an option.
type Factory func(o *Option) Criterion

// OptionParams configures an Option. Type, Kind and Make are required.
type OptionParams struct {
	Type            string
	MessageID       string // defaults to Type
	ParameterName   string // defaults to Type
	Kind            Kind
	Modifiers       []modifier.Modifier
	DefaultModifier modifier.Modifier // defaults to Equals
	Domain          []string
	InputType       InputType
	MultiValue      bool
	Hierarchical    bool
	// CompileAsString makes boolean criteria compile to "true"/"false" instead of a bool.
	CompileAsString bool
	Make            Factory
}

// Setting adjusts OptionParams in the family constructors.
type Setting func(*OptionParams)

// WithMessageID overrides the label template id of the field name.
func WithMessageID(id string) Setting {
	return func(p *OptionParams) { p.MessageID = id }
}

// WithParameterName overrides the key the criterion compiles under.
func WithParameterName(name string) Setting {
	return func(p *OptionParams) { p.ParameterName = name }
}

// WithInputType overrides the editor hint.
func WithInputType(t InputType) Setting {
	return func(p *OptionParams) { p.InputType = t }
}

// Option is the immutable metadata of one predicate type.
type Option struct {
	typ             string
	messageID       string
	parameterName   string
	kind            Kind
	modifiers       []modifier.Modifier
	defaultModifier modifier.Modifier
	domain          []string
	inputType       InputType
	multiValue      bool
	hierarchical    bool
	compileAsString bool
	make            Factory
}

// NewOption validates params and creates an Option.
func NewOption(p OptionParams) (*Option, error) {
	if p.Type == "" {
		return nil, fmt.Errorf("option type is required")
	}
	if p.Make == nil {
		return nil, fmt.Errorf("option %q: factory is required", p.Type)
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("option %q: invalid kind %q", p.Type, p.Kind)
	}
	if p.DefaultModifier == "" {
		p.DefaultModifier = modifier.Equals
	}
	for _, m := range p.Modifiers {
		if !m.IsValid() {
			return nil, fmt.Errorf("option %q: unknown modifier %q", p.Type, m)
		}
	}
	if len(p.Modifiers) > 0 && !modifier.Contains(p.Modifiers, p.DefaultModifier) {
		return nil, fmt.Errorf("option %q: default modifier %q not in allowed set", p.Type, p.DefaultModifier)
	}
	if p.MessageID == "" {
		p.MessageID = p.Type
	}
	if p.ParameterName == "" {
		p.ParameterName = p.Type
	}

	return &Option{
		typ:             p.Type,
		messageID:       p.MessageID,
		parameterName:   p.ParameterName,
		kind:            p.Kind,
		modifiers:       append([]modifier.Modifier(nil), p.Modifiers...),
		defaultModifier: p.DefaultModifier,
		domain:          append([]string(nil), p.Domain...),
		inputType:       p.InputType,
		multiValue:      p.MultiValue,
		hierarchical:    p.Hierarchical,
		compileAsString: p.CompileAsString,
		make:            p.Make,
	}, nil
}

// MustOption is NewOption that panics on invalid params. Used for static option tables.
func MustOption(p OptionParams) *Option {
	o, err := NewOption(p)
	if err != nil {
		panic(err)
	}
	return o
}

// Type returns the predicate type id.
func (o *Option) Type() string { return o.typ }

// MessageID returns the label template id of the field name.
func (o *Option) MessageID() string { return o.messageID }

// ParameterName returns the key the criterion compiles under.
func (o *Option) ParameterName() string { return o.parameterName }

// Kind returns the value shape of criteria made by this option.
func (o *Option) Kind() Kind { return o.kind }

// Modifiers returns a copy of the allowed modifiers.
func (o *Option) Modifiers() []modifier.Modifier {
	return append([]modifier.Modifier(nil), o.modifiers...)
}

// DefaultModifier returns the modifier a fresh criterion starts with.
func (o *Option) DefaultModifier() modifier.Modifier { return o.defaultModifier }

// Domain returns a copy of the enumerated value domain (nil if open).
func (o *Option) Domain() []string {
	return append([]string(nil), o.domain...)
}

// InputType returns the editor hint.
func (o *Option) InputType() InputType { return o.inputType }

// MultiValue reports whether the criterion matches on several values at once
// (offers "any of" / "only").
func (o *Option) MultiValue() bool { return o.multiValue }

// Hierarchical reports whether values form a tree with depth matching.
func (o *Option) Hierarchical() bool { return o.hierarchical }

// CanExclude reports whether the criterion keeps a separate excluded list.
// Options that list Excludes as a modifier express exclusion through it instead.
func (o *Option) CanExclude() bool {
	return o.hierarchical && !modifier.Contains(o.modifiers, modifier.Excludes)
}

// Allows reports whether m may be set on criteria of this option.
// The default modifier is always allowed, even for modifier-less options.
func (o *Option) Allows(m modifier.Modifier) bool {
	return m == o.defaultModifier || modifier.Contains(o.modifiers, m)
}

// InDomain reports whether v belongs to the value domain. Open domains accept anything.
func (o *Option) InDomain(v string) bool {
	if len(o.domain) == 0 {
		return true
	}
	return slices.Contains(o.domain, v)
}

// MakeCriterion creates a fresh, independently owned criterion.
func (o *Option) MakeCriterion() Criterion {
	return o.make(o)
}

var (
	stringModifiers = []modifier.Modifier{
		modifier.Equals, modifier.NotEquals, modifier.Includes, modifier.Excludes,
		modifier.IsNull, modifier.NotNull, modifier.MatchesRegex, modifier.NotMatchesRegex,
	}
	mandatoryStringModifiers = []modifier.Modifier{
		modifier.Equals, modifier.NotEquals, modifier.Includes, modifier.Excludes,
		modifier.MatchesRegex, modifier.NotMatchesRegex,
	}
	numberModifiers = []modifier.Modifier{
		modifier.Equals, modifier.NotEquals, modifier.GreaterThan, modifier.LessThan,
		modifier.IsNull, modifier.NotNull, modifier.Between, modifier.NotBetween,
	}
	mandatoryNumberModifiers = []modifier.Modifier{
		modifier.Equals, modifier.NotEquals, modifier.GreaterThan, modifier.LessThan,
		modifier.Between, modifier.NotBetween,
	}
	timestampModifiers = []modifier.Modifier{
		modifier.GreaterThan, modifier.LessThan, modifier.IsNull, modifier.NotNull,
		modifier.Between, modifier.NotBetween,
	}
	mandatoryTimestampModifiers = []modifier.Modifier{
		modifier.GreaterThan, modifier.LessThan, modifier.Between, modifier.NotBetween,
	}
	pairModifiers = []modifier.Modifier{
		modifier.Equals, modifier.NotEquals, modifier.IsNull, modifier.NotNull,
	}
	enumModifiers = []modifier.Modifier{
		modifier.Includes, modifier.Excludes, modifier.IsNull, modifier.NotNull,
	}
)

func build(p OptionParams, settings []Setting) *Option {
	for _, s := range settings {
		s(&p)
	}
	return MustOption(p)
}

// NewStringOption creates a free-text option with null checks.
func NewStringOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindString, Modifiers: stringModifiers,
		InputType: InputText, Make: func(o *Option) Criterion { return NewString(o) },
	}, settings)
}

// NewMandatoryStringOption creates a free-text option for fields that are never empty.
func NewMandatoryStringOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindString, Modifiers: mandatoryStringModifiers,
		InputType: InputText, Make: func(o *Option) Criterion { return NewString(o) },
	}, settings)
}

// NewFlagOption creates a modifier-less string option over a closed domain
// (for example "is_missing"). It compiles to the bare string.
func NewFlagOption(typ string, domain []string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindString, Domain: domain,
		Make: func(o *Option) Criterion { return NewString(o) },
	}, settings)
}

// NewBooleanOption creates a true/false option compiling to a bool.
func NewBooleanOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindBoolean, Domain: []string{"true", "false"},
		Make: func(o *Option) Criterion { return NewBoolean(o) },
	}, settings)
}

// NewStringBooleanOption creates a true/false option compiling to "true"/"false".
func NewStringBooleanOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindBoolean, Domain: []string{"true", "false"}, CompileAsString: true,
		Make: func(o *Option) Criterion { return NewBoolean(o) },
	}, settings)
}

// NewNumberOption creates an integer option with null checks.
func NewNumberOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindNumber, Modifiers: numberModifiers,
		InputType: InputNumber, Make: func(o *Option) Criterion { return NewNumber(o) },
	}, settings)
}

// NewMandatoryNumberOption creates an integer option for fields that are never null.
func NewMandatoryNumberOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindNumber, Modifiers: mandatoryNumberModifiers,
		InputType: InputNumber, Make: func(o *Option) Criterion { return NewNumber(o) },
	}, settings)
}

// NewDurationOption creates a seconds-valued option labelled as a timestamp.
func NewDurationOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindDuration, Modifiers: mandatoryNumberModifiers,
		InputType: InputNumber, Make: func(o *Option) Criterion { return NewDuration(o) },
	}, settings)
}

// NewDateOption creates a calendar date option.
func NewDateOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindDate, Modifiers: numberModifiers,
		InputType: InputText, Make: func(o *Option) Criterion { return NewDate(o) },
	}, settings)
}

// NewTimestampOption creates a date-time option with null checks.
func NewTimestampOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindTimestamp, Modifiers: timestampModifiers,
		DefaultModifier: modifier.GreaterThan, InputType: InputText,
		Make: func(o *Option) Criterion { return NewTimestamp(o) },
	}, settings)
}

// NewMandatoryTimestampOption creates a date-time option for fields that are never null.
func NewMandatoryTimestampOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindTimestamp, Modifiers: mandatoryTimestampModifiers,
		DefaultModifier: modifier.GreaterThan, InputType: InputText,
		Make: func(o *Option) Criterion { return NewTimestamp(o) },
	}, settings)
}

// NewLabeledIDOption creates a flat multi-select option.
// includeAll adds IncludesAll and makes it the default ("all of").
func NewLabeledIDOption(typ string, includeAll bool, input InputType, settings ...Setting) *Option {
	mods := []modifier.Modifier{modifier.Includes, modifier.Excludes, modifier.IsNull, modifier.NotNull}
	def := modifier.Includes
	if includeAll {
		mods = append([]modifier.Modifier{modifier.IncludesAll}, mods...)
		def = modifier.IncludesAll
	}
	return build(OptionParams{
		Type: typ, Kind: KindLabeledIDs, Modifiers: mods, DefaultModifier: def,
		InputType: input, MultiValue: includeAll,
		Make: func(o *Option) Criterion { return NewLabeledIDs(o) },
	}, settings)
}

// NewHierarchicalOption creates a tree-shaped multi-select option with a separate excluded list.
// multi options match "all of" by default and offer an exact-set Equals.
func NewHierarchicalOption(typ string, multi bool, input InputType, settings ...Setting) *Option {
	mods := []modifier.Modifier{modifier.Includes, modifier.IsNull, modifier.NotNull}
	def := modifier.Includes
	if multi {
		mods = []modifier.Modifier{
			modifier.IncludesAll, modifier.Includes, modifier.Equals, modifier.IsNull, modifier.NotNull,
		}
		def = modifier.IncludesAll
	}
	return build(OptionParams{
		Type: typ, Kind: KindHierarchical, Modifiers: mods, DefaultModifier: def,
		InputType: input, MultiValue: multi, Hierarchical: true,
		Make: func(o *Option) Criterion { return NewHierarchical(o) },
	}, settings)
}

// NewEnumOption creates a multi-select option over a closed value domain.
func NewEnumOption(typ string, domain []string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindEnum, Modifiers: enumModifiers, DefaultModifier: modifier.Includes,
		Domain: domain, Make: func(o *Option) Criterion { return NewEnum(o) },
	}, settings)
}

// NewStashIDOption creates an external identifier option.
func NewStashIDOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindStashID, Modifiers: pairModifiers,
		InputType: InputText, Make: func(o *Option) Criterion { return NewStashID(o) },
	}, settings)
}

// NewPhashOption creates a perceptual hash option with a distance tolerance.
func NewPhashOption(typ string, settings ...Setting) *Option {
	return build(OptionParams{
		Type: typ, Kind: KindPhash, Modifiers: pairModifiers,
		InputType: InputText, Make: func(o *Option) Criterion { return NewPhash(o) },
	}, settings)
}
