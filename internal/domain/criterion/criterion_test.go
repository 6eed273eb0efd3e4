package criterion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

func testOptions() []*Option {
	return []*Option{
		NewStringOption("title"),
		NewMandatoryStringOption("path"),
		NewFlagOption("is_missing", []string{"title", "date"}),
		NewBooleanOption("organized"),
		NewStringBooleanOption("has_markers"),
		NewNumberOption("rating100"),
		NewMandatoryNumberOption("o_counter"),
		NewDurationOption("duration"),
		NewDateOption("date"),
		NewTimestampOption("created_at"),
		NewMandatoryTimestampOption("updated_at"),
		NewLabeledIDOption("performers", true, InputPerformers),
		NewLabeledIDOption("galleries", false, InputGalleries),
		NewHierarchicalOption("tags", true, InputTags),
		NewHierarchicalOption("studios", false, InputStudios),
		NewEnumOption("resolution", []string{"LOW", "STANDARD", "FULL_HD"}),
		NewStashIDOption("stash_id_endpoint"),
		NewPhashOption("phash_distance"),
	}
}

func testLookup(opts []*Option) Lookup {
	byType := make(map[string]*Option, len(opts))
	for _, o := range opts {
		byType[o.Type()] = o
	}
	return func(typ string) (*Option, bool) {
		o, ok := byType[typ]
		return o, ok
	}
}

// fill sets a representative valid value on any variant.
func fill(t *testing.T, c Criterion) {
	t.Helper()
	switch v := c.(type) {
	case *StringCriterion:
		if d := v.Option().Domain(); len(d) > 0 {
			v.SetValue(d[0])
		} else {
			v.SetValue("abc")
		}
	case *BooleanCriterion:
		v.SetValue("false")
	case *NumberCriterion:
		v.SetValue(NumberValue{Value: Int(5), Value2: Int(10)})
	case *DurationCriterion:
		v.SetValue(NumberValue{Value: Int(90), Value2: Int(3700)})
	case *DateCriterion:
		v.SetValue(DateValue{Value: "2024-01-01", Value2: "2024-02-01"})
	case *TimestampCriterion:
		v.SetValue(DateValue{Value: "2024-01-01 10:00", Value2: "2024-02-01"})
	case *LabeledIDsCriterion:
		v.SetValue([]LabeledID{{ID: "1", Label: "One"}, {ID: "2", Label: "Two"}})
	case *HierarchicalCriterion:
		v.SetValue(HierarchicalValue{
			Items:    []LabeledID{{ID: "1", Label: "Tag A"}},
			Excluded: []LabeledID{{ID: "2", Label: "Tag B"}},
			Depth:    DepthAll,
		})
	case *EnumCriterion:
		v.SetValue(v.Option().Domain()[:1])
	case *StashIDCriterion:
		v.SetValue(StashIDValue{Endpoint: "https://stashdb.org/graphql", StashID: "abc-123"})
	case *PhashCriterion:
		v.SetValue(PhashValue{Value: "d1a2b3c4", Distance: Int(4)})
	default:
		t.Fatalf("unhandled criterion %T", c)
	}
}

func allModifiers(o *Option) []modifier.Modifier {
	mods := o.Modifiers()
	if !modifier.Contains(mods, o.DefaultModifier()) {
		mods = append(mods, o.DefaultModifier())
	}
	return mods
}

func TestNewOption_Validation(t *testing.T) {
	mk := func(o *Option) Criterion { return NewString(o) }
	tests := []struct {
		name string
		p    OptionParams
	}{
		{"empty type", OptionParams{Kind: KindString, Make: mk}},
		{"no factory", OptionParams{Type: "title", Kind: KindString}},
		{"bad kind", OptionParams{Type: "title", Kind: "blob", Make: mk}},
		{"bad modifier", OptionParams{Type: "title", Kind: KindString, Modifiers: []modifier.Modifier{"LIKE"}, Make: mk}},
		{"default not allowed", OptionParams{
			Type: "title", Kind: KindString, Make: mk,
			Modifiers: []modifier.Modifier{modifier.Includes}, DefaultModifier: modifier.Excludes,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOption(tt.p); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewOption_Defaults(t *testing.T) {
	o := MustOption(OptionParams{
		Type: "title", Kind: KindString, Make: func(o *Option) Criterion { return NewString(o) },
	})
	if o.DefaultModifier() != modifier.Equals {
		t.Errorf("default modifier = %q, want EQUALS", o.DefaultModifier())
	}
	if o.MessageID() != "title" || o.ParameterName() != "title" {
		t.Errorf("message id %q / parameter %q should default to type", o.MessageID(), o.ParameterName())
	}

	renamed := NewNumberOption("rating", WithParameterName("rating100"), WithMessageID("rating"))
	c := renamed.MakeCriterion()
	if c.Key().ParameterName != "rating100" {
		t.Errorf("key parameter = %q, want rating100", c.Key().ParameterName)
	}
}

func TestOption_ReturnsCopies(t *testing.T) {
	o := NewEnumOption("resolution", []string{"LOW", "HIGH"})
	d := o.Domain()
	d[0] = "MUTATED"
	if o.Domain()[0] != "LOW" {
		t.Error("Domain() must not expose internal slice")
	}
	m := o.Modifiers()
	m[0] = modifier.Equals
	if o.Modifiers()[0] != modifier.Includes {
		t.Error("Modifiers() must not expose internal slice")
	}
}

func TestMakeCriterion_StartsWithDefault(t *testing.T) {
	for _, o := range testOptions() {
		c := o.MakeCriterion()
		if c.Modifier() != o.DefaultModifier() {
			t.Errorf("%s: modifier = %q, want %q", o.Type(), c.Modifier(), o.DefaultModifier())
		}
		if c.Kind() != o.Kind() {
			t.Errorf("%s: kind = %q, want %q", o.Type(), c.Kind(), o.Kind())
		}
		if c.Option() != o {
			t.Errorf("%s: criterion must reference its option", o.Type())
		}
	}
}

func TestSetModifier_RejectsDisallowed(t *testing.T) {
	c := NewStringOption("title").MakeCriterion()
	err := c.SetModifier(modifier.Between)
	if !errors.Is(err, domain.ErrInvalidModifier) {
		t.Fatalf("err = %v, want ErrInvalidModifier", err)
	}
	var me *domain.ModifierError
	if !errors.As(err, &me) || me.Type != "title" || me.Modifier != "BETWEEN" {
		t.Errorf("unexpected error detail: %+v", me)
	}
	if c.Modifier() != modifier.Equals {
		t.Errorf("modifier changed to %q after rejection", c.Modifier())
	}
}

func TestIsValid_NullCheckAlwaysValid(t *testing.T) {
	for _, o := range testOptions() {
		for _, m := range []modifier.Modifier{modifier.IsNull, modifier.NotNull} {
			if !o.Allows(m) {
				continue
			}
			c := o.MakeCriterion()
			if err := c.SetModifier(m); err != nil {
				t.Fatalf("%s: %v", o.Type(), err)
			}
			if !c.IsValid() {
				t.Errorf("%s with %s on empty value should be valid", o.Type(), m)
			}
			fill(t, c)
			if !c.IsValid() {
				t.Errorf("%s with %s on filled value should be valid", o.Type(), m)
			}
		}
	}
}

func TestIsValid_EmptyValueInvalid(t *testing.T) {
	for _, o := range testOptions() {
		if o.Kind() == KindBoolean {
			continue
		}
		c := o.MakeCriterion()
		if c.IsValid() {
			t.Errorf("%s: fresh criterion with %s should be invalid", o.Type(), c.Modifier())
		}
		fill(t, c)
		if !c.IsValid() {
			t.Errorf("%s: filled criterion should be valid", o.Type())
		}
	}
}

func TestIsValid_RangeNeedsValue2(t *testing.T) {
	for _, m := range []modifier.Modifier{modifier.Between, modifier.NotBetween} {
		n := NewNumber(NewNumberOption("rating100"))
		if err := n.SetModifier(m); err != nil {
			t.Fatal(err)
		}
		n.SetValue(NumberValue{Value: Int(1)})
		if n.IsValid() {
			t.Errorf("number %s without value2 should be invalid", m)
		}
		n.SetValue(NumberValue{Value: Int(1), Value2: Int(2)})
		if !n.IsValid() {
			t.Errorf("number %s with value2 should be valid", m)
		}

		d := NewDate(NewDateOption("date"))
		if err := d.SetModifier(m); err != nil {
			t.Fatal(err)
		}
		d.SetValue(DateValue{Value: "2024-01-01"})
		if d.IsValid() {
			t.Errorf("date %s without value2 should be invalid", m)
		}
		d.SetValue(DateValue{Value: "2024-01-01", Value2: "2024-12-31"})
		if !d.IsValid() {
			t.Errorf("date %s with value2 should be valid", m)
		}
	}

	n := NewNumber(NewNumberOption("rating100"))
	n.SetValue(NumberValue{Value: Int(3)})
	if !n.IsValid() {
		t.Error("EQUALS does not need value2")
	}
}

func TestIsValid_Domains(t *testing.T) {
	flag := NewString(NewFlagOption("is_missing", []string{"title"}))
	flag.SetValue("rating")
	if flag.IsValid() {
		t.Error("flag value outside domain should be invalid")
	}

	e := NewEnum(NewEnumOption("resolution", []string{"LOW"}))
	e.SetValue([]string{"LOW", "HUGE"})
	if e.IsValid() {
		t.Error("enum value outside domain should be invalid")
	}

	b := NewBoolean(NewBooleanOption("organized"))
	b.SetValue("maybe")
	if b.IsValid() {
		t.Error("boolean accepts only true/false")
	}
}

func TestRoundTrip_EveryKindAndModifier(t *testing.T) {
	opts := testOptions()
	lookup := testLookup(opts)
	for _, o := range opts {
		for _, m := range allModifiers(o) {
			t.Run(o.Type()+"/"+string(m), func(t *testing.T) {
				c := o.MakeCriterion()
				fill(t, c)
				if err := c.SetModifier(m); err != nil {
					t.Fatalf("SetModifier: %v", err)
				}
				data, err := Encode(c)
				if err != nil {
					t.Fatalf("Encode: %v", err)
				}
				got, err := Decode(data, lookup)
				if err != nil {
					t.Fatalf("Decode(%s): %v", data, err)
				}
				if !Equal(c, got) {
					again, _ := Encode(got)
					t.Errorf("round trip mismatch:\n got %s\nwant %s", again, data)
				}
				if got.Key() != c.Key() {
					t.Errorf("key = %+v, want %+v", got.Key(), c.Key())
				}
			})
		}
	}
}

func TestEncode_NullCheckOmitsValue(t *testing.T) {
	for _, o := range testOptions() {
		if !o.Allows(modifier.IsNull) {
			continue
		}
		c := o.MakeCriterion()
		fill(t, c)
		if err := c.SetModifier(modifier.IsNull); err != nil {
			t.Fatal(err)
		}
		data, err := Encode(c)
		if err != nil {
			t.Fatal(err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatal(err)
		}
		if _, ok := raw["value"]; ok {
			t.Errorf("%s: serialized null check carries value: %s", o.Type(), data)
		}

		qi, err := json.Marshal(c.QueryInput())
		if err != nil {
			t.Fatal(err)
		}
		raw = nil
		if err := json.Unmarshal(qi, &raw); err != nil {
			t.Fatal(err)
		}
		if _, ok := raw["value"]; ok {
			t.Errorf("%s: query input of null check carries value: %s", o.Type(), qi)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	lookup := testLookup(testOptions())
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown type", `{"type":"nope","modifier":"EQUALS","value":"x"}`, domain.ErrUnknownCriterionType},
		{"bad modifier", `{"type":"title","modifier":"BETWEEN","value":"x"}`, domain.ErrInvalidModifier},
		{"wrong shape", `{"type":"performers","modifier":"INCLUDES","value":{"value":1}}`, domain.ErrInvalidValue},
		{"string for range", `{"type":"date","modifier":"EQUALS","value":"2024-01-01"}`, domain.ErrInvalidValue},
		{"unknown field", `{"type":"phash_distance","modifier":"EQUALS","value":{"value":"a","dist":1}}`, domain.ErrInvalidValue},
		{"not json", `{"type":`, domain.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in), lookup)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_MissingModifierKeepsDefault(t *testing.T) {
	c, err := Decode([]byte(`{"type":"performers","value":[{"id":"1","label":"A"}]}`), testLookup(testOptions()))
	if err != nil {
		t.Fatal(err)
	}
	if c.Modifier() != modifier.IncludesAll {
		t.Errorf("modifier = %q, want INCLUDES_ALL", c.Modifier())
	}
}

func TestDecode_LegacyBareNumber(t *testing.T) {
	c, err := Decode([]byte(`{"type":"rating100","modifier":"GREATER_THAN","value":60}`), testLookup(testOptions()))
	if err != nil {
		t.Fatal(err)
	}
	n := c.(*NumberCriterion)
	v := n.Value()
	if v.Value == nil || *v.Value != 60 || v.Value2 != nil {
		t.Errorf("value = %+v, want {60, nil}", v)
	}
}

func TestQueryInput_Shapes(t *testing.T) {
	tests := []struct {
		name string
		c    func() Criterion
		want string
	}{
		{"string", func() Criterion {
			c := NewString(NewStringOption("title"))
			c.SetValue("foo")
			_ = c.SetModifier(modifier.Includes)
			return c
		}, `{"value":"foo","modifier":"INCLUDES"}`},
		{"flag", func() Criterion {
			c := NewString(NewFlagOption("is_missing", []string{"date"}))
			c.SetValue("date")
			return c
		}, `"date"`},
		{"boolean", func() Criterion {
			c := NewBoolean(NewBooleanOption("organized"))
			return c
		}, `true`},
		{"string boolean", func() Criterion {
			c := NewBoolean(NewStringBooleanOption("has_markers"))
			c.SetValue("false")
			return c
		}, `"false"`},
		{"number equals drops value2", func() Criterion {
			c := NewNumber(NewNumberOption("rating100"))
			c.SetValue(NumberValue{Value: Int(5), Value2: Int(9)})
			return c
		}, `{"modifier":"EQUALS","value":5}`},
		{"number between", func() Criterion {
			c := NewNumber(NewNumberOption("rating100"))
			c.SetValue(NumberValue{Value: Int(5), Value2: Int(9)})
			_ = c.SetModifier(modifier.Between)
			return c
		}, `{"modifier":"BETWEEN","value":5,"value2":9}`},
		{"timestamp normalised", func() Criterion {
			c := NewTimestamp(NewTimestampOption("created_at"))
			c.SetValue(DateValue{Value: "2024-01-02 03:04", Value2: "garbage"})
			_ = c.SetModifier(modifier.Between)
			return c
		}, `{"modifier":"BETWEEN","value":"2024-01-02T03:04","value2":""}`},
		{"labeled ids", func() Criterion {
			c := NewLabeledIDs(NewLabeledIDOption("performers", true, InputPerformers))
			c.SetValue([]LabeledID{{ID: "1", Label: "A"}, {ID: "2", Label: "B"}})
			return c
		}, `{"modifier":"INCLUDES_ALL","value":["1","2"]}`},
		{"hierarchical equals forces depth 0", func() Criterion {
			c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
			_ = c.SetModifier(modifier.Equals)
			c.SetValue(HierarchicalValue{Items: []LabeledID{{ID: "1", Label: "A"}}, Depth: DepthAll})
			return c
		}, `{"modifier":"EQUALS","value":["1"],"depth":0}`},
		{"hierarchical excludes", func() Criterion {
			c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
			c.SetValue(HierarchicalValue{
				Items:    []LabeledID{{ID: "1", Label: "A"}},
				Excluded: []LabeledID{{ID: "2", Label: "B"}},
				Depth:    2,
			})
			return c
		}, `{"modifier":"INCLUDES_ALL","value":["1"],"excludes":["2"],"depth":2}`},
		{"stash id", func() Criterion {
			c := NewStashID(NewStashIDOption("stash_id_endpoint"))
			c.SetValue(StashIDValue{StashID: "abc"})
			return c
		}, `{"modifier":"EQUALS","stash_id":"abc"}`},
		{"phash", func() Criterion {
			c := NewPhash(NewPhashOption("phash_distance"))
			c.SetValue(PhashValue{Value: "ff", Distance: Int(0)})
			return c
		}, `{"modifier":"EQUALS","value":"ff","distance":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.c().QueryInput())
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("QueryInput = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := map[string]string{
		"2024-01-02":          "2024-01-02",
		"2024-01-02 10:30":    "2024-01-02T10:30",
		"2024-01-02T10:30":    "2024-01-02T10:30",
		" 2024-01-02 10:30 ":  "2024-01-02T10:30",
		"2024-1-2":            "",
		"yesterday":           "",
		"2024-01-02 10:30:00": "",
	}
	for in, want := range tests {
		if got := NormalizeTimestamp(in); got != want {
			t.Errorf("NormalizeTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHierarchical_ModifierClearsExcluded(t *testing.T) {
	c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
	c.SetValue(HierarchicalValue{
		Items:    []LabeledID{{ID: "1", Label: "A"}},
		Excluded: []LabeledID{{ID: "2", Label: "B"}},
	})

	if err := c.SetModifier(modifier.Includes); err != nil {
		t.Fatal(err)
	}
	if len(c.Value().Excluded) != 1 {
		t.Error("Includes must keep excluded")
	}
	if err := c.SetModifier(modifier.Equals); err != nil {
		t.Fatal(err)
	}
	if len(c.Value().Excluded) != 0 {
		t.Error("Equals must clear excluded")
	}
	if len(c.Value().Items) != 1 {
		t.Error("items must survive a modifier change")
	}
}

func TestHierarchical_Depth(t *testing.T) {
	c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
	c.IncludeDescendants(true)
	if c.Value().Depth != DepthAll || !c.IncludesDescendants() {
		t.Errorf("depth = %d, want -1", c.Value().Depth)
	}
	c.IncludeDescendants(false)
	if c.Value().Depth != DepthExact {
		t.Errorf("depth = %d, want 0", c.Value().Depth)
	}
	if err := c.SetDepth(3); err != nil || c.Value().Depth != 3 {
		t.Errorf("SetDepth(3) = %v, depth %d", err, c.Value().Depth)
	}
	if err := c.SetDepth(-1); !errors.Is(err, domain.ErrInvalidValue) {
		t.Errorf("SetDepth(-1) err = %v, want ErrInvalidValue", err)
	}
	if c.Value().Depth != 3 {
		t.Error("rejected depth must not change the value")
	}
}

func TestHierarchical_LegacyExcludes(t *testing.T) {
	in := `{"type":"tags","modifier":"EXCLUDES","value":{"items":[{"id":"1","label":"A"}],"excluded":[],"depth":0}}`
	c, err := Decode([]byte(in), testLookup(testOptions()))
	if err != nil {
		t.Fatal(err)
	}
	h := c.(*HierarchicalCriterion)
	if h.Modifier() != modifier.Includes {
		t.Errorf("modifier = %q, want INCLUDES", h.Modifier())
	}
	v := h.Value()
	if len(v.Items) != 0 || len(v.Excluded) != 1 || v.Excluded[0].ID != "1" {
		t.Errorf("value = %+v, want items moved to excluded", v)
	}
}

func TestHierarchical_DecodeDepth(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantErr bool
	}{
		{"all descendants", -1, false},
		{"exact", 0, false},
		{"explicit", 3, false},
		{"below sentinel", -7, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := fmt.Sprintf(`{"type":"tags","modifier":"INCLUDES","value":{"items":[{"id":"1","label":"A"}],"excluded":[],"depth":%d}}`, tc.depth)
			c, err := Decode([]byte(in), testLookup(testOptions()))
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidValue) {
					t.Errorf("err = %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := c.(*HierarchicalCriterion).Value().Depth; got != tc.depth {
				t.Errorf("depth = %d, want %d", got, tc.depth)
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	for _, o := range testOptions() {
		c := o.MakeCriterion()
		fill(t, c)
		cl := c.Clone()
		if !Equal(c, cl) {
			t.Errorf("%s: clone differs", o.Type())
		}
	}

	c := NewLabeledIDs(NewLabeledIDOption("performers", true, InputPerformers))
	c.SetValue([]LabeledID{{ID: "1", Label: "A"}})
	cl := c.Clone().(*LabeledIDsCriterion)
	cl.SetValue(append(cl.Value(), LabeledID{ID: "2", Label: "B"}))
	if len(c.Value()) != 1 {
		t.Error("mutating clone changed original")
	}

	src := []LabeledID{{ID: "1", Label: "A"}}
	c.SetValue(src)
	src[0].ID = "X"
	if c.Value()[0].ID != "1" {
		t.Error("SetValue must copy the caller's slice")
	}

	n := NewNumber(NewNumberOption("rating100"))
	n.SetValue(NumberValue{Value: Int(1)})
	ncl := n.Clone().(*NumberCriterion)
	*ncl.value.Value = 99
	if *n.Value().Value != 1 {
		t.Error("number clone aliases value pointer")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		c    func() Criterion
		want string
	}{
		{"string", func() Criterion {
			c := NewString(NewStringOption("title"))
			c.SetValue("foo")
			return c
		}, "title is foo"},
		{"null check omits value", func() Criterion {
			c := NewString(NewStringOption("title"))
			c.SetValue("foo")
			_ = c.SetModifier(modifier.IsNull)
			return c
		}, "title is null"},
		{"number range", func() Criterion {
			c := NewNumber(NewNumberOption("rating100"))
			c.SetValue(NumberValue{Value: Int(20), Value2: Int(80)})
			_ = c.SetModifier(modifier.Between)
			return c
		}, "rating100 between 20, 80"},
		{"duration", func() Criterion {
			c := NewDuration(NewDurationOption("duration"))
			c.SetValue(NumberValue{Value: Int(3725)})
			_ = c.SetModifier(modifier.GreaterThan)
			return c
		}, "duration is greater than 01:02:05"},
		{"duration under an hour", func() Criterion {
			c := NewDuration(NewDurationOption("duration"))
			c.SetValue(NumberValue{Value: Int(330)})
			return c
		}, "duration is 05:30"},
		{"labeled ids", func() Criterion {
			c := NewLabeledIDs(NewLabeledIDOption("performers", true, InputPerformers))
			c.SetValue([]LabeledID{{ID: "1", Label: "Ann"}, {ID: "2", Label: "Bo"}})
			return c
		}, "performers includes all Ann, Bo"},
		{"hierarchical depth and excludes", func() Criterion {
			c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
			c.SetValue(HierarchicalValue{
				Items:    []LabeledID{{ID: "1", Label: "Outdoor"}},
				Excluded: []LabeledID{{ID: "2", Label: "Night"}},
				Depth:    DepthAll,
			})
			return c
		}, "tags includes all Outdoor (+all, excludes: Night)"},
		{"hierarchical only excluded", func() Criterion {
			c := NewHierarchical(NewHierarchicalOption("tags", true, InputTags))
			c.SetValue(HierarchicalValue{Excluded: []LabeledID{{ID: "2", Label: "Night"}}})
			return c
		}, "tags excludes Night"},
		{"boolean", func() Criterion {
			c := NewBoolean(NewBooleanOption("organized"))
			c.SetValue("false")
			return c
		}, "organized is false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c().Label(English); got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabel_CustomFormatter(t *testing.T) {
	var ids []string
	f := FormatterFunc(func(id string, args map[string]string) string {
		ids = append(ids, id)
		return strings.ToUpper(id)
	})
	c := NewString(NewStringOption("title", WithMessageID("scene.title")))
	c.SetValue("x")
	c.Label(f)
	want := []string{"scene.title", "criterion_modifier.equals", MsgFormat}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("formatter ids = %v, want %v", ids, want)
	}
}
