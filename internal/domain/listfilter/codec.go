package listfilter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// Decoder restores serialized criteria of a collection.
type Decoder interface {
	Decode(m mode.Mode, data []byte) (criterion.Criterion, error)
}

// Params are the filter settings shared by the saved-filter JSON and the URL.
// Criteria are JSON-encoded criterion strings.
type Params struct {
	PerPage  string
	SortBy   string
	SortDir  string
	Q        string
	Page     string
	Criteria []string
}

// Configure resets f from params. Criteria that cannot be restored are skipped
// and reported as warnings; the rest of the filter is still applied.
func (f *Filter) Configure(dec Decoder, p Params) []*domain.DecodeError {
	if p.SortBy != "" {
		f.SortBy = p.SortBy
		f.RandomSeed = NoSeed
		if seed, ok := strings.CutPrefix(p.SortBy, randomPrefix); ok {
			f.SortBy = sortRandom
			if n, err := strconv.Atoi(seed); err == nil {
				f.RandomSeed = n
			}
		}
	}

	f.Direction = Asc
	if p.SortDir == "desc" {
		f.Direction = Desc
	}

	f.SearchTerm = strings.TrimSpace(p.Q)

	f.Page = DefaultPage
	if n, err := strconv.Atoi(p.Page); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(p.PerPage); err == nil && n > 0 {
		f.PerPage = n
	}

	f.criteria = nil
	var warnings []*domain.DecodeError
	for i, raw := range p.Criteria {
		c, err := dec.Decode(f.mode, []byte(raw))
		if err != nil {
			warnings = append(warnings, &domain.DecodeError{Index: i, Type: savedType(raw), Err: err})
			continue
		}
		f.Replace(c)
	}
	return warnings
}

func savedType(raw string) string {
	var s struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal([]byte(raw), &s)
	return s.Type
}

// saved is the persisted filter document.
type saved struct {
	PerPage *int     `json:"perPage,omitempty"`
	SortBy  string   `json:"sortby,omitempty"`
	SortDir string   `json:"sortdir,omitempty"`
	Q       string   `json:"q,omitempty"`
	C       []string `json:"c"`
}

// MarshalSaved encodes f as saved-filter JSON. Criterion values are nested JSON strings.
func (f *Filter) MarshalSaved() ([]byte, error) {
	crit, err := f.encodedCriteria()
	if err != nil {
		return nil, err
	}
	perPage := f.PerPage
	doc := saved{PerPage: &perPage, SortBy: f.Sort(), Q: f.SearchTerm, C: crit}
	if f.Direction == Desc {
		doc.SortDir = "desc"
	}
	return json.Marshal(doc)
}

func (f *Filter) encodedCriteria() ([]string, error) {
	out := make([]string, 0, len(f.criteria))
	for _, c := range f.criteria {
		data, err := criterion.Encode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, string(data))
	}
	return out, nil
}

// FromSaved restores a filter from saved-filter JSON. A malformed document
// fails; individual bad criteria become warnings.
func FromSaved(dec Decoder, m mode.Mode, data []byte) (*Filter, []*domain.DecodeError, error) {
	f, err := New(m, "")
	if err != nil {
		return nil, nil, err
	}
	var doc saved
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode saved filter: %v: %w", err, domain.ErrInvalidValue)
	}
	p := Params{SortBy: doc.SortBy, SortDir: doc.SortDir, Q: doc.Q, Criteria: doc.C}
	if doc.PerPage != nil {
		p.PerPage = strconv.Itoa(*doc.PerPage)
	}
	return f, f.Configure(dec, p), nil
}

// EncodeQuery renders f as URL query parameters. Braces outside JSON strings
// become parentheses so criteria stay readable in the address bar.
// Keys are sorted; defaults are omitted.
func (f *Filter) EncodeQuery() (string, error) {
	crit, err := f.encodedCriteria()
	if err != nil {
		return "", err
	}

	params := map[string][]string{}
	for _, c := range crit {
		params["c"] = append(params["c"], escapeCriterion(translateBraces(c, false)))
	}
	if f.Page != DefaultPage {
		params["p"] = []string{strconv.Itoa(f.Page)}
	}
	if f.PerPage != DefaultPerPage {
		params["perPage"] = []string{strconv.Itoa(f.PerPage)}
	}
	if f.SearchTerm != "" {
		params["q"] = []string{escapeComponent(f.SearchTerm)}
	}
	if s := f.Sort(); s != "" {
		params["sortby"] = []string{escapeComponent(s)}
	}
	if f.Direction == Desc {
		params["sortdir"] = []string{"desc"}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range params[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

// ParseQuery decodes URL query parameters produced by EncodeQuery (or typed by hand).
func ParseQuery(raw string) (Params, error) {
	var p Params
	raw = strings.TrimPrefix(raw, "?")
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "q":
			q, err := url.PathUnescape(strings.ReplaceAll(value, "+", " "))
			if err != nil {
				return Params{}, fmt.Errorf("q: %v: %w", err, domain.ErrInvalidValue)
			}
			if p.Q == "" {
				p.Q = q
			}
		case "c":
			c, err := url.PathUnescape(value)
			if err != nil {
				return Params{}, fmt.Errorf("c: %v: %w", err, domain.ErrInvalidValue)
			}
			p.Criteria = append(p.Criteria, translateBraces(c, true))
		case "sortby":
			s, err := url.PathUnescape(value)
			if err != nil {
				return Params{}, fmt.Errorf("sortby: %v: %w", err, domain.ErrInvalidValue)
			}
			p.SortBy = s
		case "sortdir":
			p.SortDir = value
		case "p":
			p.Page = value
		case "perPage":
			p.PerPage = value
		}
	}
	return p, nil
}

// FromQuery restores a filter from URL query parameters.
func FromQuery(dec Decoder, m mode.Mode, raw string) (*Filter, []*domain.DecodeError, error) {
	f, err := New(m, "")
	if err != nil {
		return nil, nil, err
	}
	p, err := ParseQuery(raw)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Configure(dec, p), nil
}

// translateBraces swaps {} and () outside JSON string literals. Escaped
// characters inside strings are left alone.
func translateBraces(in string, decoding bool) string {
	var b strings.Builder
	b.Grow(len(in))
	inString, escape := false, false
	for _, r := range in {
		if escape {
			escape = false
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			if inString {
				escape = true
			}
		case '"':
			inString = !inString
		case '(':
			if decoding && !inString {
				r = '{'
			}
		case ')':
			if decoding && !inString {
				r = '}'
			}
		case '{':
			if !decoding && !inString {
				r = '('
			}
		case '}':
			if !decoding && !inString {
				r = ')'
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeCriterion percent-encodes like encodeURI, plus the query string
// delimiters ?#&;=+.
func escapeCriterion(s string) string {
	return escape(s, ",/:@$-_.!~*'()")
}

// escapeComponent percent-encodes like encodeURIComponent.
func escapeComponent(s string) string {
	return escape(s, "-_.!~*'()")
}

func escape(s, safe string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}
