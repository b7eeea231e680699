// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const DefaultMaxDepth = 64

var teamPropertyPattern = regexp.MustCompile(`\.team\b`)

type MatchKind int

const (
	MatchTeamProperty MatchKind = iota
	MatchTeamRelation
)

// Match is a single team reference found inside a JSON value. Path is the dot-joined location
// of the string that matched; it is empty for the root and for raw-text matches.
type Match struct {
	Path     string
	Kind     MatchKind
	Relation string
}

// Pattern renders the reference the way it appears in expressions.
func (m Match) Pattern() string {
	if m.Kind == MatchTeamProperty {
		return ".team"
	}

	return ".relations." + m.Relation
}

type relationPattern struct {
	id string
	re *regexp.Regexp
}

// Matcher finds references to the team meta-property and to known team relations in
// arbitrary JSON documents.
type Matcher struct {
	relations []relationPattern
	maxDepth  int
	rawText   bool
}

type MatcherOption func(*Matcher)

func WithMaxDepth(depth int) MatcherOption {
	return func(m *Matcher) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

// WithRawText additionally matches against the serialized form of the document, which catches
// references spanning key names. Subtrees beyond the depth limit are left out of the text. It
// only contributes patterns no string leaf matched.
func WithRawText() MatcherOption {
	return func(m *Matcher) {
		m.rawText = true
	}
}

func NewMatcher(relationIDs []string, opts ...MatcherOption) *Matcher {
	m := &Matcher{maxDepth: DefaultMaxDepth}
	for _, id := range relationIDs {
		m.relations = append(m.relations, relationPattern{
			id: id,
			re: regexp.MustCompile(`\.relations\.` + regexp.QuoteMeta(id) + `\b`),
		})
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// MatchString tests a single expression.
func (m *Matcher) MatchString(s string) []Match {
	var out []Match
	m.matchString(s, "", newMatchSet(), &out)

	return out
}

// MatchJSON walks a raw JSON document. Invalid JSON yields no matches.
func (m *Matcher) MatchJSON(raw []byte) []Match {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}

	return m.Match(gjson.ParseBytes(raw))
}

// Match walks value and returns every distinct (path, pattern) match in document order.
func (m *Matcher) Match(value gjson.Result) []Match {
	var out []Match
	seen := newMatchSet()
	m.walk(value, nil, 0, seen, &out)

	if m.rawText && value.Type == gjson.JSON {
		var text strings.Builder
		m.boundedRaw(value, 0, &text)

		var raw []Match
		m.matchString(text.String(), "", newMatchSet(), &raw)
		for _, r := range raw {
			if !seen.hasPattern(r.Pattern()) {
				seen.add(r)
				out = append(out, r)
			}
		}
	}

	return out
}

func (m *Matcher) walk(value gjson.Result, path []string, depth int, seen *matchSet, out *[]Match) {
	if depth > m.maxDepth {
		return
	}

	switch {
	case value.Type == gjson.String:
		m.matchString(value.Str, strings.Join(path, "."), seen, out)
	case value.IsArray():
		for i, item := range value.Array() {
			m.walk(item, append(path, strconv.Itoa(i)), depth+1, seen, out)
		}
	case value.IsObject():
		value.ForEach(func(key, item gjson.Result) bool {
			m.walk(item, append(path, key.String()), depth+1, seen, out)
			return true
		})
	}
}

// boundedRaw writes value as compact JSON with every node deeper than the walk would visit
// replaced by null.
func (m *Matcher) boundedRaw(value gjson.Result, depth int, b *strings.Builder) {
	if depth > m.maxDepth {
		b.WriteString("null")
		return
	}

	switch {
	case value.IsObject():
		b.WriteByte('{')
		first := true
		value.ForEach(func(key, item gjson.Result) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(key.Raw)
			b.WriteByte(':')
			m.boundedRaw(item, depth+1, b)
			return true
		})
		b.WriteByte('}')
	case value.IsArray():
		b.WriteByte('[')
		for i, item := range value.Array() {
			if i > 0 {
				b.WriteByte(',')
			}
			m.boundedRaw(item, depth+1, b)
		}
		b.WriteByte(']')
	default:
		b.WriteString(value.Raw)
	}
}

func (m *Matcher) matchString(s, path string, seen *matchSet, out *[]Match) {
	if teamPropertyPattern.MatchString(s) {
		seen.appendNew(Match{Path: path, Kind: MatchTeamProperty}, out)
	}
	for _, rel := range m.relations {
		if rel.re.MatchString(s) {
			seen.appendNew(Match{Path: path, Kind: MatchTeamRelation, Relation: rel.id}, out)
		}
	}
}

type matchSet struct {
	located  map[string]struct{}
	patterns map[string]struct{}
}

func newMatchSet() *matchSet {
	return &matchSet{located: map[string]struct{}{}, patterns: map[string]struct{}{}}
}

func (s *matchSet) add(m Match) {
	s.located[m.Path+"\x00"+m.Pattern()] = struct{}{}
	s.patterns[m.Pattern()] = struct{}{}
}

func (s *matchSet) hasPattern(p string) bool {
	_, ok := s.patterns[p]
	return ok
}

func (s *matchSet) appendNew(m Match, out *[]Match) {
	key := m.Path + "\x00" + m.Pattern()
	if _, ok := s.located[key]; ok {
		return
	}
	s.add(m)
	*out = append(*out, m)
}

// Describe turns a match into the reason wording used in reports.
func Describe(m Match) string {
	if m.Kind == MatchTeamProperty {
		return "Found reference to team property"
	}

	return fmt.Sprintf("Found reference to old team relation identifier (%s)", m.Pattern())
}

// Distinct formats matches and drops duplicate strings, keeping first-seen order.
func Distinct(matches []Match, format func(Match) string) []string {
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		s := format(m)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
