// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"fmt"
	"regexp"
	"strings"
)

// A KeyPolicy decides how a pattern match becomes a Key.
type KeyPolicy int

const (
	// LastGroup keys a run by the last captured group, or by the
	// whole match if the pattern has no capturing groups.
	LastGroup KeyPolicy = iota

	// Tuple keys a run by the tuple of all captured groups, or by
	// the unchanged run name if the pattern has no capturing
	// groups.
	Tuple
)

var keyPolicyNames = map[string]KeyPolicy{
	"last":  LastGroup,
	"tuple": Tuple,
}

// ParseKeyPolicy parses "last" or "tuple".
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	p, ok := keyPolicyNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown key policy %q (want last or tuple)", s)
	}
	return p, nil
}

func (p KeyPolicy) String() string {
	switch p {
	case LastGroup:
		return "last"
	case Tuple:
		return "tuple"
	}
	return fmt.Sprintf("KeyPolicy(%d)", int(p))
}

// A Pattern is a regular expression that matches a prefix of a run
// name.
type Pattern struct {
	src string
	re  *regexp.Regexp
}

// CompilePattern compiles src into a prefix-anchored Pattern.
func CompilePattern(src string) (*Pattern, error) {
	re, err := regexp.Compile(`^(?:` + src + `)`)
	if err != nil {
		// Report the user's pattern, not our wrapped one.
		if _, err2 := regexp.Compile(src); err2 != nil {
			err = err2
		}
		return nil, fmt.Errorf("bad pattern %q: %w", src, err)
	}
	return &Pattern{src, re}, nil
}

// String returns the source text of p as given by the user.
func (p *Pattern) String() string {
	return p.src
}

// MatchString reports whether p matches a prefix of s.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// NumGroups returns the number of capturing groups in p.
func (p *Pattern) NumGroups() int {
	return p.re.NumSubexp()
}

// An Attr is a named group captured from a run name.
type Attr struct {
	Name, Value string
}

// A MatchError reports a run name that passed the filter but that the
// group or name pattern does not match.
type MatchError struct {
	Field   string // "group" or "name"
	Pattern string
	Name    string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s pattern %q does not match run %q", e.Field, e.Pattern, e.Name)
}

// A Classifier decides which runs to keep and how to group and label
// them.
type Classifier struct {
	Filter, Group, Name *Pattern
	Policy              KeyPolicy

	interns interner
}

// NewClassifier compiles the filter, group, and name patterns. An empty
// group pattern defaults to the filter pattern, and an empty name
// pattern defaults to the group pattern.
func NewClassifier(filter, group, name string, policy KeyPolicy) (*Classifier, error) {
	c := &Classifier{Policy: policy, interns: make(interner)}
	var err error
	if c.Filter, err = CompilePattern(filter); err != nil {
		return nil, err
	}
	c.Group = c.Filter
	if group != "" {
		if c.Group, err = CompilePattern(group); err != nil {
			return nil, err
		}
	}
	c.Name = c.Group
	if name != "" {
		if c.Name, err = CompilePattern(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Keep reports whether the filter pattern accepts the run name.
func (c *Classifier) Keep(name string) bool {
	return c.Filter.MatchString(name)
}

// A Classification is the result of classifying a run name.
type Classification struct {
	// Group is the key of the group the run belongs to.
	Group Key
	// Display is the label for the group derived from this run.
	Display Key
	// Attrs are the named groups captured by the group pattern, in
	// pattern order. Groups that did not participate in the match
	// are omitted.
	Attrs []Attr
}

// Classify derives the group key, display label, and attributes of a
// run name. It does not apply the filter; callers check Keep first.
// If the group or name pattern fails to match, Classify returns a
// *MatchError.
func (c *Classifier) Classify(name string) (Classification, error) {
	var cl Classification
	gm := c.Group.re.FindStringSubmatchIndex(name)
	if gm == nil {
		return cl, &MatchError{"group", c.Group.src, name}
	}
	cl.Group = c.key(c.Group, name, gm)
	for i, sub := range c.Group.re.SubexpNames() {
		if sub == "" || gm[2*i] < 0 {
			continue
		}
		cl.Attrs = append(cl.Attrs, Attr{sub, name[gm[2*i]:gm[2*i+1]]})
	}

	nm := gm
	if c.Name != c.Group {
		if nm = c.Name.re.FindStringSubmatchIndex(name); nm == nil {
			return cl, &MatchError{"name", c.Name.src, name}
		}
	}
	cl.Display = c.key(c.Name, name, nm)
	return cl, nil
}

// key builds the Key for a match m of p against name under c.Policy.
// Unset groups contribute "".
func (c *Classifier) key(p *Pattern, name string, m []int) Key {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return name[m[2*i]:m[2*i+1]]
	}
	n := p.NumGroups()
	switch c.Policy {
	case Tuple:
		if n == 0 {
			return c.interns.key([]string{name}, false)
		}
		vals := make([]string, n)
		for i := range vals {
			vals[i] = group(i + 1)
		}
		return c.interns.key(vals, true)
	default:
		if n == 0 {
			return c.interns.key([]string{group(0)}, false)
		}
		return c.interns.key([]string{group(n)}, false)
	}
}
