// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package normalize compares benchmark scores against reference
// baselines.
//
// Baselines holds three read-only score tables keyed by canonical
// benchmark identifier: human, state of the art, and an alternate
// method. Run labels are mapped to canonical identifiers by Resolve,
// and a Normalizer divides observed scores by the baselines.
package normalize

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed atari.yaml
var atariYAML []byte

// Baselines is a set of reference score tables. A Baselines is
// immutable and safe for concurrent use.
type Baselines struct {
	human, sota, alt map[string]float64

	// byLength is the human table identifiers, longest first and
	// then alphabetically.
	byLength []string
}

type baselinesFile struct {
	Human     map[string]float64 `yaml:"human"`
	SOTA      map[string]float64 `yaml:"sota"`
	Alternate map[string]float64 `yaml:"alternate"`
}

// Parse parses a YAML document with "human", "sota", and "alternate"
// mappings from identifier to score. The human table must not be
// empty.
func Parse(data []byte) (*Baselines, error) {
	var f baselinesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing baselines: %w", err)
	}
	if len(f.Human) == 0 {
		return nil, fmt.Errorf("parsing baselines: no human scores")
	}
	b := &Baselines{human: f.Human, sota: f.SOTA, alt: f.Alternate}
	for id := range b.human {
		b.byLength = append(b.byLength, id)
	}
	sort.Slice(b.byLength, func(i, j int) bool {
		x, y := b.byLength[i], b.byLength[j]
		if len(x) != len(y) {
			return len(x) > len(y)
		}
		return x < y
	})
	return b, nil
}

// Load reads baselines from a YAML file. See Parse.
func Load(path string) (*Baselines, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

var (
	defaultOnce      sync.Once
	defaultBaselines *Baselines
)

// Default returns the built-in Atari-57 baselines.
func Default() *Baselines {
	defaultOnce.Do(func() {
		b, err := Parse(atariYAML)
		if err != nil {
			panic("normalize: bad built-in baselines: " + err.Error())
		}
		defaultBaselines = b
	})
	return defaultBaselines
}

// Human returns the human baseline for id.
func (b *Baselines) Human(id string) (float64, bool) {
	v, ok := b.human[id]
	return v, ok
}

// SOTA returns the state-of-the-art baseline for id.
func (b *Baselines) SOTA(id string) (float64, bool) {
	v, ok := b.sota[id]
	return v, ok
}

// Alternate returns the alternate-method baseline for id.
func (b *Baselines) Alternate(id string) (float64, bool) {
	v, ok := b.alt[id]
	return v, ok
}

// IDs returns the identifiers of the human table in sorted order.
func (b *Baselines) IDs() []string {
	ids := append([]string(nil), b.byLength...)
	sort.Strings(ids)
	return ids
}

// Resolve maps a label to a canonical identifier. A label is one or more
// parts, as produced by a tuple key.
//
// For each part in turn, the longest human table identifier that
// occurs in the part wins. Failing that, each part is split on
// underscores and its words capitalized and joined ("bank_heist"
// becomes "BankHeist"); the first result in the human table wins.
// Otherwise Resolve returns the parts joined by spaces.
func (b *Baselines) Resolve(label []string) string {
	for _, part := range label {
		for _, id := range b.byLength {
			if strings.Contains(part, id) {
				return id
			}
		}
	}
	for _, part := range label {
		words := strings.Split(part, "_")
		for i, w := range words {
			words[i] = capitalize(w)
		}
		if id := strings.Join(words, ""); b.has(id) {
			return id
		}
	}
	return strings.Join(label, " ")
}

func (b *Baselines) has(id string) bool {
	_, ok := b.human[id]
	return ok
}

// capitalize upper-cases the first rune of s and lower-cases the rest.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
