// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"sort"
	"strconv"
	"strings"
)

// A Key is an immutable group or display key derived from a run name.
// It is either a single value or a tuple of captured values. Two Keys
// from the same Classifier are == if they have identical values and
// shape, so Keys can be used as map keys.
type Key struct {
	k *keyNode
}

// keyNode is the interned object backing a Key.
type keyNode struct {
	vals  []string
	tuple bool
}

// IsZero reports whether k is a zeroed Key.
func (k Key) IsZero() bool {
	return k.k == nil
}

// IsTuple reports whether k was built from a tuple of captured groups.
func (k Key) IsTuple() bool {
	return k.k != nil && k.k.tuple
}

// Values returns a copy of the values in k.
func (k Key) Values() []string {
	if k.IsZero() {
		return nil
	}
	return append([]string(nil), k.k.vals...)
}

// String returns the values of k separated by spaces.
func (k Key) String() string {
	if k.IsZero() {
		return "<zero>"
	}
	return strings.Join(k.k.vals, " ")
}

// Less reports whether k sorts before o. Keys are ordered
// lexicographically by value, and a prefix sorts first.
func (k Key) Less(o Key) bool {
	return less(k.k, o.k)
}

func less(a, b *keyNode) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	for i := 0; i < len(a.vals) && i < len(b.vals); i++ {
		if a.vals[i] != b.vals[i] {
			return a.vals[i] < b.vals[i]
		}
	}
	return len(a.vals) < len(b.vals)
}

// SortKeys sorts keys in place using Key.Less.
func SortKeys(keys []Key) {
	sort.SliceStable(keys, func(i, j int) bool {
		return less(keys[i].k, keys[j].k)
	})
}

// interner hands out one keyNode per distinct key.
type interner map[string]*keyNode

func (in interner) key(vals []string, tuple bool) Key {
	var b strings.Builder
	if tuple {
		b.WriteByte('t')
	} else {
		b.WriteByte('s')
	}
	// Length-prefix each value so distinct tuples get distinct ids.
	for _, v := range vals {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	id := b.String()
	if n, ok := in[id]; ok {
		return Key{n}
	}
	n := &keyNode{vals: append([]string(nil), vals...), tuple: tuple}
	in[id] = n
	return Key{n}
}
