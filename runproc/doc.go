// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runproc provides tools for filtering, grouping, and sorting
// experiment runs by their names.
//
// Runs are classified by three regular expressions:
//
// The filter pattern decides whether a run is considered at all.
//
// The group pattern maps a run name to a group Key. Runs with equal
// group Keys are aggregated together.
//
// The name pattern maps a run name to the display label shown for the
// group. Only the first run seen for a group decides its label.
//
// All three patterns are matched against a prefix of the run name, the
// way Python's re.match does, and accept (?P<name>...) named groups.
// Named groups in the group pattern become attributes of the group,
// such as the game or variant tag of a run.
//
// How a match becomes a Key is decided by a KeyPolicy.
package runproc
