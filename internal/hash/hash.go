/*
Copyright © 2024 the climplot authors.
This file is part of climplot.

climplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climplot.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hash creates cache keys for reduction requests.
package hash

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Request identifies the reduction of one model of one variable.
type Request struct {
	Op       string // name of the reduction
	Dataset  string // dataset identity
	Variable string
	Model    int

	// Start and End are the years of the period the reduction is
	// restricted to. Both are zero for reductions over all times.
	Start, End int
}

// Key returns the cache key for r.
func Key(r Request) string {
	h := fnv.New128a()
	for _, s := range []string{r.Op, r.Dataset, r.Variable} {
		// The length prefix keeps ("ab", "c") and ("a", "bc") apart.
		binary.Write(h, binary.LittleEndian, int64(len(s)))
		h.Write([]byte(s))
	}
	binary.Write(h, binary.LittleEndian, []int64{int64(r.Model), int64(r.Start), int64(r.End)})
	return fmt.Sprintf("%s_%x", r.Op, h.Sum(nil))
}
