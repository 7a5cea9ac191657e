// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lookup

import (
	"slices"

	"github.com/consensys/go-zkvm/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Balance accumulates, for each concrete interaction tuple, the difference
// between the multiplicity with which it was sent and that with which it was
// received.  Sends count positively and receives negatively.  A set of traces
// is consistent if every tuple balances to zero.
type Balance[F field.Element[F]] struct {
	entries map[string]*BalanceEntry[F]
	// Running total over all keys
	total F
	// Distinct tuples encountered per chip
	events map[string]uint
}

// BalanceEntry records the discrepancy for one tuple, both overall and by
// contributing chip.
type BalanceEntry[F field.Element[F]] struct {
	Key     string
	Total   F
	PerChip map[string]F
}

// NewBalance constructs an empty balance sheet.
func NewBalance[F field.Element[F]]() *Balance[F] {
	return &Balance[F]{make(map[string]*BalanceEntry[F]), field.Zero[F](), make(map[string]uint)}
}

// Add records that a given chip sent (or received) a tuple with the given key
// and multiplicity.
func (p *Balance[F]) Add(chip string, key string, multiplicity F, send bool) {
	if !send {
		multiplicity = multiplicity.Neg()
	}
	//
	entry, ok := p.entries[key]
	//
	if !ok {
		entry = &BalanceEntry[F]{key, field.Zero[F](), make(map[string]F)}
		p.entries[key] = entry
	}
	//
	if _, ok := entry.PerChip[chip]; !ok {
		p.events[chip]++
	}
	//
	entry.Total = entry.Total.Add(multiplicity)
	entry.PerChip[chip] = entry.PerChip[chip].Add(multiplicity)
	p.total = p.total.Add(multiplicity)
}

// Total returns the sum of all discrepancies.  Observe that this can be zero
// even when individual tuples do not balance.
func (p *Balance[F]) Total() F {
	return p.total
}

// Events returns the number of distinct tuples a given chip took part in.
func (p *Balance[F]) Events(chip string) uint {
	return p.events[chip]
}

// IsBalanced checks whether every tuple balances.
func (p *Balance[F]) IsBalanced() bool {
	for _, e := range p.entries {
		if !e.Total.IsZero() {
			return false
		}
	}
	//
	return true
}

// Discrepancies returns those tuples which do not balance, sorted by key.
func (p *Balance[F]) Discrepancies() []*BalanceEntry[F] {
	var entries []*BalanceEntry[F]
	//
	for _, e := range p.entries {
		if !e.Total.IsZero() {
			entries = append(entries, e)
		}
	}
	//
	slices.SortFunc(entries, func(l, r *BalanceEntry[F]) int {
		if l.Key < r.Key {
			return -1
		} else if l.Key > r.Key {
			return 1
		}
		//
		return 0
	})
	//
	return entries
}

// Log reports all discrepancies at info level.  Discrepancies are shown as
// signed integers, such that positive values indicate more sends than
// receives.
func (p *Balance[F]) Log() {
	discrepancies := p.Discrepancies()
	//
	if len(discrepancies) == 0 {
		log.Info("all chips have the same number of sends and receives")
		return
	}
	//
	for _, e := range discrepancies {
		log.Infof("interaction %s has send-receive discrepancy %s", e.Key, field.Signed(e.Total))
		//
		for _, chip := range sortedKeys(e.PerChip) {
			log.Infof("  chip %s contributes %s", chip, field.Signed(e.PerChip[chip]))
		}
	}
	//
	if p.total.IsZero() {
		log.Info("total sends and receives match, but the tuples do not")
	} else {
		log.Infof("total send-receive discrepancy is %s", field.Signed(p.total))
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	//
	for k := range m {
		keys = append(keys, k)
	}
	//
	slices.Sort(keys)
	//
	return keys
}
