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
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Record holds all events of a single shard, grouped by the chip responsible
// for them.  Events are appended during execution and dependency generation,
// after which a record is only read (by trace generation).
type Record struct {
	// Shard being recorded.
	Shard uint32
	// Instructions executed by the cpu.
	CpuEvents []CpuEvent
	// Additions and subtractions.
	AddSubEvents []AluEvent
	// Signed and unsigned comparisons.
	LtEvents []AluEvent
	// Bitwise operations.
	BitwiseEvents []AluEvent
	// Byte lookups, as a multiset.
	ByteLookups map[ByteLookupEvent]uint64
	// Syscalls made by the cpu.
	SyscallEvents []SyscallEvent
	// Invocations of the add-mul precompile.
	AddMulEvents []AddMulEvent
	// Fixed log2 heights for chips.  Chips not listed are padded to the next
	// power of two.
	Shape map[string]uint
}

// NewRecord constructs an empty record for a given shard.
func NewRecord(shard uint32) *Record {
	return &Record{
		Shard:       shard,
		ByteLookups: make(map[ByteLookupEvent]uint64),
		Shape:       make(map[string]uint),
	}
}

// AddAluEvent routes an ALU event to the event list of the chip responsible
// for its opcode.  Events for any other opcode are malformed.
func (r *Record) AddAluEvent(e AluEvent) {
	switch e.Opcode {
	case ADD, SUB:
		r.AddSubEvents = append(r.AddSubEvents, e)
	case SLT, SLTU:
		r.LtEvents = append(r.LtEvents, e)
	case AND, OR, XOR:
		r.BitwiseEvents = append(r.BitwiseEvents, e)
	default:
		panic(fmt.Sprintf("opcode %s is not an ALU operation", e.Opcode))
	}
}

// AddByteLookup increments the multiplicity of a byte lookup.
func (r *Record) AddByteLookup(e ByteLookupEvent) {
	r.ByteLookups[e]++
}

// AddU8Range records range checks for the given bytes, two at a time.  An odd
// byte out is paired with zero.
func (r *Record) AddU8Range(bytes ...uint8) {
	for i := 0; i < len(bytes); i += 2 {
		var c uint8
		//
		if i+1 < len(bytes) {
			c = bytes[i+1]
		}
		//
		r.AddByteLookup(NewByteLookup(U8Range, bytes[i], c))
	}
}

// Append merges the events of another record into this one.
func (r *Record) Append(other *Record) {
	r.CpuEvents = append(r.CpuEvents, other.CpuEvents...)
	r.AddSubEvents = append(r.AddSubEvents, other.AddSubEvents...)
	r.LtEvents = append(r.LtEvents, other.LtEvents...)
	r.BitwiseEvents = append(r.BitwiseEvents, other.BitwiseEvents...)
	r.SyscallEvents = append(r.SyscallEvents, other.SyscallEvents...)
	r.AddMulEvents = append(r.AddMulEvents, other.AddMulEvents...)
	//
	for e, n := range other.ByteLookups {
		r.ByteLookups[e] += n
	}
}

// Clone returns a deep copy of this record.
func (r *Record) Clone() *Record {
	clone := NewRecord(r.Shard)
	clone.Append(r)
	//
	for chip, log2 := range r.Shape {
		clone.Shape[chip] = log2
	}
	//
	return clone
}

// FixedLog2Rows returns the fixed log2 height configured for a given chip, if
// there is one.
func (r *Record) FixedLog2Rows(chip string) (uint, bool) {
	log2, ok := r.Shape[chip]
	//
	return log2, ok
}

// SortedByteLookups returns the distinct byte lookups in a canonical order.
func (r *Record) SortedByteLookups() []ByteLookupEvent {
	var events = make([]ByteLookupEvent, 0, len(r.ByteLookups))
	//
	for e := range r.ByteLookups {
		events = append(events, e)
	}
	//
	slices.SortFunc(events, compareByteLookups)
	//
	return events
}

func compareByteLookups(l, r ByteLookupEvent) int {
	switch {
	case l.Opcode != r.Opcode:
		return int(l.Opcode) - int(r.Opcode)
	case l.B != r.B:
		return int(l.B) - int(r.B)
	case l.C != r.C:
		return int(l.C) - int(r.C)
	default:
		return int(l.A) - int(r.A)
	}
}

// ============================================================================
// Encoding / Decoding
// ============================================================================

type byteLookupCount struct {
	ByteLookupEvent
	Count uint64 `json:"count"`
}

type recordJSON struct {
	Shard         uint32            `json:"shard"`
	CpuEvents     []CpuEvent        `json:"cpu,omitempty"`
	AddSubEvents  []AluEvent        `json:"add_sub,omitempty"`
	LtEvents      []AluEvent        `json:"lt,omitempty"`
	BitwiseEvents []AluEvent        `json:"bitwise,omitempty"`
	ByteLookups   []byteLookupCount `json:"byte_lookups,omitempty"`
	SyscallEvents []SyscallEvent    `json:"syscalls,omitempty"`
	AddMulEvents  []AddMulEvent     `json:"add_mul,omitempty"`
	Shape         map[string]uint   `json:"shape,omitempty"`
}

// MarshalJSON encodes a record, listing byte lookups in canonical order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var lookups []byteLookupCount
	//
	for _, e := range r.SortedByteLookups() {
		lookups = append(lookups, byteLookupCount{e, r.ByteLookups[e]})
	}
	//
	return json.Marshal(&recordJSON{r.Shard, r.CpuEvents, r.AddSubEvents, r.LtEvents, r.BitwiseEvents,
		lookups, r.SyscallEvents, r.AddMulEvents, r.Shape})
}

// UnmarshalJSON decodes a record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	//
	*r = *NewRecord(raw.Shard)
	r.CpuEvents = raw.CpuEvents
	r.AddSubEvents = raw.AddSubEvents
	r.LtEvents = raw.LtEvents
	r.BitwiseEvents = raw.BitwiseEvents
	r.SyscallEvents = raw.SyscallEvents
	r.AddMulEvents = raw.AddMulEvents
	//
	for _, e := range raw.ByteLookups {
		r.ByteLookups[e.ByteLookupEvent] += e.Count
	}
	//
	for chip, log2 := range raw.Shape {
		r.Shape[chip] = log2
	}
	//
	return nil
}

// ReadRecords reads a JSON array of shard records.
func ReadRecords(reader io.Reader) ([]*Record, error) {
	var records []*Record
	//
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	//
	return records, nil
}

// WriteRecords writes shard records as a JSON array.
func WriteRecords(writer io.Writer, records []*Record) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", " ")
	//
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	//
	return nil
}
