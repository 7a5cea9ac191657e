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
package record_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AddAluEvent_00(t *testing.T) {
	r := record.NewRecord(1)
	//
	for _, op := range record.Opcodes() {
		if op.IsAlu() {
			r.AddAluEvent(record.AluEvent{Shard: 1, Opcode: op})
		}
	}
	//
	assert.Len(t, r.AddSubEvents, 2)
	assert.Len(t, r.LtEvents, 2)
	assert.Len(t, r.BitwiseEvents, 3)
}

func Test_AddAluEvent_01(t *testing.T) {
	r := record.NewRecord(1)
	//
	assert.Panics(t, func() { r.AddAluEvent(record.AluEvent{Opcode: record.ECALL}) })
	assert.Panics(t, func() { r.AddAluEvent(record.AluEvent{Opcode: record.Opcode(99)}) })
}

func Test_ByteLookup_00(t *testing.T) {
	check_ByteOpcode(t, record.ByteAND, 0xf0, 0x3c, 0x30)
	check_ByteOpcode(t, record.ByteOR, 0xf0, 0x0f, 0xff)
	check_ByteOpcode(t, record.ByteXOR, 0xff, 0x0f, 0xf0)
	check_ByteOpcode(t, record.ByteLTU, 2, 3, 1)
	check_ByteOpcode(t, record.ByteLTU, 3, 2, 0)
	check_ByteOpcode(t, record.ByteLTU, 3, 3, 0)
	check_ByteOpcode(t, record.ByteMSB, 0x80, 0, 1)
	check_ByteOpcode(t, record.ByteMSB, 0x7f, 0, 0)
	check_ByteOpcode(t, record.U8Range, 0xab, 0xcd, 0)
}

func Test_ByteLookup_01(t *testing.T) {
	r := record.NewRecord(0)
	e := record.NewByteLookup(record.ByteXOR, 1, 2)
	//
	r.AddByteLookup(e)
	r.AddByteLookup(e)
	//
	assert.Equal(t, uint64(2), r.ByteLookups[e])
	assert.Equal(t, uint8(3), e.A)
}

func Test_AddU8Range_00(t *testing.T) {
	r := record.NewRecord(0)
	//
	r.AddU8Range(1, 2, 3)
	//
	assert.Equal(t, uint64(1), r.ByteLookups[record.NewByteLookup(record.U8Range, 1, 2)])
	assert.Equal(t, uint64(1), r.ByteLookups[record.NewByteLookup(record.U8Range, 3, 0)])
}

func Test_Append_00(t *testing.T) {
	var (
		r = record.NewRecord(0)
		s = record.NewRecord(0)
		e = record.NewByteLookup(record.ByteAND, 1, 1)
	)
	//
	r.AddByteLookup(e)
	s.AddByteLookup(e)
	s.AddAluEvent(record.AluEvent{Opcode: record.ADD, A: 3, B: 1, C: 2})
	r.Append(s)
	//
	assert.Equal(t, uint64(2), r.ByteLookups[e])
	assert.Len(t, r.AddSubEvents, 1)
}

func Test_Clone_00(t *testing.T) {
	r := record.NewRecord(2)
	r.AddAluEvent(record.AluEvent{Opcode: record.OR, A: 3, B: 1, C: 2})
	r.AddByteLookup(record.NewByteLookup(record.ByteOR, 1, 2))
	r.Shape["Bitwise"] = 3
	//
	c := r.Clone()
	c.AddByteLookup(record.NewByteLookup(record.ByteOR, 1, 2))
	c.Shape["Bitwise"] = 4
	// Original unaffected
	assert.Equal(t, uint64(1), r.ByteLookups[record.NewByteLookup(record.ByteOR, 1, 2)])
	assert.Equal(t, uint(3), r.Shape["Bitwise"])
	assert.Equal(t, r.BitwiseEvents, c.BitwiseEvents)
	assert.Equal(t, uint32(2), c.Shard)
}

func Test_AddMul_00(t *testing.T) {
	e := record.AddMulEvent{Arg1: 2 | 3<<16, Arg2: 4 | 5<<16}
	//
	a, b, c, d := e.Operands()
	assert.Equal(t, []uint32{2, 3, 4, 5}, []uint32{a, b, c, d})
	assert.Equal(t, uint64(26), e.Result())
}

func Test_Opcode_00(t *testing.T) {
	var op record.Opcode
	//
	require.NoError(t, op.UnmarshalText([]byte("sltu")))
	assert.Equal(t, record.SLTU, op)
	assert.Error(t, op.UnmarshalText([]byte("div")))
	assert.Equal(t, "XOR", record.XOR.String())
}

func Test_Json_00(t *testing.T) {
	r := record.NewRecord(3)
	r.CpuEvents = append(r.CpuEvents, record.CpuEvent{Shard: 3, Clk: 4, Opcode: record.SLT, A: 1, B: 2, C: 3})
	r.AddAluEvent(record.AluEvent{Shard: 3, Clk: 4, Opcode: record.SLT, A: 1, B: 2, C: 3})
	r.AddByteLookup(record.NewByteLookup(record.ByteMSB, 0x80, 0))
	r.AddByteLookup(record.NewByteLookup(record.ByteMSB, 0x80, 0))
	r.Shape["Cpu"] = 4
	//
	var buf bytes.Buffer
	//
	require.NoError(t, record.WriteRecords(&buf, []*record.Record{r}))
	assert.Contains(t, buf.String(), "\"SLT\"")
	//
	records, err := record.ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	//
	s := records[0]
	assert.Equal(t, r.Shard, s.Shard)
	assert.Equal(t, r.CpuEvents, s.CpuEvents)
	assert.Equal(t, r.LtEvents, s.LtEvents)
	assert.Equal(t, r.ByteLookups, s.ByteLookups)
	assert.Equal(t, r.Shape, s.Shape)
}

func Test_Json_01(t *testing.T) {
	var r record.Record
	//
	err := json.Unmarshal([]byte(`{"shard": 1, "cpu": [{"opcode": "MUL"}]}`), &r)
	assert.Error(t, err)
}

func check_ByteOpcode(t *testing.T, op record.ByteOpcode, b, c, expected uint8) {
	assert.Equal(t, expected, op.Apply(b, c), "%s(%d,%d)", op, b, c)
	assert.Equal(t, expected, record.NewByteLookup(op, b, c).A)
}
