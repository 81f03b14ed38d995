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
package vu

import (
	"testing"

	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
)

func Test_Op_01(t *testing.T) {
	for _, op := range Ops {
		if o, ok := OpByName(op.Name()); !ok || o != op {
			t.Errorf("operation %s not found by name", op.Name())
		}
	}
	//
	if _, ok := OpByName("xv"); ok {
		t.Errorf("unknown operation found by name")
	}
}

func Test_Store_01(t *testing.T) {
	// sbv, ssv, slv and sdv store 1, 2, 4 and 8 bytes linearly, with the
	// register index wrapping.
	checkStore(t, BV, 3, 0x805, 0x805, "83")
	checkStore(t, SV, 15, 0x806, 0x806, "8F 80")
	checkStore(t, LV, 14, 0x80E, 0x80E, "8E 8F 80 81")
	checkStore(t, DV, 4, 0x80C, 0x80C, "84 85 86 87 88 89 8A AB")
}

func Test_Store_02(t *testing.T) {
	// sqv truncates at the end of the bank
	checkStore(t, QV, 0, 0x800, 0x800, "80 81 82 83 84 85 86 87 88 89 8A AB 8C 8D 8E 8F")
	checkStore(t, QV, 0, 0x80C, 0x80C, "80 81 82 83")
	checkStore(t, QV, 2, 0x80C, 0x80C, "82 83 84 85")
	// nothing past the bank
	checkStore(t, QV, 0, 0x80C, 0x810, "00 00 00 00")
}

func Test_Store_03(t *testing.T) {
	// srv stores the tail of the register at the start of the bank
	checkStore(t, RV, 0, 0x800, 0x800, "00")
	checkStore(t, RV, 0, 0x804, 0x800, "8C 8D 8E 8F 00")
	checkStore(t, RV, 1, 0x804, 0x800, "8D 8E 8F 80 00")
}

func Test_Store_04(t *testing.T) {
	// Combining sqv and srv stores a full register at an unaligned address.
	for offset := range uint32(memory.BankSize) {
		var (
			mem     = memory.NewScratch("dmem", memory.DefaultSize)
			address = 0x100 + offset
		)
		//
		Store(mem, v7, QV, 0, address)
		Store(mem, v7, RV, 0, address+memory.BankSize)
		//
		if actual := toRegister(mem.Read(address, memory.BankSize)); actual != v7 {
			t.Errorf("sqv+srv@0x%x stored %s", address, actual)
		}
	}
}

func Test_Load_01(t *testing.T) {
	var mem = memory.NewScratch("dmem", memory.DefaultSize)
	//
	mem.Write(0x100, v7[:])
	//
	checkLoad(t, mem, BV, 0, 0x10B, "AB 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00")
	checkLoad(t, mem, SV, 15, 0x100, "F1 00 00 00 00 00 00 00 00 00 00 00 00 00 00 F0")
	checkLoad(t, mem, LV, 4, 0x104, "00 00 00 00 F4 F5 F6 F7 00 00 00 00 00 00 00 00")
	checkLoad(t, mem, DV, 8, 0x108, "00 00 00 00 00 00 00 00 F8 F9 FA AB FC FD FE FF")
}

func Test_Load_02(t *testing.T) {
	var mem = memory.NewScratch("dmem", memory.DefaultSize)
	//
	mem.Write(0x100, v7[:])
	mem.Write(0x110, v0[:])
	// lqv truncates at the end of the bank, and the end of the register
	checkLoad(t, mem, QV, 0, 0x100, "F0 F1 F2 F3 F4 F5 F6 F7 F8 F9 FA AB FC FD FE FF")
	checkLoad(t, mem, QV, 0, 0x10C, "FC FD FE FF 00 00 00 00 00 00 00 00 00 00 00 00")
	checkLoad(t, mem, QV, 14, 0x104, "00 00 00 00 00 00 00 00 00 00 00 00 00 00 F4 F5")
	// lrv loads the bank preceding the address into the tail
	checkLoad(t, mem, RV, 0, 0x110, "00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00")
	checkLoad(t, mem, RV, 0, 0x113, "00 00 00 00 00 00 00 00 00 00 00 00 00 80 81 82")
	checkLoad(t, mem, RV, 1, 0x113, "00 00 00 00 00 00 00 00 00 00 00 00 00 00 80 81")
}

func Test_Load_03(t *testing.T) {
	// Combining lqv and lrv loads a full register from an unaligned address.
	var mem = patternScratch()
	//
	for offset := range uint32(memory.BankSize) {
		var (
			reg     vec.Register
			address = 0x300 + offset
		)
		//
		Load(mem, &reg, QV, 0, address)
		Load(mem, &reg, RV, 0, address+memory.BankSize)
		//
		if expected := toRegister(mem.Read(address, memory.BankSize)); reg != expected {
			t.Errorf("lqv+lrv@0x%x loaded %s (expected %s)", address, reg, expected)
		}
	}
}

func Test_Load_04(t *testing.T) {
	// lwv / swv via the generic entry points
	var (
		mem = memory.NewScratch("dmem", memory.DefaultSize)
		reg vec.Register
	)
	//
	Store(mem, v0, WV, 5, 0x20B)
	Load(mem, &reg, WV, 5, 0x20B)
	//
	if reg != v0 {
		t.Errorf("swv/lwv round trip loaded %s", reg)
	}
}

func Test_Load_05(t *testing.T) {
	var mem = memory.NewScratch("dmem", memory.DefaultSize)
	// Linear accesses fault when running off the end of memory
	checkPanic[*memory.Fault](t, func() { Load(mem, &vec.Register{}, DV, 0, memory.DefaultSize-4) })
	checkPanic[*memory.Fault](t, func() { Store(mem, v0, SV, 0, memory.DefaultSize-1) })
	checkPanic[*Fault](t, func() { Store(mem, v0, Op(42), 0, 0) })
	checkPanic[*Fault](t, func() { Load(mem, &vec.Register{}, QV, 16, 0) })
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkStore(t *testing.T, op Op, element uint, address uint32, from uint32, expected string) {
	var (
		mem = memory.NewScratch("dmem", memory.DefaultSize)
		n   = uint(len(expected)+1) / 3
	)
	//
	Store(mem, v0, op, element, address)
	//
	if actual := hexString(mem.Read(from, n)); actual != expected {
		t.Errorf("s%s $v[e%d] @0x%x: found %s at 0x%x (expected %s)", op.Name(), element, address, actual, from, expected)
	}
}

func checkLoad(t *testing.T, mem memory.Memory, op Op, element uint, address uint32, expected string) {
	var reg vec.Register
	//
	Load(mem, &reg, op, element, address)
	//
	if reg.String() != expected {
		t.Errorf("l%s $v[e%d] @0x%x: loaded %s (expected %s)", op.Name(), element, address, reg, expected)
	}
}

func toRegister(bytes []byte) vec.Register {
	var reg vec.Register
	//
	copy(reg[:], bytes)
	//
	return reg
}

func hexString(bytes []byte) string {
	var reg = toRegister(bytes)
	// Reuse register formatting, then trim to length
	return reg.String()[:max(3*len(bytes)-1, 0)]
}
