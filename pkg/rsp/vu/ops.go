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
	"fmt"

	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
)

// Op identifies a member of the vector load/store family, independently of
// its direction.  For example, QV identifies both "lqv" and "sqv".
type Op uint8

const (
	// BV transfers a single byte.
	BV Op = iota
	// SV transfers two bytes.
	SV
	// LV transfers four bytes.
	LV
	// DV transfers eight bytes.
	DV
	// QV transfers from the address up to the end of its bank.
	QV
	// RV transfers from the start of the bank up to the address.
	RV
	// WV transfers a full bank with wrap-around.
	WV
)

var opNames = [...]string{"bv", "sv", "lv", "dv", "qv", "rv", "wv"}

// Ops lists all operations of the load/store family.
var Ops = []Op{BV, SV, LV, DV, QV, RV, WV}

// Name returns the suffix of this operation's mnemonic (e.g. "qv").
func (op Op) Name() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	//
	return fmt.Sprintf("op%d", op)
}

// Scale returns the factor by which this operation's immediate offset is
// scaled when encoded.
func (op Op) Scale() uint32 {
	switch op {
	case BV:
		return 1
	case SV:
		return 2
	case LV:
		return 4
	case DV:
		return 8
	default:
		return 16
	}
}

// Span determines the range of memory [start, start+n) accessed by this
// operation at a given address.
func (op Op) Span(address uint32) (start uint32, n uint32) {
	switch op {
	case QV:
		return address, memory.BankSize - memory.BankOffset(address)
	case RV:
		return memory.BankBase(address), memory.BankOffset(address)
	case WV:
		return memory.BankBase(address), memory.BankSize
	default:
		return address, op.Scale()
	}
}

// OpByName returns the operation with the given mnemonic suffix.
func OpByName(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	//
	return 0, false
}

// Load a vector register from memory using a given operation.  Only those
// register bytes determined by the operation are updated, and memory is never
// modified.
func Load(mem memory.Memory, reg *vec.Register, op Op, element uint, address uint32) {
	checkElement(element)
	checkSpan(mem, op, address)
	//
	switch op {
	case BV, SV, LV, DV:
		// Register index wraps, whilst the memory address is linear.
		for i := range uint(op.Scale()) {
			reg.SetByte(element+i, mem.LoadByte(address+uint32(i)))
		}
	case QV:
		var (
			offset = uint(memory.BankOffset(address))
			end    = min(vec.RegisterBytes+element-offset, vec.RegisterBytes)
		)
		// Loaded bytes are truncated at both the end of the bank, and the end
		// of the register.
		for i := element; i < end; i++ {
			reg.SetByte(i, mem.LoadByte(address))
			address++
		}
	case RV:
		var (
			offset = uint(memory.BankOffset(address))
			start  = vec.RegisterBytes - offset + element
			base   = memory.BankBase(address)
		)
		// Loads the bytes of the bank preceding the address into the tail of
		// the register.
		for i := start; i < vec.RegisterBytes; i++ {
			reg.SetByte(i, mem.LoadByte(base))
			base++
		}
	case WV:
		LoadWrapped(mem, reg, element, address)
	default:
		panic(&Fault{fmt.Sprintf("unknown vector load %s", op.Name())})
	}
}

// Store a vector register into memory using a given operation.  The register
// is never modified.
func Store(mem memory.Memory, reg vec.Register, op Op, element uint, address uint32) {
	checkElement(element)
	checkSpan(mem, op, address)
	//
	var rotated = reg.Rotated(element)
	//
	switch op {
	case BV, SV, LV, DV:
		for i := range op.Scale() {
			mem.StoreByte(address+i, rotated[i])
		}
	case QV:
		var n = memory.BankSize - memory.BankOffset(address)
		// Stored bytes are truncated at the end of the bank.
		for i := range n {
			mem.StoreByte(address+i, rotated[i])
		}
	case RV:
		var (
			offset = memory.BankOffset(address)
			base   = memory.BankBase(address)
		)
		// Stores the last offset bytes of the (rotated) register into the
		// start of the bank, up to the address.
		for i := range offset {
			mem.StoreByte(base+i, rotated[i+vec.RegisterBytes-offset])
		}
	case WV:
		StoreWrapped(mem, reg, element, address)
	default:
		panic(&Fault{fmt.Sprintf("unknown vector store %s", op.Name())})
	}
}

// checkSpan ensures every byte accessed by an operation lies within memory,
// before any byte is transferred.
func checkSpan(mem memory.Memory, op Op, address uint32) {
	var (
		start, n = op.Span(address)
		size     = uint64(mem.Size())
	)
	//
	if uint64(start)+uint64(n) > size {
		// report the first byte out-of-bounds
		panic(&memory.Fault{Memory: mem.Name(), Address: max(uint64(start), size), Size: mem.Size()})
	}
}
