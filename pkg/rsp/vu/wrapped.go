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

// MaxElement is the largest valid element-select index.
const MaxElement = vec.RegisterBytes - 1

// Fault signals a configuration fault in a request to the load/store unit,
// such as an element-select index which is out of range.
type Fault struct {
	Message string
}

func (p *Fault) Error() string {
	return p.Message
}

// Transfer identifies a single byte moved between a vector register and
// memory.  Specifically, byte Byte of the register is moved to (or from) the
// given memory address.
type Transfer struct {
	Address uint32
	Byte    uint
}

// Plan determines the exact set of transfers made by a wrapped store (or load)
// for a given element and address.  Transfer i moves register byte
// (element+i) mod 16 to (or from) address bank_base + ((bank_offset+i) mod
// 16).  Thus, every transfer lies within the bank enclosing the address, with
// the write pointer circling back to the start of the bank once the bank's
// end is reached.  Observe that the plan depends only on element and address,
// never on the contents of memory.
func Plan(element uint, address uint32) [vec.RegisterBytes]Transfer {
	var (
		plan   [vec.RegisterBytes]Transfer
		base   = memory.BankBase(address)
		offset = memory.BankOffset(address)
	)
	//
	checkElement(element)
	//
	for i := range uint32(vec.RegisterBytes) {
		plan[i] = Transfer{
			Address: base + ((offset + i) % memory.BankSize),
			Byte:    (element + uint(i)) % vec.RegisterBytes,
		}
	}
	//
	return plan
}

// StoreWrapped commits a rotated view of a vector register into memory at a
// given address, such that exactly 16 bytes are written within the bank
// enclosing that address.  Byte i of the rotated view (i.e. register byte
// (element+i) mod 16) is written to bank_base + ((bank_offset+i) mod 16).
// The source register is not modified, and no memory outside the bank is
// touched.  This implements the "swv" instruction.
func StoreWrapped(mem memory.Memory, reg vec.Register, element uint, address uint32) {
	// Faults are raised before any byte is committed
	plan := Plan(element, address)
	checkBank(mem, address)
	//
	for _, t := range plan {
		mem.StoreByte(t.Address, reg.Byte(t.Byte))
	}
}

// LoadWrapped is the mirror of StoreWrapped.  It reads the 16 bytes of the bank
// enclosing a given address, starting at that address and wrapping around to
// the start of the bank, and then de-rotates them into the register.  That is,
// register byte (element+i) mod 16 is assigned the byte at bank_base +
// ((bank_offset+i) mod 16).  Memory is not modified.  This implements the
// "lwv" instruction.
func LoadWrapped(mem memory.Memory, reg *vec.Register, element uint, address uint32) {
	var (
		plan = Plan(element, address)
		tmp  vec.Register
	)
	//
	checkBank(mem, address)
	// Read the bank before updating the register
	for i, t := range plan {
		tmp[i] = mem.LoadByte(t.Address)
	}
	//
	for i, t := range plan {
		reg.SetByte(t.Byte, tmp[i])
	}
}

func checkElement(element uint) {
	if element > MaxElement {
		panic(&Fault{fmt.Sprintf("element e%d out-of-bounds", element)})
	}
}

// checkBank ensures the bank enclosing a given address lies within memory.
func checkBank(mem memory.Memory, address uint32) {
	var base = memory.BankBase(address)
	//
	if uint64(base)+memory.BankSize > uint64(mem.Size()) {
		panic(&memory.Fault{Memory: mem.Name(), Address: uint64(address), Size: mem.Size()})
	}
}
