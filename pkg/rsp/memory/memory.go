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
package memory

// BankSize is the width (in bytes) of a memory bank.  Banks are aligned on
// every 16 byte stride from address 0, and correspond with a single quadword.
const BankSize = 16

// DefaultSize is the size (in bytes) of the vector unit's data memory.
const DefaultSize = 4096

// Memory represents (in many ways) the simplest form of memory, a flat array of
// bytes which can be read or written without restrictions.  Memory enforces no
// semantics beyond storage, and specifically has no knowledge of banks; bank
// wrap-around is determined by the units which access it.  Accessing any
// address outside of the memory is a configuration fault, and will panic with
// a *Fault rather than being silently clamped.
type Memory interface {
	// Name returns the name of this memory (e.g. "dmem")
	Name() string
	// Size returns the number of addressable bytes in this memory.
	Size() uint32
	// LoadByte reads the byte at a given address.
	LoadByte(address uint32) byte
	// StoreByte writes a byte to a given address, overwriting its previous
	// value.
	StoreByte(address uint32, value byte)
	// Read n bytes starting from a given address.  The returned slice is
	// freshly allocated.
	Read(address uint32, n uint) []byte
	// Write a sequence of bytes starting from a given address.
	Write(address uint32, data []byte)
	// Return the contents of this memory.
	Contents() []byte
}

// BankBase returns the address of the first byte in the bank enclosing a given
// address.
func BankBase(address uint32) uint32 {
	return address &^ (BankSize - 1)
}

// BankOffset returns the offset of a given address within its enclosing bank.
func BankOffset(address uint32) uint32 {
	return address & (BankSize - 1)
}

// BankOf returns the index of the bank enclosing a given address.
func BankOf(address uint32) uint32 {
	return address / BankSize
}
