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

import (
	"fmt"
)

// Fault signals an access outside the bounds of a memory.  This is a
// configuration fault on the part of the caller, and is raised by panicking.
type Fault struct {
	Memory  string
	Address uint64
	Size    uint32
}

func (p *Fault) Error() string {
	return fmt.Sprintf("address 0x%x out-of-bounds for %s (size 0x%x)", p.Address, p.Memory, p.Size)
}

// Scratch is a flat-slice implementation of Memory.  The backing slice is
// explicitly owned by this memory, hence distinct scratch memories can be used
// concurrently (e.g. by distinct scenarios).
type Scratch struct {
	name string
	data []byte
}

var _ Memory = &Scratch{}

// NewScratch constructs a zeroed scratch memory with the given name and size
// (in bytes).  The size must be a non-zero multiple of the bank size.
func NewScratch(name string, size uint32) *Scratch {
	if size == 0 || size%BankSize != 0 {
		panic(fmt.Sprintf("invalid memory size 0x%x", size))
	}
	//
	return &Scratch{name, make([]byte, size)}
}

// Name implementation for Memory interface.
func (p *Scratch) Name() string {
	return p.name
}

// Size implementation for Memory interface.
func (p *Scratch) Size() uint32 {
	return uint32(len(p.data))
}

// LoadByte implementation for Memory interface.
func (p *Scratch) LoadByte(address uint32) byte {
	p.check(address, 1)
	//
	return p.data[address]
}

// StoreByte implementation for Memory interface.
func (p *Scratch) StoreByte(address uint32, value byte) {
	p.check(address, 1)
	//
	p.data[address] = value
}

// Read implementation for Memory interface.
func (p *Scratch) Read(address uint32, n uint) []byte {
	var data = make([]byte, n)
	//
	p.check(address, uint64(n))
	//
	copy(data, p.data[address:])
	//
	return data
}

// Write implementation for Memory interface.
func (p *Scratch) Write(address uint32, data []byte) {
	p.check(address, uint64(len(data)))
	//
	copy(p.data[address:], data)
}

// Contents implementation for Memory interface.
func (p *Scratch) Contents() []byte {
	return p.data
}

// check that the n bytes starting at a given address are within bounds.
func (p *Scratch) check(address uint32, n uint64) {
	var size = uint64(len(p.data))
	//
	if uint64(address)+n > size {
		// report the first byte out-of-bounds
		panic(&Fault{p.name, max(uint64(address), size), uint32(size)})
	}
}
