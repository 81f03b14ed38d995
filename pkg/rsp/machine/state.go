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
package machine

import (
	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
)

// State captures the state of an executing machine, including the state of all
// registers and memory, the program counter and whether or not the machine has
// halted.  A state is exclusively owned by a single machine.
type State struct {
	// Scalar registers, where register 0 is hard-wired to zero.
	gprs [insn.NumRegisters]uint32
	// Vector registers
	vprs *vec.RegisterFile
	// Data memory
	dmem memory.Memory
	// Program Counter
	pc uint
	// Indicates machine has halted
	halted bool
}

// NewState constructs an initial state over a given memory, where all registers
// are zero.
func NewState(dmem memory.Memory) *State {
	return &State{
		vprs: vec.NewRegisterFile(),
		dmem: dmem,
	}
}

// PC returns the current Program Counter position.
func (p *State) PC() uint {
	return p.pc
}

// Goto sets the Program Counter to a given position.
func (p *State) Goto(pc uint) {
	p.pc = pc
}

// Halted determines whether or not the machine has halted.
func (p *State) Halted() bool {
	return p.halted
}

// Halt the machine.
func (p *State) Halt() {
	p.halted = true
}

// Load the value of the ith scalar register.
func (p *State) Load(reg uint) uint32 {
	return p.gprs[reg]
}

// Store a given value into the ith scalar register, overwriting its previous
// contents.  Stores to register 0 are ignored.
func (p *State) Store(reg uint, value uint32) {
	if reg != 0 {
		p.gprs[reg] = value
	}
}

// Vectors returns the vector register file.
func (p *State) Vectors() *vec.RegisterFile {
	return p.vprs
}

// Memory returns the data memory.
func (p *State) Memory() memory.Memory {
	return p.dmem
}

// Snapshot records the contents of every register of a machine at some point
// during execution.
type Snapshot struct {
	Scalars [insn.NumRegisters]uint32
	Vectors [vec.NumRegisters]vec.Register
}

// Snapshot the registers of this state.
func (p *State) Snapshot() Snapshot {
	var snapshot = Snapshot{Scalars: p.gprs}
	//
	for i := range snapshot.Vectors {
		snapshot.Vectors[i] = p.vprs.Read(uint(i))
	}
	//
	return snapshot
}
