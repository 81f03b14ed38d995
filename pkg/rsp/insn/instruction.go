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
package insn

import "fmt"

// Instruction provides an abstract notion of a "machine instruction".  That is,
// a single atomic unit which is executed in full before the next instruction
// begins.
type Instruction interface {
	// Uses returns the set of registers used (i.e. read) by this instruction.
	Uses() []Register
	// Definitions returns the set of registers defined (i.e. written) by this
	// instruction.
	Definitions() []Register
	// Validate that this instruction is well-formed.  For example, that all
	// registers are of the correct kind, that offsets can be encoded, etc.
	Validate() error
	// Provide human readable form of instruction
	String() string
}

// Validate every instruction in a given program, returning one error for each
// malformed instruction.
func Validate(program []Instruction) []error {
	var errors []error
	//
	for pc, insn := range program {
		if err := insn.Validate(); err != nil {
			errors = append(errors, &Error{uint(pc), insn, err})
		}
	}
	//
	return errors
}

// Access identifies the ways in which a program accesses a given register.
type Access uint8

const (
	// READ indicates a register is used by some instruction.
	READ Access = 1 << iota
	// WRITE indicates a register is defined by some instruction.
	WRITE
)

// Footprint determines how each register accessed by a given program is
// accessed.  Registers never accessed by the program are omitted.
func Footprint(program []Instruction) map[Register]Access {
	var footprint = make(map[Register]Access)
	//
	for _, insn := range program {
		for _, reg := range insn.Uses() {
			footprint[reg] |= READ
		}
		//
		for _, reg := range insn.Definitions() {
			footprint[reg] |= WRITE
		}
	}
	//
	return footprint
}

// Error associates an error with an instruction at a given position in a
// program.
type Error struct {
	PC          uint
	Instruction Instruction
	Err         error
}

func (p *Error) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.PC, p.Instruction, p.Err)
}

func (p *Error) Unwrap() error {
	return p.Err
}
