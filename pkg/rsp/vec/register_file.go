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
package vec

import "fmt"

// NumRegisters is the number of vector registers in a register file.
const NumRegisters = 32

// Fault signals a configuration fault, such as a register index which is out
// of range.  Faults are raised by panicking and should be recovered at the
// machine boundary, where they abort the scenario being executed.
type Fault struct {
	Message string
}

func (p *Fault) Error() string {
	return p.Message
}

// RegisterFile holds the vector registers of a single machine.  Registers are
// held by value, hence there is no aliasing between them.
type RegisterFile struct {
	registers [NumRegisters]Register
}

// NewRegisterFile constructs a register file where every register is zero.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Read returns (a copy of) the ith register.
func (p *RegisterFile) Read(i uint) Register {
	p.check(i)
	//
	return p.registers[i]
}

// Write assigns the ith register, overwriting its previous contents.
func (p *RegisterFile) Write(i uint, reg Register) {
	p.check(i)
	//
	p.registers[i] = reg
}

// Ref returns a pointer to the ith register, allowing it to be updated in
// place (e.g. by a partial load).
func (p *RegisterFile) Ref(i uint) *Register {
	p.check(i)
	//
	return &p.registers[i]
}

func (p *RegisterFile) check(i uint) {
	if i >= NumRegisters {
		panic(&Fault{fmt.Sprintf("vector register $v%d out-of-bounds", i)})
	}
}
