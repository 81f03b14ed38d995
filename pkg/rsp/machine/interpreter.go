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
	"encoding/binary"
	"fmt"

	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
)

// Interpreter is the default executor, which executes instructions directly
// against the machine's state.
type Interpreter struct{}

// Execute implementation for the Executor interface.
func (p Interpreter) Execute(state *State, instruction insn.Instruction) error {
	switch i := instruction.(type) {
	case *insn.Lw:
		address := effectiveAddress(state, i.Base, i.Offset)
		word := binary.BigEndian.Uint32(state.dmem.Read(address, 4))
		state.Store(uint(i.Target.Index), word)
	case *insn.Add:
		state.Store(uint(i.Target.Index), state.Load(uint(i.Lhs.Index))+state.Load(uint(i.Rhs.Index)))
	case *insn.Addi:
		state.Store(uint(i.Target.Index), state.Load(uint(i.Source.Index))+uint32(i.Immediate))
	case *insn.VectorLoad:
		address := effectiveAddress(state, i.Base, i.Offset)
		vu.Load(state.dmem, state.vprs.Ref(uint(i.Target.Index)), i.Op, i.Element, address)
	case *insn.VectorStore:
		address := effectiveAddress(state, i.Base, i.Offset)
		vu.Store(state.dmem, state.vprs.Read(uint(i.Source.Index)), i.Op, i.Element, address)
	case *insn.Break:
		state.Halt()
		return nil
	default:
		return fmt.Errorf("unknown instruction %s", instruction)
	}
	//
	state.Goto(state.PC() + 1)
	//
	return nil
}

// effectiveAddress determines the address accessed by a load or store, by
// adding the (signed) offset to the base register.  Overflow wraps around.
func effectiveAddress(state *State, base insn.Register, offset int32) uint32 {
	return state.Load(uint(base.Index)) + uint32(offset)
}
