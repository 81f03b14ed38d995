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
package fixture

import (
	"fmt"

	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/machine"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
)

// Expect computes the outputs of a given scenario directly from the defining
// formulas of each instruction, without using the vector unit.  This provides
// an independent reference against which the machine is checked.  Only lqv and
// swv are supported amongst the vector instructions.
func Expect(fixture *Fixture, scenario Scenario) (Result, error) {
	var (
		model = reference{dmem: make([]byte, fixture.MemorySize)}
		steps uint
	)
	//
	copy(model.dmem[fixture.InputBase:], fixture.InputBytes(scenario))
	fixture.Preload(scenario,
		func(reg uint8, value vec.Register) { model.vprs[reg] = value },
		func(reg uint8, value uint32) { model.set(insn.Gpr(reg), value) })
	//
	for _, instruction := range fixture.Instructions() {
		steps++
		//
		if _, ok := instruction.(*insn.Break); ok {
			break
		} else if err := model.execute(instruction); err != nil {
			return Result{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}
	//
	outputs := make([]Output, len(fixture.Outputs))
	//
	for i, d := range fixture.Outputs {
		var value vec.Register
		//
		copy(value[:], model.dmem[d.Address:])
		outputs[i] = Output{d.Name, d.Address, value}
	}
	//
	registers := machine.Snapshot{Scalars: model.gprs, Vectors: model.vprs}
	//
	return Result{scenario.Name, steps, outputs, registers}, nil
}

type reference struct {
	gprs [insn.NumRegisters]uint32
	vprs [vec.NumRegisters]vec.Register
	dmem []byte
}

func (p *reference) execute(instruction insn.Instruction) error {
	switch i := instruction.(type) {
	case *insn.Lw:
		addr, err := p.address(i.Base, i.Offset, 4)
		if err != nil {
			return err
		}
		//
		word := uint32(p.dmem[addr])<<24 | uint32(p.dmem[addr+1])<<16 | uint32(p.dmem[addr+2])<<8 | uint32(p.dmem[addr+3])
		p.set(i.Target, word)
	case *insn.Add:
		p.set(i.Target, p.gprs[i.Lhs.Index]+p.gprs[i.Rhs.Index])
	case *insn.Addi:
		p.set(i.Target, p.gprs[i.Source.Index]+uint32(i.Immediate))
	case *insn.VectorLoad:
		if i.Op != vu.QV {
			return fmt.Errorf("%s not supported", instruction)
		}
		//
		addr, err := p.address(i.Base, i.Offset, 1)
		if err != nil {
			return err
		}
		// Load upto the end of the bank, or the end of the register.
		reg, end := &p.vprs[i.Target.Index], (addr&^15)+16
		//
		for j := addr; j < end && i.Element+uint(j-addr) < vec.RegisterBytes; j++ {
			reg[i.Element+uint(j-addr)] = p.dmem[j]
		}
	case *insn.VectorStore:
		if i.Op != vu.WV {
			return fmt.Errorf("%s not supported", instruction)
		}
		//
		addr, err := p.address(i.Base, i.Offset, 0)
		if err != nil {
			return err
		}
		// M[base + ((off + i) mod 16)] = R[(e + i) mod 16]
		base, off := addr&^15, uint(addr&15)
		//
		if int(base)+vec.RegisterBytes > len(p.dmem) {
			return fmt.Errorf("bank 0x%x out-of-bounds", base)
		}
		//
		for j := range uint(vec.RegisterBytes) {
			p.dmem[base+uint32((off+j)%16)] = p.vprs[i.Source.Index][(i.Element+j)%16]
		}
	default:
		return fmt.Errorf("%s not supported", instruction)
	}
	//
	return nil
}

// address computes an effective address, checking n bytes from it are within
// memory.
func (p *reference) address(base insn.Register, offset int32, n uint32) (uint32, error) {
	addr := p.gprs[base.Index] + uint32(offset)
	//
	if uint64(addr)+uint64(n) > uint64(len(p.dmem)) {
		return 0, fmt.Errorf("address 0x%x out-of-bounds", addr)
	}
	//
	return addr, nil
}

func (p *reference) set(reg insn.Register, value uint32) {
	if reg.Index != 0 {
		p.gprs[reg.Index] = value
	}
}
