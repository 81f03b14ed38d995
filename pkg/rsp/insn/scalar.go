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

import (
	"fmt"
	"math"
)

// Lw represents a scalar load of a (big endian) 32bit word:
//
// lw target, offset(base)
//
// The address is determined by adding the (signed) offset to the contents of
// the base register.
type Lw struct {
	Target Register
	Base   Register
	Offset int32
}

// Uses implementation for Instruction interface.
func (p *Lw) Uses() []Register {
	return []Register{p.Base}
}

// Definitions implementation for Instruction interface.
func (p *Lw) Definitions() []Register {
	return []Register{p.Target}
}

// Validate implementation for Instruction interface.
func (p *Lw) Validate() error {
	if err := p.Target.Validate(SCALAR); err != nil {
		return err
	} else if err := p.Base.Validate(SCALAR); err != nil {
		return err
	}
	//
	return checkImmediate(p.Offset)
}

func (p *Lw) String() string {
	return fmt.Sprintf("lw %s, %s(%s)", p.Target, formatHex(int64(p.Offset)), p.Base)
}

// Add represents a 32bit scalar addition, where overflow wraps around:
//
// add target, lhs, rhs
type Add struct {
	Target Register
	Lhs    Register
	Rhs    Register
}

// Uses implementation for Instruction interface.
func (p *Add) Uses() []Register {
	return []Register{p.Lhs, p.Rhs}
}

// Definitions implementation for Instruction interface.
func (p *Add) Definitions() []Register {
	return []Register{p.Target}
}

// Validate implementation for Instruction interface.
func (p *Add) Validate() error {
	for _, r := range []Register{p.Target, p.Lhs, p.Rhs} {
		if err := r.Validate(SCALAR); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *Add) String() string {
	return fmt.Sprintf("add %s, %s, %s", p.Target, p.Lhs, p.Rhs)
}

// Addi represents a 32bit scalar addition of a (signed) immediate, where
// overflow wraps around:
//
// addi target, source, immediate
type Addi struct {
	Target    Register
	Source    Register
	Immediate int32
}

// Uses implementation for Instruction interface.
func (p *Addi) Uses() []Register {
	return []Register{p.Source}
}

// Definitions implementation for Instruction interface.
func (p *Addi) Definitions() []Register {
	return []Register{p.Target}
}

// Validate implementation for Instruction interface.
func (p *Addi) Validate() error {
	if err := p.Target.Validate(SCALAR); err != nil {
		return err
	} else if err := p.Source.Validate(SCALAR); err != nil {
		return err
	}
	//
	return checkImmediate(p.Immediate)
}

func (p *Addi) String() string {
	return fmt.Sprintf("addi %s, %s, %s", p.Target, p.Source, formatHex(int64(p.Immediate)))
}

// Break halts the machine.
type Break struct{}

// Uses implementation for Instruction interface.
func (p *Break) Uses() []Register {
	return nil
}

// Definitions implementation for Instruction interface.
func (p *Break) Definitions() []Register {
	return nil
}

// Validate implementation for Instruction interface.
func (p *Break) Validate() error {
	return nil
}

func (p *Break) String() string {
	return "break"
}

// checkImmediate ensures a given value fits into a signed 16bit immediate.
func checkImmediate(value int32) error {
	if value < math.MinInt16 || value > math.MaxInt16 {
		return fmt.Errorf("immediate %s out-of-bounds", formatHex(int64(value)))
	}
	//
	return nil
}

func formatHex(value int64) string {
	if value < 0 {
		return fmt.Sprintf("-0x%x", -value)
	}
	//
	return fmt.Sprintf("0x%x", value)
}
