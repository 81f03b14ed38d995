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
	"strconv"
	"strings"
)

// NumRegisters is the number of registers of each kind.
const NumRegisters = 32

// Kind distinguishes scalar (general purpose) registers from vector registers.
type Kind uint8

const (
	// SCALAR identifies a 32bit general purpose register.
	SCALAR Kind = iota
	// VECTOR identifies a 128bit vector register.
	VECTOR
)

// Register identifies a register used or defined by an instruction.
type Register struct {
	Kind  Kind
	Index uint8
}

// Gpr constructs a scalar register identifier.
func Gpr(index uint8) Register {
	return Register{SCALAR, index}
}

// Vpr constructs a vector register identifier.
func Vpr(index uint8) Register {
	return Register{VECTOR, index}
}

// ZERO is the hard-wired zero register.
var ZERO = Gpr(0)

var gprNames = [NumRegisters]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

func (p Register) String() string {
	if p.Kind == VECTOR {
		return fmt.Sprintf("$v%d", p.Index)
	} else if p.Index < NumRegisters {
		return "$" + gprNames[p.Index]
	}
	//
	return fmt.Sprintf("$%d", p.Index)
}

// Validate that this register identifier is within range, and of the expected
// kind.
func (p Register) Validate(kind Kind) error {
	if p.Kind != kind {
		return fmt.Errorf("expected %s register (found %s)", kind, p)
	} else if p.Index >= NumRegisters {
		return fmt.Errorf("register %s out-of-bounds", p)
	}
	//
	return nil
}

func (k Kind) String() string {
	if k == VECTOR {
		return "vector"
	}
	//
	return "scalar"
}

// ParseGpr parses the name of a scalar register, such as "$t0", "$zero" or
// "$8".  The leading "$" is required.
func ParseGpr(name string) (Register, bool) {
	if !strings.HasPrefix(name, "$") {
		return Register{}, false
	}
	//
	name = name[1:]
	//
	for i, n := range gprNames {
		if n == name {
			return Gpr(uint8(i)), true
		}
	}
	// Numbered form ($0 .. $31)
	if n, err := strconv.ParseUint(name, 10, 8); err == nil && n < NumRegisters {
		return Gpr(uint8(n)), true
	}
	//
	return Register{}, false
}

// ParseVpr parses the name of a vector register, such as "$v7".
func ParseVpr(name string) (Register, bool) {
	if !strings.HasPrefix(name, "$v") {
		return Register{}, false
	}
	//
	if n, err := strconv.ParseUint(name[2:], 10, 8); err == nil && n < NumRegisters {
		return Vpr(uint8(n)), true
	}
	//
	return Register{}, false
}
