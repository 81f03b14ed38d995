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

	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
)

// MaxVectorOffset and MinVectorOffset bound the (scaled) offset of a vector
// load or store, which is encoded as a signed 7bit immediate.
const (
	MaxVectorOffset = 63
	MinVectorOffset = -64
)

// VectorLoad represents a load into a vector register from memory, starting
// at a given element:
//
// l?v target[element], offset(base)
//
// Here, the offset is given in bytes and must be a multiple of the operation's
// access size.  For example, "lqv $v1[e0], 0x10($zero)" loads $v1 from the
// bank at address 0x10.
type VectorLoad struct {
	Op      vu.Op
	Target  Register
	Element uint
	Base    Register
	Offset  int32
}

// Uses implementation for Instruction interface.
func (p *VectorLoad) Uses() []Register {
	// A load may update only part of the target register, hence the previous
	// contents of the target are also used.
	return []Register{p.Base, p.Target}
}

// Definitions implementation for Instruction interface.
func (p *VectorLoad) Definitions() []Register {
	return []Register{p.Target}
}

// Validate implementation for Instruction interface.
func (p *VectorLoad) Validate() error {
	if err := p.Target.Validate(VECTOR); err != nil {
		return err
	}
	//
	return validateVectorAccess(p.Op, p.Element, p.Base, p.Offset)
}

func (p *VectorLoad) String() string {
	return fmt.Sprintf("l%s %s[e%d], %s(%s)", p.Op.Name(), p.Target, p.Element, formatHex(int64(p.Offset)), p.Base)
}

// VectorStore represents a store of a vector register into memory, starting
// at a given element:
//
// s?v source[element], offset(base)
//
// As for loads, the offset is given in bytes.
type VectorStore struct {
	Op      vu.Op
	Source  Register
	Element uint
	Base    Register
	Offset  int32
}

// Uses implementation for Instruction interface.
func (p *VectorStore) Uses() []Register {
	return []Register{p.Base, p.Source}
}

// Definitions implementation for Instruction interface.
func (p *VectorStore) Definitions() []Register {
	return nil
}

// Validate implementation for Instruction interface.
func (p *VectorStore) Validate() error {
	if err := p.Source.Validate(VECTOR); err != nil {
		return err
	}
	//
	return validateVectorAccess(p.Op, p.Element, p.Base, p.Offset)
}

func (p *VectorStore) String() string {
	return fmt.Sprintf("s%s %s[e%d], %s(%s)", p.Op.Name(), p.Source, p.Element, formatHex(int64(p.Offset)), p.Base)
}

func validateVectorAccess(op vu.Op, element uint, base Register, offset int32) error {
	var scale = int32(op.Scale())
	//
	if _, ok := vu.OpByName(op.Name()); !ok {
		return fmt.Errorf("unknown vector operation %s", op.Name())
	} else if element > vu.MaxElement {
		return fmt.Errorf("element e%d out-of-bounds", element)
	} else if err := base.Validate(SCALAR); err != nil {
		return err
	} else if offset%scale != 0 {
		return fmt.Errorf("offset %s not a multiple of %d", formatHex(int64(offset)), scale)
	} else if offset/scale < MinVectorOffset || offset/scale > MaxVectorOffset {
		return fmt.Errorf("offset %s out-of-bounds", formatHex(int64(offset)))
	}
	//
	return nil
}
