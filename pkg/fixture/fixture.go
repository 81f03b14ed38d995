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
	"errors"
	"fmt"
	"strings"

	"github.com/CQCumbers/r64emu/pkg/rsp/asm"
	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// V128 is the type of a 128bit vector value.
const V128 = "v128"

// U32 is the type of a 32bit unsigned scalar value.
const U32 = "u32"

// Descriptor describes a single (typed) value in the input or output vector of
// a fixture.  For outputs, the address identifies the location in memory from
// which the value is read back after execution.  For inputs, a register (e.g.
// "$v0" or "$t0") may be given, in which case the value is also loaded directly
// into that register before execution.
type Descriptor struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Address  uint32 `yaml:"address,omitempty"`
	Register string `yaml:"register,omitempty"`
}

// Words returns the number of 32bit words occupied by this value.
func (p Descriptor) Words() uint {
	if p.Type == V128 {
		return vec.RegisterBytes / 4
	}
	//
	return 1
}

// Scenario is a named instance of a fixture, which supplies the words of the
// input vector.
type Scenario struct {
	Name  string   `yaml:"name"`
	Input []uint32 `yaml:"input"`
}

// Fixture describes a program together with the layout of its inputs and
// outputs, and a set of named scenarios under which it is executed.  Before
// execution, the input vector of a scenario is written (as big endian words)
// into memory starting at the input base.  After execution, each output is
// read back from its address.
type Fixture struct {
	Name       string       `yaml:"name"`
	MemorySize uint32       `yaml:"memory_size,omitempty"`
	InputBase  uint32       `yaml:"input_base"`
	Inputs     []Descriptor `yaml:"inputs"`
	Outputs    []Descriptor `yaml:"outputs"`
	Program    string       `yaml:"program"`
	Scenarios  []Scenario   `yaml:"scenarios"`
	// Assembled program
	program []insn.Instruction
}

// Load a fixture from a given (YAML) file.  The fixture is validated, and its
// program assembled.
func Load(fs afero.Fs, filename string) (*Fixture, error) {
	bytes, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}
	//
	fixture, err := Parse(bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return fixture, nil
}

// Parse a fixture from the given YAML bytes.  The fixture is validated, and its
// program assembled.
func Parse(bytes []byte) (*Fixture, error) {
	var fixture Fixture
	//
	if err := yaml.Unmarshal(bytes, &fixture); err != nil {
		return nil, err
	}
	//
	if fixture.MemorySize == 0 {
		fixture.MemorySize = memory.DefaultSize
	}
	//
	if err := fixture.validate(); err != nil {
		return nil, err
	}
	//
	return &fixture, nil
}

// Instructions returns the assembled program of this fixture.
func (p *Fixture) Instructions() []insn.Instruction {
	return p.program
}

// InputWords returns the number of 32bit words in the input vector.
func (p *Fixture) InputWords() uint {
	var n uint
	//
	for _, d := range p.Inputs {
		n += d.Words()
	}
	//
	return n
}

// Scenario returns the scenario with the given name.
func (p *Fixture) Scenario(name string) (Scenario, bool) {
	for _, s := range p.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	//
	return Scenario{}, false
}

// InputBytes returns the input block of a given scenario, as written into
// memory.
func (p *Fixture) InputBytes(scenario Scenario) []byte {
	var bytes = make([]byte, 4*len(scenario.Input))
	//
	for i, w := range scenario.Input {
		bytes[4*i] = byte(w >> 24)
		bytes[4*i+1] = byte(w >> 16)
		bytes[4*i+2] = byte(w >> 8)
		bytes[4*i+3] = byte(w)
	}
	//
	return bytes
}

// Register returns the named vector input of a given scenario.
func (p *Fixture) Register(scenario Scenario, name string) (vec.Register, bool) {
	var index uint
	//
	for _, d := range p.Inputs {
		if d.Name == name && d.Type == V128 {
			return vec.RegisterFromWords(scenario.Input[index : index+4]...), true
		}
		//
		index += d.Words()
	}
	//
	return vec.Register{}, false
}

// Preload initialises those registers which are loaded directly from the input
// vector of a given scenario.
func (p *Fixture) Preload(scenario Scenario, vector func(uint8, vec.Register), scalar func(uint8, uint32)) {
	var index uint
	//
	for _, d := range p.Inputs {
		if d.Register == "" {
			// skip
		} else if reg, ok := insn.ParseVpr(d.Register); ok && d.Type == V128 {
			vector(reg.Index, vec.RegisterFromWords(scenario.Input[index:index+4]...))
		} else if reg, ok := insn.ParseGpr(d.Register); ok && d.Type == U32 {
			scalar(reg.Index, scenario.Input[index])
		}
		//
		index += d.Words()
	}
}

func (p *Fixture) validate() error {
	var (
		errs  []error
		names = make(map[string]bool)
		words = p.InputWords()
		end   = uint64(p.InputBase) + 4*uint64(words)
	)
	//
	if p.MemorySize%memory.BankSize != 0 {
		errs = append(errs, fmt.Errorf("memory size 0x%x not a multiple of %d", p.MemorySize, memory.BankSize))
	}
	//
	if end > uint64(p.MemorySize) {
		errs = append(errs, fmt.Errorf("input block [0x%x, 0x%x) out-of-bounds", p.InputBase, end))
	}
	//
	for _, d := range p.Inputs {
		if d.Type != V128 && d.Type != U32 {
			errs = append(errs, fmt.Errorf("input %s has unknown type \"%s\"", d.Name, d.Type))
		} else if d.Register != "" && !canPreload(d) {
			errs = append(errs, fmt.Errorf("input %s cannot be loaded into %s", d.Name, d.Register))
		}
	}
	//
	for _, d := range p.Outputs {
		if names[d.Name] {
			errs = append(errs, fmt.Errorf("duplicate output %s", d.Name))
		} else if d.Type != V128 {
			errs = append(errs, fmt.Errorf("output %s has unsupported type \"%s\"", d.Name, d.Type))
		} else if uint64(d.Address)+vec.RegisterBytes > uint64(p.MemorySize) {
			errs = append(errs, fmt.Errorf("output %s at 0x%x out-of-bounds", d.Name, d.Address))
		}
		//
		names[d.Name] = true
	}
	//
	clear(names)
	//
	for _, s := range p.Scenarios {
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate scenario %s", s.Name))
		} else if uint(len(s.Input)) != words {
			errs = append(errs, fmt.Errorf("scenario %s has %d input words (expected %d)", s.Name, len(s.Input), words))
		}
		//
		names[s.Name] = true
	}
	// Assemble program
	program, syntaxErrors := asm.Assemble(p.Program)
	//
	for _, e := range syntaxErrors {
		errs = append(errs, fmt.Errorf("program %w", e))
	}
	//
	p.program = program
	//
	return errors.Join(errs...)
}

func canPreload(d Descriptor) bool {
	if d.Type == V128 {
		_, ok := insn.ParseVpr(d.Register)
		return ok
	}
	//
	_, ok := insn.ParseGpr(d.Register)
	//
	return ok
}

// String returns a short summary of this fixture.
func (p *Fixture) String() string {
	var names = make([]string, len(p.Scenarios))
	//
	for i, s := range p.Scenarios {
		names[i] = s.Name
	}
	//
	return fmt.Sprintf("%s (%d instructions; scenarios %s)", p.Name, len(p.program), strings.Join(names, ", "))
}
