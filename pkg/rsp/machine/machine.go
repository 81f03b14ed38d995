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
	"errors"
	"fmt"

	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
	log "github.com/sirupsen/logrus"
)

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.  A chunk of
// zero steps is treated as a chunk of one.
func ExecuteAll[M Core](machine M, n uint) (uint, error) {
	var nsteps uint
	//
	n = max(n, 1)
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Core represents an executing machine.  A machine may be executing or halted.
type Core interface {
	// Execute the machine for the given number of steps, returning the actual
	// number of steps executed and an error (if execution failed).
	Execute(steps uint) (uint, error)
	// Return the state of this machine.
	State() *State
}

// Executor captures a function which can execute a single instruction within
// the context of a given machine's state.  This may produce an error, such as
// when an unknown instruction is encountered.
type Executor interface {
	Execute(state *State, instruction insn.Instruction) error
}

// Fault reports a configuration fault (such as an out-of-bounds address)
// raised whilst executing a given instruction.  A fault aborts execution.
type Fault struct {
	PC          uint
	Instruction insn.Instruction
	Err         error
}

func (p *Fault) Error() string {
	return fmt.Sprintf("fault at [%d] %s: %s", p.PC, p.Instruction, p.Err)
}

func (p *Fault) Unwrap() error {
	return p.Err
}

// Machine executes a straight-line program in order, with each instruction
// completing before the next begins.  Execution halts at a break instruction,
// or when the end of the program is reached.
type Machine struct {
	program  []insn.Instruction
	state    *State
	executor Executor
}

var _ Core = &Machine{}

// New constructs a machine for a given program operating over a given memory.
// Instructions are executed by the default Interpreter.  Every instruction is
// validated first, with an error returned for each malformed instruction.
func New(program []insn.Instruction, dmem memory.Memory) (*Machine, error) {
	if errs := insn.Validate(program); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	//
	return &Machine{program, NewState(dmem), Interpreter{}}, nil
}

// State implementation for the Core interface.
func (p *Machine) State() *State {
	return p.state
}

// Execute implementation for the Core interface.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.state.halted; nsteps++ {
		var pc = p.state.pc
		// Check for end of program
		if pc >= uint(len(p.program)) {
			p.state.Halt()
			break
		}
		//
		if err := p.step(pc, p.program[pc]); err != nil {
			return nsteps, err
		}
	}
	//
	return nsteps, nil
}

// step executes a single instruction, recovering any configuration fault it
// raises.
func (p *Machine) step(pc uint, instruction insn.Instruction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asFault(pc, instruction, r)
		}
	}()
	//
	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithFields(log.Fields{
			"pc":   pc,
			"insn": instruction.String(),
			"uses": instruction.Uses(),
			"defs": instruction.Definitions(),
		}).Trace("execute")
	}
	//
	if err = p.executor.Execute(p.state, instruction); err != nil {
		return &Fault{pc, instruction, err}
	}
	//
	return nil
}

// asFault converts a recovered panic into a fault, provided it arose from a
// configuration fault.  Anything else is a genuine failure and is propagated.
func asFault(pc uint, instruction insn.Instruction, r any) error {
	switch e := r.(type) {
	case *memory.Fault:
		return &Fault{pc, instruction, e}
	case *vec.Fault:
		return &Fault{pc, instruction, e}
	case *vu.Fault:
		return &Fault{pc, instruction, e}
	default:
		panic(r)
	}
}
