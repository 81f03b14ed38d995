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
package cmd

import (
	"fmt"
	"io"

	"github.com/CQCumbers/r64emu/pkg/fixture"
	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/machine"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	"github.com/CQCumbers/r64emu/pkg/util/termio"
	"github.com/fatih/color"
)

var (
	inputColour  = color.New(color.FgGreen)
	outputColour = color.New(color.FgRed)
)

// Print the final registers of each result.  Registers read by the program are
// highlighted as inputs, whilst those written by it are highlighted as outputs.
func printRegisters(out io.Writer, f *fixture.Fixture, results []fixture.Result) {
	var footprint = insn.Footprint(f.Instructions())
	//
	for _, r := range results {
		fmt.Fprintf(out, "\n[%s] Registers\n", r.Scenario)
		printScalars(out, r.Registers, footprint)
		printVectors(out, r.Registers, footprint)
	}
}

// Print the scalar registers in four columns of (name, value) pairs.
func printScalars(out io.Writer, regs machine.Snapshot, footprint map[insn.Register]insn.Access) {
	const columns = 4
	//
	var (
		height = uint(insn.NumRegisters / columns)
		tp     = termio.NewTablePrinter(2*columns, height)
	)
	//
	for i := range uint8(insn.NumRegisters) {
		var (
			reg = insn.Gpr(i)
			col = 2 * (uint(i) / height)
			row = uint(i) % height
		)
		//
		tp.Set(col, row, reg.String())
		tp.Set(col+1, row, fmt.Sprintf("%08x", regs.Scalars[i]))
		tp.SetColour(col+1, row, highlight(footprint, reg))
	}
	//
	tp.AnsiEscapes(termio.IsTerminal(out))
	tp.Print(out)
}

// Print the vector registers one per row, with each lane in its own column.
func printVectors(out io.Writer, regs machine.Snapshot, footprint map[insn.Register]insn.Access) {
	var tp = termio.NewTablePrinter(vec.NumLanes+1, vec.NumRegisters)
	//
	for i, value := range regs.Vectors {
		var (
			reg    = insn.Vpr(uint8(i))
			row    = uint(i)
			colour = highlight(footprint, reg)
		)
		//
		tp.Set(0, row, reg.String())
		//
		for lane := range uint(vec.NumLanes) {
			tp.Set(lane+1, row, fmt.Sprintf("%04x", value.Lane(lane)))
			tp.SetColour(lane+1, row, colour)
		}
	}
	//
	tp.AnsiEscapes(termio.IsTerminal(out))
	tp.Print(out)
}

// Determine the colour for a given register, or nil if it is not accessed.
func highlight(footprint map[insn.Register]insn.Access, reg insn.Register) *color.Color {
	switch access := footprint[reg]; {
	case access&insn.WRITE != 0:
		return outputColour
	case access&insn.READ != 0:
		return inputColour
	default:
		return nil
	}
}
