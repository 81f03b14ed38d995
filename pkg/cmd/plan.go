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
	"strconv"

	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
	"github.com/CQCumbers/r64emu/pkg/util/termio"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan [flags]",
		Short: "Show the byte transfers of a wrapped store.",
		Long: `Show which register byte is transferred to which address by a wrapped store
(swv) with a given element and effective address.  Addresses outside the
accessed bank are never touched.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var element = GetUint(cmd, "element")
			//
			address, err := strconv.ParseUint(GetString(cmd, "address"), 0, 32)
			if err != nil {
				return WithExitCodeIfNone(fmt.Errorf("invalid address: %w", err), exitInput)
			} else if element > vu.MaxElement {
				return WithExitCodeIfNone(fmt.Errorf("element %d out-of-bounds", element), exitInput)
			}
			//
			printPlan(cmd, element, uint32(address))
			//
			return nil
		},
	}
	//
	planCmd.Flags().UintP("element", "e", 0, "element selector")
	planCmd.Flags().StringP("address", "a", "0", "effective address")
	//
	return planCmd
}

func printPlan(cmd *cobra.Command, element uint, address uint32) {
	var (
		out   = cmd.OutOrStdout()
		plan  = vu.Plan(element, address)
		tp    = termio.NewTablePrinter(3, uint(len(plan))+1)
		wraps = color.New(color.FgYellow)
	)
	//
	fmt.Fprintf(out, "swv e%d at 0x%x (bank %d at 0x%x, offset %d)\n", element, address,
		memory.BankOf(address), memory.BankBase(address), memory.BankOffset(address))
	//
	tp.SetRow(0, "i", "byte", "address")
	//
	for i, t := range plan {
		row := uint(i) + 1
		tp.SetRow(row, strconv.Itoa(i), strconv.Itoa(int(t.Byte)), fmt.Sprintf("0x%x", t.Address))
		// Highlight transfers which wrapped around the bank
		if t.Address < address {
			tp.SetColour(2, row, wraps)
		}
	}
	//
	tp.AnsiEscapes(termio.IsTerminal(out))
	tp.Print(out)
}
