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
	"github.com/CQCumbers/r64emu/pkg/util"
	"github.com/CQCumbers/r64emu/pkg/util/termio"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [flags] fixture.yaml",
		Short: "Execute the scenarios of a fixture.",
		Long: `Execute the scenarios of a fixture, printing the value of every output
after each scenario completes.  Optionally, the final registers of each scenario
are printed, highlighting those read (green) and written (red) by the program.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFixture(args[0])
			if err != nil {
				return err
			}
			//
			results, err := runFixture(cmd, f)
			if err != nil {
				return err
			}
			//
			printResults(cmd.OutOrStdout(), results)
			//
			if GetFlag(cmd, "registers") {
				printRegisters(cmd.OutOrStdout(), f, results)
			}
			//
			return nil
		},
	}
	//
	addRunFlags(runCmd)
	runCmd.Flags().Bool("registers", false, "print the final registers of each scenario")
	//
	return runCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("parallel", 0, "maximum number of scenarios executing at once (0 for one per CPU)")
	cmd.Flags().StringArray("scenario", nil, "execute only the named scenario(s)")
}

// Execute the selected scenarios of a given fixture.  A fault in any scenario
// aborts the run.
func runFixture(cmd *cobra.Command, f *fixture.Fixture) ([]fixture.Result, error) {
	var (
		runner    = fixture.NewRunner(int(GetUint(cmd, "parallel")))
		scenarios []fixture.Scenario
	)
	//
	if names := GetStringArray(cmd, "scenario"); len(names) == 0 {
		scenarios = f.Scenarios
	} else {
		for _, name := range names {
			scenario, ok := f.Scenario(name)
			if !ok {
				return nil, WithExitCodeIfNone(fmt.Errorf("unknown scenario \"%s\"", name), exitInput)
			}
			//
			scenarios = append(scenarios, scenario)
		}
	}
	//
	log.Debugf("running %d scenario(s) of %s", len(scenarios), f)
	//
	stats := util.NewPerfStats()
	results, err := runner.RunScenarios(cmd.Context(), f, scenarios...)
	stats.Log(fmt.Sprintf("running %d scenario(s)", len(scenarios)))
	//
	return results, WithExitCodeIfNone(err, exitFault)
}

// Print the outputs of each result as a table.
func printResults(out io.Writer, results []fixture.Result) {
	var (
		height uint = 1
		row    uint = 1
	)
	//
	for _, r := range results {
		height += uint(len(r.Outputs))
	}
	//
	tp := termio.NewTablePrinter(4, height)
	tp.SetRow(0, "scenario", "output", "address", "value")
	//
	for _, r := range results {
		for _, o := range r.Outputs {
			tp.SetRow(row, r.Scenario, o.Name, fmt.Sprintf("0x%03x", o.Address), o.Value.String())
			tp.SetColour(3, row, color.New(color.FgCyan))
			row++
		}
	}
	//
	tp.AnsiEscapes(termio.IsTerminal(out))
	tp.Print(out)
}
