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
	"github.com/CQCumbers/r64emu/pkg/util/termio"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] fixture.yaml",
		Short: "Check the outputs of a fixture.",
		Long: `Check the outputs of each scenario of a fixture against those computed by
the reference model and, where available, those recorded in its golden file.
By default, the golden file for "name.yaml" is "name.golden.yaml".`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFixture(args[0])
			if err != nil {
				return err
			}
			//
			golden, err := readGolden(cmd, args[0])
			if err != nil {
				return err
			}
			//
			results, err := runFixture(cmd, f)
			if err != nil {
				return err
			}
			//
			return checkResults(cmd.OutOrStdout(), f, results, golden)
		},
	}
	//
	addRunFlags(checkCmd)
	checkCmd.Flags().String("golden", "", "golden file to check against")
	//
	return checkCmd
}

// Read the golden file for a given fixture.  When no golden file was explicitly
// given, the default is used if it exists.
func readGolden(cmd *cobra.Command, filename string) (fixture.Golden, error) {
	var explicit = GetString(cmd, "golden")
	//
	if explicit == "" {
		filename = goldenFile(filename)
		//
		if ok, _ := afero.Exists(appFs, filename); !ok {
			log.Debugf("no golden file %s", filename)
			return nil, nil
		}
	} else {
		filename = explicit
	}
	//
	golden, err := fixture.LoadGolden(appFs, filename)
	//
	return golden, WithExitCodeIfNone(err, exitInput)
}

// Check results against the reference model and (optionally) a golden record.
func checkResults(out io.Writer, f *fixture.Fixture, results []fixture.Result, golden fixture.Golden) error {
	var (
		expected   = make([]fixture.Result, len(results))
		failures   = make(map[string]bool)
		mismatches []fixture.Mismatch
		err        error
	)
	// Reference model supports only a subset of programs
	for i, r := range results {
		scenario, _ := f.Scenario(r.Scenario)
		//
		if expected[i], err = fixture.Expect(f, scenario); err != nil {
			log.Warnf("skipping reference model (%s)", err)
			break
		}
	}
	//
	if err == nil {
		mismatches = fixture.Diff(expected, results)
	} else if golden == nil {
		return WithExitCodeIfNone(fmt.Errorf("nothing to check against"), exitInput)
	}
	//
	if golden != nil {
		mismatches = append(mismatches, golden.Compare(results)...)
	}
	//
	for _, m := range mismatches {
		log.Debug(m.String())
		failures[m.Scenario+"."+m.Output] = true
	}
	//
	printChecks(out, results, golden != nil, failures)
	//
	if len(mismatches) > 0 {
		return WithExitCodeIfNone(fmt.Errorf("%d mismatch(es)", len(mismatches)), exitMismatch)
	}
	//
	return nil
}

func printChecks(out io.Writer, results []fixture.Result, golden bool, failures map[string]bool) {
	var (
		height uint = 1
		row    uint = 1
		pass        = color.New(color.FgGreen)
		fail        = color.New(color.FgRed, color.Bold)
	)
	//
	for _, r := range results {
		height += uint(len(r.Outputs))
	}
	//
	tp := termio.NewTablePrinter(4, height)
	tp.SetRow(0, "scenario", "output", "value", "status")
	//
	for _, r := range results {
		for _, o := range r.Outputs {
			status, colour := "PASS", pass
			//
			if failures[r.Scenario+"."+o.Name] {
				status, colour = "FAIL", fail
			}
			//
			tp.SetRow(row, r.Scenario, o.Name, o.Value.String(), status)
			tp.SetColour(3, row, colour)
			row++
		}
	}
	//
	tp.AnsiEscapes(termio.IsTerminal(out))
	tp.Print(out)
	//
	if !golden {
		fmt.Fprintln(out, "(no golden file)")
	}
}
