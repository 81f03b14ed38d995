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

	"github.com/CQCumbers/r64emu/pkg/fixture"
	"github.com/spf13/cobra"
)

func newGoldenCmd() *cobra.Command {
	goldenCmd := &cobra.Command{
		Use:   "golden [flags] fixture.yaml",
		Short: "Record the outputs of a fixture in a golden file.",
		Long: `Execute every scenario of a fixture and record the outputs in a golden file,
against which later runs can be checked.  By default, the golden file for
"name.yaml" is "name.golden.yaml".`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var output = GetString(cmd, "output")
			//
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
			if output == "" {
				output = goldenFile(args[0])
			}
			//
			if err := fixture.WriteGolden(appFs, output, fixture.NewGolden(results)); err != nil {
				return err
			}
			//
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d scenario(s) to %s\n", len(results), output)
			//
			return nil
		},
	}
	//
	addRunFlags(goldenCmd)
	goldenCmd.Flags().StringP("output", "o", "", "golden file to write")
	//
	return goldenCmd
}
