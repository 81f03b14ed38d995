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

	"github.com/CQCumbers/r64emu/pkg/rsp/asm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newAsmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm [flags] program.s",
		Short: "Assemble a program.",
		Long: `Assemble a program, reporting any syntax errors or printing the program in
canonical form.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out = cmd.OutOrStdout()
			//
			bytes, err := afero.ReadFile(appFs, args[0])
			if err != nil {
				return WithExitCodeIfNone(err, exitInput)
			}
			//
			program, errs := asm.Assemble(string(bytes))
			// Report errors
			for _, e := range errs {
				printSyntaxError(out, args[0], e, string(bytes))
			}
			//
			if len(errs) > 0 {
				return WithExitCodeIfNone(fmt.Errorf("%d syntax error(s)", len(errs)), exitInput)
			}
			//
			fmt.Fprint(out, asm.Disassemble(program))
			//
			return nil
		},
	}
}
