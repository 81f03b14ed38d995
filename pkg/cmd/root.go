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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// NewRootCmd constructs the base command, along with all of its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rspvec",
		Short: "A simulator for the wrapped vector loads and stores of the RSP.",
		Long: `A simulator for the vector load and store instructions of the RSP.
Fixtures describe a program, the layout of its inputs and outputs, and a set
of scenarios under which it is executed.  Outputs are checked against a
reference model and against golden files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: configure,
		RunE: func(cmd *cobra.Command, args []string) error {
			if GetFlag(cmd, "version") {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			//
			return cmd.Help()
		},
	}
	//
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().AddFlagSet(persistentFlagSet())
	//
	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newGoldenCmd(), newAsmCmd(), newPlanCmd())
	//
	return rootCmd
}

// Execute constructs the root command and executes it, exiting with an
// appropriate code on failure.  This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	//
	stop()
	//
	if err != nil {
		log.Error(err)
		os.Exit(ExitCode(err))
	}
}

// persistentFlagSet constructs the flags shared by all commands.
func persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "increase logging verbosity")
	flags.Bool("trace", false, "log every instruction executed")
	flags.Bool("no-color", false, "disable coloured output")
	//
	return flags
}

func configure(cmd *cobra.Command, _ []string) error {
	switch {
	case GetFlag(cmd, "trace"):
		log.SetLevel(log.TraceLevel)
	case GetFlag(cmd, "verbose"):
		log.SetLevel(log.DebugLevel)
	}
	//
	if GetFlag(cmd, "no-color") {
		color.NoColor = true
	}
	//
	return nil
}

func printVersion(out io.Writer) {
	fmt.Fprint(out, "rspvec ")
	//
	if Version != "" {
		// Built via "make"
		fmt.Fprintf(out, "%s", Version)
	} else if info, ok := debug.ReadBuildInfo(); ok {
		// Built via "go install"
		fmt.Fprintf(out, "%s", info.Main.Version)
	} else {
		// Unknown, perhaps "go run"
		fmt.Fprintf(out, "(unknown version)")
	}
	//
	fmt.Fprintln(out)
}
