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
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/CQCumbers/r64emu/pkg/fixture"
	"github.com/CQCumbers/r64emu/pkg/rsp/asm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitFailure  = 1
	exitInput    = 2
	exitFault    = 3
	exitMismatch = 4
)

// appFs is the filesystem through which all files are read and written.
var appFs = afero.NewOsFs()

// HasExitCode is an error with an attached exit code.
type HasExitCode interface {
	error
	ExitCode() int
}

type withExitCode struct {
	error
	exitCode int
}

func (p withExitCode) Unwrap() error {
	return p.error
}

func (p withExitCode) ExitCode() int {
	return p.exitCode
}

// WithExitCodeIfNone attaches an exit code to a given error, provided it
// doesn't have one already.
func WithExitCodeIfNone(err error, exitCode int) error {
	var ecerr HasExitCode
	//
	if err == nil || errors.As(err, &ecerr) {
		return err
	}
	//
	return withExitCode{err, exitCode}
}

// ExitCode determines the code with which to exit for a given error.
func ExitCode(err error) int {
	var ecerr HasExitCode
	//
	if err == nil {
		return 0
	} else if errors.As(err, &ecerr) {
		return ecerr.ExitCode()
	}
	//
	return exitFailure
}

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitInput)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitInput)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitInput)
	}

	return r
}

// GetStringArray gets an expected string array flag, or panic if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitInput)
	}

	return r
}

// exactArgs requires a given number of positional arguments, treating anything
// else as an input error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return WithExitCodeIfNone(cobra.ExactArgs(n)(cmd, args), exitInput)
	}
}

// Read a fixture file, treating any failure as an input error.
func readFixture(filename string) (*fixture.Fixture, error) {
	f, err := fixture.Load(appFs, filename)
	//
	return f, WithExitCodeIfNone(err, exitInput)
}

// Determine the default golden file for a given fixture file.  For example,
// "swv.yaml" becomes "swv.golden.yaml".
func goldenFile(filename string) string {
	ext := path.Ext(filename)
	//
	return strings.TrimSuffix(filename, ext) + ".golden" + ext
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(out io.Writer, filename string, err *asm.SyntaxError, text string) {
	var lines = strings.Split(text, "\n")
	// Print error + line number
	fmt.Fprintf(out, "%s:%d:%d %s\n", filename, err.Line, err.Column, err.Message)
	//
	if err.Line > len(lines) {
		return
	}
	// Print line
	fmt.Fprintln(out, lines[err.Line-1])
	// Print indent (todo: account for tabs)
	fmt.Fprint(out, strings.Repeat(" ", err.Column-1))
	// Print highlight
	fmt.Fprintln(out, "^")
}
