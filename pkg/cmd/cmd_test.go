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
	"bytes"
	"errors"
	"path"
	"strings"
	"testing"

	"github.com/CQCumbers/r64emu/pkg/fixture"
	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the fixture files are located.
const TestDir = "../../testdata"

const faultFixture = `
name: fault
inputs: [{name: address, type: u32}]
outputs: [{name: out, type: v128, address: 0x0}]
program: |
  lw $a0, 0x0($zero)
  swv $v0[e0], 0x0($a0)
scenarios:
  - name: far
    input: [0x1000]
`

func Test_Run_01(t *testing.T) {
	setupFs(t)
	//
	out, err := execute(t, "run", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "mem0e0")
	assert.Contains(t, out, "89 8A AB 8C 8D 8E 8F 80 81 82 83 84 85 86 87 88")
}

func Test_Run_02(t *testing.T) {
	setupFs(t)
	//
	out, err := execute(t, "run", "--parallel", "1", "--scenario", "offset7", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "offset7")
	assert.NotContains(t, out, "offset0")
}

func Test_Run_03(t *testing.T) {
	setupFs(t)
	//
	_, err := execute(t, "run", "--scenario", "offset3", "swv.yaml")
	assert.Equal(t, exitInput, ExitCode(err))
	//
	_, err = execute(t, "run", "missing.yaml")
	assert.Equal(t, exitInput, ExitCode(err))
	//
	_, err = execute(t, "run")
	assert.Equal(t, exitInput, ExitCode(err))
}

func Test_Run_04(t *testing.T) {
	setupFs(t)
	writeFile(t, "fault.yaml", faultFixture)
	//
	_, err := execute(t, "run", "fault.yaml")
	assert.Equal(t, exitFault, ExitCode(err))
}

func Test_Run_05(t *testing.T) {
	setupFs(t)
	//
	out, err := execute(t, "run", "--registers", "--scenario", "offset7", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "[offset7] Registers")
	// Offset loaded into $t0, and base address computed in $a0
	assert.Regexp(t, `\$t0 \| +00000007 \|`, out)
	assert.Regexp(t, `\$a0 \| +00000807 \|`, out)
	// Lanes of $v0
	assert.Contains(t, out, "$v0 | 8081 | 8283 | 8485 | 8687 | 8889 | 8aab | 8c8d | 8e8f |")
	//
	out, err = execute(t, "run", "swv.yaml")
	require.NoError(t, err)
	assert.NotContains(t, out, "Registers")
}

func Test_Highlight(t *testing.T) {
	footprint := insn.Footprint([]insn.Instruction{
		&insn.Lw{Target: insn.Gpr(8), Base: insn.ZERO, Offset: 0x80},
	})
	//
	assert.Equal(t, outputColour, highlight(footprint, insn.Gpr(8)))
	assert.Equal(t, inputColour, highlight(footprint, insn.ZERO))
	assert.Nil(t, highlight(footprint, insn.Gpr(9)))
}

func Test_Check_01(t *testing.T) {
	setupFs(t)
	//
	out, err := execute(t, "check", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.NotContains(t, out, "FAIL")
	assert.NotContains(t, out, "no golden file")
}

func Test_Check_02(t *testing.T) {
	setupFs(t)
	// Corrupt one output of the golden file
	golden, err := fixture.LoadGolden(appFs, "swv.golden.yaml")
	require.NoError(t, err)
	golden["offset15"]["mem2e7"] = "00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00"
	require.NoError(t, fixture.WriteGolden(appFs, "bad.yaml", golden))
	//
	out, err := execute(t, "check", "--golden", "bad.yaml", "swv.yaml")
	assert.Equal(t, exitMismatch, ExitCode(err))
	assert.Equal(t, 1, strings.Count(out, "FAIL"))
}

func Test_Check_03(t *testing.T) {
	setupFs(t)
	// Without a golden file, only the reference model is checked.
	require.NoError(t, appFs.Remove("swv.golden.yaml"))
	//
	out, err := execute(t, "check", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "no golden file")
	//
	_, err = execute(t, "check", "--golden", "missing.yaml", "swv.yaml")
	assert.Equal(t, exitInput, ExitCode(err))
}

func Test_Golden_01(t *testing.T) {
	setupFs(t)
	//
	out, err := execute(t, "golden", "-o", "out.yaml", "swv.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 5 scenario(s) to out.yaml")
	//
	expected, err := fixture.LoadGolden(appFs, "swv.golden.yaml")
	require.NoError(t, err)
	actual, err := fixture.LoadGolden(appFs, "out.yaml")
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func Test_Golden_02(t *testing.T) {
	setupFs(t)
	require.NoError(t, appFs.Remove("swv.golden.yaml"))
	//
	_, err := execute(t, "golden", "swv.yaml")
	require.NoError(t, err)
	//
	ok, _ := afero.Exists(appFs, "swv.golden.yaml")
	assert.True(t, ok)
}

func Test_Asm_01(t *testing.T) {
	setupFs(t)
	writeFile(t, "prog.s", "LQV $v0[e0], 0x10($zero) # load\nBREAK\n")
	//
	out, err := execute(t, "asm", "prog.s")
	require.NoError(t, err)
	assert.Equal(t, "lqv $v0[e0], 0x10($zero)\nbreak\n", out)
}

func Test_Asm_02(t *testing.T) {
	setupFs(t)
	writeFile(t, "prog.s", "break\nswv $v0[e0], 3($zero)\n")
	//
	out, err := execute(t, "asm", "prog.s")
	assert.Equal(t, exitInput, ExitCode(err))
	assert.Contains(t, out, "prog.s:2:1")
}

func Test_Plan_01(t *testing.T) {
	out, err := execute(t, "plan", "-e", "15", "-a", "0x807")
	require.NoError(t, err)
	assert.Contains(t, out, "swv e15 at 0x807 (bank 128 at 0x800, offset 7)")
	// Ninth transfer wraps to the start of the bank
	assert.Contains(t, out, "  9 |    8 |   0x800 |")
}

func Test_Plan_02(t *testing.T) {
	_, err := execute(t, "plan", "-e", "16")
	assert.Equal(t, exitInput, ExitCode(err))
	//
	_, err = execute(t, "plan", "-a", "bank")
	assert.Equal(t, exitInput, ExitCode(err))
}

func Test_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rspvec "))
}

func Test_ExitCode(t *testing.T) {
	var err = errors.New("oops")
	//
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, exitFailure, ExitCode(err))
	assert.Equal(t, exitFault, ExitCode(WithExitCodeIfNone(err, exitFault)))
	// Existing exit codes are retained
	assert.Equal(t, exitFault, ExitCode(WithExitCodeIfNone(WithExitCodeIfNone(err, exitFault), exitInput)))
	assert.NoError(t, WithExitCodeIfNone(nil, exitInput))
	assert.ErrorIs(t, WithExitCodeIfNone(err, exitInput), err)
}

// ===================================================================
// Test Helpers
// ===================================================================

// setupFs replaces the filesystem with an in-memory one, holding the fixture
// files from the test directory.
func setupFs(t *testing.T) {
	var (
		osFs  = afero.NewOsFs()
		memFs = afero.NewMemMapFs()
		prev  = appFs
	)
	//
	for _, name := range []string{"swv.yaml", "swv.golden.yaml"} {
		data, err := afero.ReadFile(osFs, path.Join(TestDir, name))
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(memFs, name, data, 0644))
	}
	//
	appFs = memFs
	//
	t.Cleanup(func() { appFs = prev })
}

func writeFile(t *testing.T, name string, contents string) {
	require.NoError(t, afero.WriteFile(appFs, name, []byte(contents), 0644))
}

func execute(t *testing.T, args ...string) (string, error) {
	var (
		buf  bytes.Buffer
		root = NewRootCmd()
	)
	//
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--no-color"))
	//
	err := root.Execute()
	t.Logf("%v: %v", args, err)
	//
	return buf.String(), err
}
