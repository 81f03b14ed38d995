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
package asm

import (
	"testing"

	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
)

func Test_Lexer_01(t *testing.T) {
	checkLexer(t, "", END_OF)
	checkLexer(t, "  \t# comment only", END_OF)
	checkLexer(t, "lqv $v0[e0], 0x00($zero)",
		IDENTIFIER, REGISTER, LBRACKET, IDENTIFIER, RBRACKET, COMMA, NUMBER, LBRACE, REGISTER, RBRACE, END_OF)
	checkLexer(t, "addi $t0, $t0, -16 ; decrement\nbreak",
		IDENTIFIER, REGISTER, COMMA, REGISTER, COMMA, NUMBER, NEWLINE, IDENTIFIER, END_OF)
	checkLexer(t, "@", UNKNOWN, END_OF)
}

func Test_Assemble_01(t *testing.T) {
	checkAssemble(t, "lqv $v0[e0], 0x00($zero)", &insn.VectorLoad{Op: vu.QV, Target: insn.Vpr(0), Base: insn.ZERO})
	checkAssemble(t, "swv $v7[e15], 0x50($a0)",
		&insn.VectorStore{Op: vu.WV, Source: insn.Vpr(7), Element: 15, Base: insn.Gpr(4), Offset: 0x50})
	checkAssemble(t, "SDV $v31[e8], -8($t0)",
		&insn.VectorStore{Op: vu.DV, Source: insn.Vpr(31), Element: 8, Base: insn.Gpr(8), Offset: -8})
	checkAssemble(t, "lbv $v1, ($at)", &insn.VectorLoad{Op: vu.BV, Target: insn.Vpr(1), Base: insn.Gpr(1)})
	checkAssemble(t, "lw $t0, 0x80($zero)", &insn.Lw{Target: insn.Gpr(8), Base: insn.ZERO, Offset: 0x80})
	checkAssemble(t, "add $a0, $a0, $t0", &insn.Add{Target: insn.Gpr(4), Lhs: insn.Gpr(4), Rhs: insn.Gpr(8)})
	checkAssemble(t, "addiu $a0, $zero, 0x800", &insn.Addi{Target: insn.Gpr(4), Source: insn.ZERO, Immediate: 0x800})
	checkAssemble(t, "break", &insn.Break{})
}

func Test_Assemble_02(t *testing.T) {
	var text = `
	# load inputs
	lqv $v0[e0], 0x00($zero)
	lqv $v1[e0], 0x10($zero)

	lw $t0, 0x80($zero)   ; offset
	addi $a0, $zero, 0x800
	add $a0, $a0, $t0
	swv $v0[e0], 0x00($a0)
	break
	`
	//
	program, errs := Assemble(text)
	//
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	} else if len(program) != 7 {
		t.Fatalf("expected 7 instructions, found %d", len(program))
	}
	// Disassembly is stable
	again, errs := Assemble(Disassemble(program))
	//
	if len(errs) != 0 || Disassemble(again) != Disassemble(program) {
		t.Errorf("disassembly not stable: %s", Disassemble(again))
	}
}

func Test_Assemble_03(t *testing.T) {
	checkSyntaxError(t, "foo $t0", 1, 1)
	checkSyntaxError(t, "lqv $t0[e0], 0($zero)", 1, 5)
	checkSyntaxError(t, "break\nlw $v32, 0($zero)", 2, 4)
	checkSyntaxError(t, "swv $v0[x1], 0($a0)", 1, 9)
	checkSyntaxError(t, "swv $v0[e0] 0($a0)", 1, 13)
	checkSyntaxError(t, "swv $v0[e0], 0($a0", 1, 19)
	checkSyntaxError(t, "add $t0, $t0, $t1 $t2", 1, 19)
	checkSyntaxError(t, "lw $t0, 0x($zero)", 1, 9)
	// Well-formed but invalid
	checkSyntaxError(t, "swv $v0[e16], 0($a0)", 1, 1)
	checkSyntaxError(t, "\n\n  swv $v0[e0], 0x8($a0)", 3, 3)
}

func Test_Assemble_04(t *testing.T) {
	// Errors on separate lines are all reported
	_, errs := Assemble("foo\nlqv $v0[e0], 0($zero)\nbar\n")
	//
	if len(errs) != 2 || errs[0].Line != 1 || errs[1].Line != 3 {
		t.Errorf("unexpected errors %v", errs)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkLexer(t *testing.T, text string, kinds ...uint) {
	tokens := Lex([]rune(text))
	//
	if len(tokens) != len(kinds) {
		t.Fatalf("\"%s\": expected %d tokens, found %d (%v)", text, len(kinds), len(tokens), tokens)
	}
	//
	for i, token := range tokens {
		if token.Kind != kinds[i] {
			t.Errorf("\"%s\": token %d has kind %d (expected %d)", text, i, token.Kind, kinds[i])
		}
	}
}

func checkAssemble(t *testing.T, text string, expected insn.Instruction) {
	program, errs := Assemble(text)
	//
	if len(errs) != 0 {
		t.Errorf("\"%s\": unexpected errors %v", text, errs)
	} else if len(program) != 1 {
		t.Errorf("\"%s\": expected one instruction (found %d)", text, len(program))
	} else if program[0].String() != expected.String() {
		t.Errorf("\"%s\": assembled \"%s\" (expected \"%s\")", text, program[0], expected)
	}
}

func checkSyntaxError(t *testing.T, text string, line int, column int) {
	_, errs := Assemble(text)
	//
	if len(errs) != 1 {
		t.Errorf("\"%s\": expected one error (found %v)", text, errs)
	} else if errs[0].Line != line || errs[0].Column != column {
		t.Errorf("\"%s\": error \"%s\" at %d:%d (expected %d:%d)", text, errs[0].Message, errs[0].Line,
			errs[0].Column, line, column)
	}
}
