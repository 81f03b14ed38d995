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
	"fmt"
	"strconv"
	"strings"

	"github.com/CQCumbers/r64emu/pkg/rsp/insn"
	"github.com/CQCumbers/r64emu/pkg/rsp/vu"
	"github.com/CQCumbers/r64emu/pkg/util/source"
	"github.com/CQCumbers/r64emu/pkg/util/source/lex"
)

// SyntaxError is a structured error which retains the position (line and
// column, both starting from 1) at which the error arose.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d %s", p.Line, p.Column, p.Message)
}

// Assemble parses a given program text into a sequence of instructions.  The
// program is a straight-line sequence with at most one instruction per line.
// Any syntax errors encountered are returned (in order), in which case the
// instructions returned should be ignored.  Every instruction produced is
// validated.
func Assemble(text string) ([]insn.Instruction, []*SyntaxError) {
	var (
		p       = newParser(source.NewSourceFile([]byte(text)))
		program []insn.Instruction
		errors  []*SyntaxError
	)
	//
	for !p.lookahead(END_OF) {
		if p.match(NEWLINE) {
			continue
		}
		//
		start := p.index
		//
		if instruction, err := p.parseInstruction(); err != nil {
			errors = append(errors, err)
			// skip remainder of line
			p.skipLine()
		} else if err := instruction.Validate(); err != nil {
			errors = append(errors, p.errorAt(start, err.Error()))
		} else {
			program = append(program, instruction)
		}
	}
	//
	return program, errors
}

// Disassemble produces the canonical text of a given program, with one
// instruction per line.
func Disassemble(program []insn.Instruction) string {
	var builder strings.Builder
	//
	for _, instruction := range program {
		builder.WriteString(instruction.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

type parser struct {
	srcfile *source.File
	tokens  []lex.Token
	index   int
}

func newParser(srcfile *source.File) *parser {
	return &parser{srcfile, Lex(srcfile.Contents()), 0}
}

func (p *parser) parseInstruction() (insn.Instruction, *SyntaxError) {
	var (
		start    = p.index
		mnemonic string
		err      *SyntaxError
	)
	//
	if mnemonic, err = p.expect(IDENTIFIER, "expected instruction"); err != nil {
		return nil, err
	}
	//
	mnemonic = strings.ToLower(mnemonic)
	//
	var instruction insn.Instruction
	//
	switch {
	case mnemonic == "break":
		instruction = &insn.Break{}
	case mnemonic == "lw":
		instruction, err = p.parseLw()
	case mnemonic == "add" || mnemonic == "addu":
		instruction, err = p.parseAdd()
	case mnemonic == "addi" || mnemonic == "addiu":
		instruction, err = p.parseAddi()
	case isVectorMnemonic(mnemonic):
		instruction, err = p.parseVectorAccess(mnemonic)
	default:
		return nil, p.errorAt(start, fmt.Sprintf("unknown instruction \"%s\"", mnemonic))
	}
	//
	if err != nil {
		return nil, err
	} else if !p.lookahead(NEWLINE) && !p.lookahead(END_OF) {
		return nil, p.errorAt(p.index, "expected end of line")
	}
	//
	return instruction, nil
}

// lw target, offset(base)
func (p *parser) parseLw() (insn.Instruction, *SyntaxError) {
	var (
		lw  insn.Lw
		err *SyntaxError
	)
	//
	if lw.Target, err = p.parseGpr(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if lw.Offset, lw.Base, err = p.parseAddress(); err != nil {
		return nil, err
	}
	//
	return &lw, nil
}

// add target, lhs, rhs
func (p *parser) parseAdd() (insn.Instruction, *SyntaxError) {
	var (
		add insn.Add
		err *SyntaxError
	)
	//
	if add.Target, err = p.parseGpr(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if add.Lhs, err = p.parseGpr(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if add.Rhs, err = p.parseGpr(); err != nil {
		return nil, err
	}
	//
	return &add, nil
}

// addi target, source, immediate
func (p *parser) parseAddi() (insn.Instruction, *SyntaxError) {
	var (
		addi insn.Addi
		err  *SyntaxError
	)
	//
	if addi.Target, err = p.parseGpr(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if addi.Source, err = p.parseGpr(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if addi.Immediate, err = p.parseNumber(); err != nil {
		return nil, err
	}
	//
	return &addi, nil
}

// l?v / s?v vreg[element], offset(base)
func (p *parser) parseVectorAccess(mnemonic string) (insn.Instruction, *SyntaxError) {
	var (
		op, _   = vu.OpByName(mnemonic[1:])
		vreg    insn.Register
		element uint
		offset  int32
		base    insn.Register
		err     *SyntaxError
	)
	//
	if vreg, err = p.parseVpr(); err != nil {
		return nil, err
	} else if element, err = p.parseElement(); err != nil {
		return nil, err
	} else if _, err = p.expect(COMMA, "expected ','"); err != nil {
		return nil, err
	} else if offset, base, err = p.parseAddress(); err != nil {
		return nil, err
	}
	//
	if mnemonic[0] == 'l' {
		return &insn.VectorLoad{Op: op, Target: vreg, Element: element, Base: base, Offset: offset}, nil
	}
	//
	return &insn.VectorStore{Op: op, Source: vreg, Element: element, Base: base, Offset: offset}, nil
}

// Parse an (optional) element selector of the form "[eN]".  When omitted, the
// element is 0.
func (p *parser) parseElement() (uint, *SyntaxError) {
	if !p.match(LBRACKET) {
		return 0, nil
	}
	//
	start := p.index
	//
	text, err := p.expect(IDENTIFIER, "expected element")
	if err != nil {
		return 0, err
	}
	//
	element, perr := strconv.ParseUint(strings.TrimPrefix(text, "e"), 10, 8)
	//
	if !strings.HasPrefix(text, "e") || perr != nil {
		return 0, p.errorAt(start, fmt.Sprintf("invalid element \"%s\"", text))
	} else if _, err = p.expect(RBRACKET, "expected ']'"); err != nil {
		return 0, err
	}
	//
	return uint(element), nil
}

// Parse an address of the form "offset(base)", where the offset is optional.
func (p *parser) parseAddress() (int32, insn.Register, *SyntaxError) {
	var (
		offset int32
		base   insn.Register
		err    *SyntaxError
	)
	//
	if p.lookahead(NUMBER) {
		if offset, err = p.parseNumber(); err != nil {
			return 0, base, err
		}
	}
	//
	if _, err = p.expect(LBRACE, "expected '('"); err != nil {
		return 0, base, err
	} else if base, err = p.parseGpr(); err != nil {
		return 0, base, err
	} else if _, err = p.expect(RBRACE, "expected ')'"); err != nil {
		return 0, base, err
	}
	//
	return offset, base, nil
}

func (p *parser) parseGpr() (insn.Register, *SyntaxError) {
	var start = p.index
	//
	text, err := p.expect(REGISTER, "expected scalar register")
	if err != nil {
		return insn.Register{}, err
	}
	//
	if reg, ok := insn.ParseGpr(text); ok {
		return reg, nil
	}
	//
	return insn.Register{}, p.errorAt(start, fmt.Sprintf("unknown scalar register \"%s\"", text))
}

func (p *parser) parseVpr() (insn.Register, *SyntaxError) {
	var start = p.index
	//
	text, err := p.expect(REGISTER, "expected vector register")
	if err != nil {
		return insn.Register{}, err
	}
	//
	if reg, ok := insn.ParseVpr(text); ok {
		return reg, nil
	}
	//
	return insn.Register{}, p.errorAt(start, fmt.Sprintf("unknown vector register \"%s\"", text))
}

func (p *parser) parseNumber() (int32, *SyntaxError) {
	var start = p.index
	//
	text, err := p.expect(NUMBER, "expected number")
	if err != nil {
		return 0, err
	}
	// base 0 permits the "0x" prefix
	val, perr := strconv.ParseInt(text, 0, 32)
	if perr != nil {
		return 0, p.errorAt(start, fmt.Sprintf("invalid number \"%s\"", text))
	}
	//
	return int32(val), nil
}

// ============================================================================
// Helpers
// ============================================================================

func isVectorMnemonic(mnemonic string) bool {
	if len(mnemonic) != 3 || (mnemonic[0] != 'l' && mnemonic[0] != 's') {
		return false
	}
	//
	_, ok := vu.OpByName(mnemonic[1:])
	//
	return ok
}

// lookahead checks whether the next token is of a given kind.
func (p *parser) lookahead(kind uint) bool {
	return p.tokens[p.index].Kind == kind
}

// match consumes the next token if it is of a given kind.
func (p *parser) match(kind uint) bool {
	if p.lookahead(kind) {
		p.index++
		return true
	}
	//
	return false
}

// expect consumes the next token, which must be of a given kind, returning its
// text.
func (p *parser) expect(kind uint, msg string) (string, *SyntaxError) {
	if !p.lookahead(kind) {
		return "", p.errorAt(p.index, msg)
	}
	//
	token := p.tokens[p.index]
	p.index++
	//
	return string(p.srcfile.Contents()[token.Span.Start():token.Span.End()]), nil
}

// skipLine skips all tokens up to, and including, the next newline.
func (p *parser) skipLine() {
	for !p.lookahead(END_OF) {
		if p.match(NEWLINE) {
			return
		}
		//
		p.index++
	}
}

// errorAt constructs a syntax error positioned at a given token.
func (p *parser) errorAt(index int, msg string) *SyntaxError {
	var (
		span = p.tokens[index].Span
		line = p.srcfile.FindFirstEnclosingLine(span)
	)
	//
	return &SyntaxError{line.Number(), line.Column(span.Start()), msg}
}
