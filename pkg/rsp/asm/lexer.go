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
	"slices"

	"github.com/CQCumbers/r64emu/pkg/util/source/lex"
)

// Token kinds produced by the lexer.
const (
	END_OF uint = iota
	WHITESPACE
	COMMENT
	NEWLINE
	COMMA
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	NUMBER
	REGISTER
	IDENTIFIER
	UNKNOWN
)

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))

// Rule for describing comments, which run to the end of the line
var comment lex.Scanner[rune] = lex.SequenceNullableLast(lex.Or(lex.Unit('#'), lex.Unit(';')), lex.Until('\n'))

var letter lex.Scanner[rune] = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'),
	lex.Unit('_'),
	lex.Unit('.'))

var digit lex.Scanner[rune] = lex.Within('0', '9')

var hexDigit lex.Scanner[rune] = lex.Or(digit, lex.Within('a', 'f'), lex.Within('A', 'F'))

// Rule for describing numbers, either decimal or hexadecimal
var number lex.Scanner[rune] = lex.Or(
	lex.Sequence(lex.Unit('-'), lex.Or(hexNumber, decNumber)),
	hexNumber,
	decNumber)

var hexNumber lex.Scanner[rune] = lex.SequenceNullableLast(lex.String("0x"), lex.Many(hexDigit))

var decNumber lex.Scanner[rune] = lex.Many(digit)

// Rule for describing registers (e.g. "$t0" or "$v7")
var register lex.Scanner[rune] = lex.SequenceNullableLast(lex.Unit('$'), lex.Many(lex.Or(letter, digit)))

// Rule for describing mnemonics and element selectors
var identifier lex.Scanner[rune] = lex.SequenceNullableLast(letter, lex.Many(lex.Or(letter, digit)))

// lexing rules, tried in order
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit('['), LBRACKET),
	lex.Rule(lex.Unit(']'), RBRACKET),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(number, NUMBER),
	lex.Rule(register, REGISTER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
	lex.Rule(lex.Any[rune](), UNKNOWN),
}

// Lex a given text into a sequence of tokens, terminated by an END_OF token.
// Whitespace and comments are dropped.  Characters which cannot be matched
// are returned as UNKNOWN tokens, leaving the parser to report them.
func Lex(text []rune) []lex.Token {
	tokens := lex.NewLexer(text, rules...).Collect()
	//
	return slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT
	})
}
