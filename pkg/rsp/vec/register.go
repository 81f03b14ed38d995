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
package vec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RegisterBytes is the width (in bytes) of a vector register.
const RegisterBytes = 16

// NumLanes is the number of 16bit lanes in a vector register.
const NumLanes = 8

// Register represents a single 128bit vector register.  Bytes are held in big
// endian order, such that byte 0 is the most significant.  For element
// addressing, the register is viewed as a ring of 16 bytes so that any index is
// taken modulo 16.
type Register [RegisterBytes]byte

// Byte returns the ith byte of this register, where i is taken modulo the
// register width.
func (p *Register) Byte(i uint) byte {
	return p[i%RegisterBytes]
}

// SetByte assigns the ith byte of this register, where i is taken modulo the
// register width.
func (p *Register) SetByte(i uint, val byte) {
	p[i%RegisterBytes] = val
}

// Lane returns the ith (big endian) 16bit lane of this register.
func (p *Register) Lane(i uint) uint16 {
	if i >= NumLanes {
		panic(&Fault{fmt.Sprintf("lane %d out-of-bounds", i)})
	}
	//
	return uint16(p[2*i])<<8 | uint16(p[2*i+1])
}

// Rotated returns the view of this register which starts at a given element.
// That is, byte i of the result is byte (element+i) mod 16 of this register.
func (p Register) Rotated(element uint) Register {
	var r Register
	//
	for i := range uint(RegisterBytes) {
		r[i] = p.Byte(element + i)
	}
	//
	return r
}

// String returns the register as 16 space-separated hex bytes.
func (p Register) String() string {
	var builder strings.Builder
	//
	for i, b := range p {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(fmt.Sprintf("%02X", b))
	}
	//
	return builder.String()
}

// ParseRegister parses a register from a string of exactly 32 hex digits.
// Whitespace and an optional "0x" prefix are permitted, so both "80 81 .. 8F"
// and "0x8081..8F" are accepted.
func ParseRegister(text string) (Register, error) {
	var (
		reg    Register
		digits = strings.Join(strings.Fields(text), "")
	)
	//
	digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")
	//
	if len(digits) != 2*RegisterBytes {
		return reg, fmt.Errorf("vector register requires %d hex digits (found %d)", 2*RegisterBytes, len(digits))
	}
	//
	bytes, err := hex.DecodeString(digits)
	if err != nil {
		return reg, fmt.Errorf("invalid vector register \"%s\": %w", text, err)
	}
	//
	copy(reg[:], bytes)
	//
	return reg, nil
}

// RegisterFromWords constructs a register from four 32bit words, the first of
// which is most significant.
func RegisterFromWords(words ...uint32) Register {
	var reg Register
	//
	if len(words) != RegisterBytes/4 {
		panic(&Fault{fmt.Sprintf("vector register requires %d words (found %d)", RegisterBytes/4, len(words))})
	}
	//
	for i, w := range words {
		reg[4*i] = byte(w >> 24)
		reg[4*i+1] = byte(w >> 16)
		reg[4*i+2] = byte(w >> 8)
		reg[4*i+3] = byte(w)
	}
	//
	return reg
}
