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
	"testing"
)

func Test_Register_01(t *testing.T) {
	reg := RegisterFromWords(0x80818283, 0x84858687, 0x88898AAB, 0x8C8D8E8F)
	//
	checkLane(t, reg, 0, 0x8081)
	checkLane(t, reg, 5, 0x8AAB)
	checkLane(t, reg, 7, 0x8E8F)
}

func Test_Register_02(t *testing.T) {
	reg := RegisterFromWords(0x00001001, 0x20023003, 0x40045005, 0x60067007)
	//
	for i := range uint(NumLanes) {
		checkLane(t, reg, i, uint16(0x1000*i+i))
	}
}

func Test_Register_03(t *testing.T) {
	reg := RegisterFromWords(0xF0F1F2F3, 0xF4F5F6F7, 0xF8F9FAAB, 0xFCFDFEFF)
	// Rotation by 15 places the last byte first
	checkString(t, reg.Rotated(15), "FF F0 F1 F2 F3 F4 F5 F6 F7 F8 F9 FA AB FC FD FE")
	// Rotation by 0 is the identity
	checkString(t, reg.Rotated(0), "F0 F1 F2 F3 F4 F5 F6 F7 F8 F9 FA AB FC FD FE FF")
	// Rotation is taken modulo the register width
	checkString(t, reg.Rotated(16+4), reg.Rotated(4).String())
}

func Test_Register_04(t *testing.T) {
	for e := range uint(RegisterBytes) {
		var reg Register
		//
		for i := range reg {
			reg[i] = byte(i)
		}
		//
		rotated := reg.Rotated(e)
		//
		for i := range uint(RegisterBytes) {
			if rotated[i] != byte((e+i)%RegisterBytes) {
				t.Errorf("rotation by %d incorrect at byte %d (was %02x)", e, i, rotated[i])
			}
		}
	}
}

func Test_ParseRegister_01(t *testing.T) {
	reg, err := ParseRegister("80 81 82 83 84 85 86 87 88 89 8A AB 8C 8D 8E 8F")
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkString(t, reg, "80 81 82 83 84 85 86 87 88 89 8A AB 8C 8D 8E 8F")
}

func Test_ParseRegister_02(t *testing.T) {
	reg, err := ParseRegister("0x808182838485868788898aab8c8d8e8f")
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	if reg != RegisterFromWords(0x80818283, 0x84858687, 0x88898AAB, 0x8C8D8E8F) {
		t.Errorf("unexpected register %s", reg)
	}
}

func Test_ParseRegister_03(t *testing.T) {
	for _, text := range []string{"", "80 81", "zz818283848586878889 8AAB8C8D8E8F", "808182838485868788898AAB8C8D8E8F00"} {
		if _, err := ParseRegister(text); err == nil {
			t.Errorf("register \"%s\" should not parse", text)
		}
	}
}

func Test_RegisterFile_01(t *testing.T) {
	var (
		file = NewRegisterFile()
		reg  = RegisterFromWords(1, 2, 3, 4)
	)
	//
	file.Write(3, reg)
	// Read returns a copy
	val := file.Read(3)
	val[0] = 0xFF
	//
	if file.Read(3) != reg || val == reg {
		t.Errorf("register file aliased a read")
	}
	//
	if file.Read(4) != (Register{}) {
		t.Errorf("register $v4 should be zero")
	}
}

func Test_RegisterFile_02(t *testing.T) {
	checkFault(t, func() { NewRegisterFile().Read(NumRegisters) })
	checkFault(t, func() { NewRegisterFile().Write(NumRegisters+1, Register{}) })
	checkFault(t, func() { var r Register; r.Lane(NumLanes) })
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkLane(t *testing.T, reg Register, lane uint, expected uint16) {
	if actual := reg.Lane(lane); actual != expected {
		t.Errorf("lane %d of %s is %04x (expected %04x)", lane, reg, actual, expected)
	}
}

func checkString(t *testing.T, reg Register, expected string) {
	if actual := reg.String(); actual != expected {
		t.Errorf("expected %s, found %s", expected, actual)
	}
}

func checkFault(t *testing.T, fn func()) {
	defer func() {
		if _, ok := recover().(*Fault); !ok {
			t.Errorf("expected configuration fault")
		}
	}()
	//
	fn()
}
