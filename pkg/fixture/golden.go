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
package fixture

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Golden records the expected outputs of each scenario, keyed first by scenario
// name and then by output name.  Values are recorded as space-separated hex
// bytes.
type Golden map[string]map[string]string

// Mismatch describes an output whose actual value differs from that expected.
type Mismatch struct {
	Scenario string
	Output   string
	Expected string
	Actual   string
}

func (p Mismatch) String() string {
	return fmt.Sprintf("%s.%s: expected %s, got %s", p.Scenario, p.Output, p.Expected, p.Actual)
}

// NewGolden constructs a golden record from a set of results.
func NewGolden(results []Result) Golden {
	var golden = make(Golden)
	//
	for _, r := range results {
		outputs := make(map[string]string)
		//
		for _, o := range r.Outputs {
			outputs[o.Name] = o.Value.String()
		}
		//
		golden[r.Scenario] = outputs
	}
	//
	return golden
}

// LoadGolden reads a golden record from a given (YAML) file.
func LoadGolden(fs afero.Fs, filename string) (Golden, error) {
	var golden Golden
	//
	bytes, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	} else if err = yaml.Unmarshal(bytes, &golden); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	// Sanity check values
	for scenario, outputs := range golden {
		for name, value := range outputs {
			if _, err := vec.ParseRegister(value); err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", filename, scenario, name, err)
			}
		}
	}
	//
	return golden, nil
}

// WriteGolden writes a golden record to a given (YAML) file.  Keys are written
// in sorted order, hence the file is deterministic.
func WriteGolden(fs afero.Fs, filename string, golden Golden) error {
	bytes, err := yaml.Marshal(golden)
	if err != nil {
		return err
	}
	//
	return afero.WriteFile(fs, filename, bytes, 0644)
}

// Compare a set of results against a golden record, returning any mismatches
// in a deterministic order.  Outputs missing from the golden record are
// reported as mismatches.
func (p Golden) Compare(results []Result) []Mismatch {
	var mismatches []Mismatch
	//
	for _, r := range results {
		for _, o := range r.Outputs {
			var actual = o.Value.String()
			//
			expected, ok := p[r.Scenario][o.Name]
			if !ok {
				mismatches = append(mismatches, Mismatch{r.Scenario, o.Name, "<missing>", actual})
			} else if !sameValue(expected, o.Value) {
				mismatches = append(mismatches, Mismatch{r.Scenario, o.Name, expected, actual})
			}
		}
	}
	//
	return mismatches
}

// Diff compares two sets of results, such as those from the machine and those
// from the reference model.
func Diff(expected []Result, actual []Result) []Mismatch {
	var golden = NewGolden(expected)
	//
	mismatches := golden.Compare(actual)
	//
	slices.SortStableFunc(mismatches, func(l, r Mismatch) int {
		if c := cmp.Compare(l.Scenario, r.Scenario); c != 0 {
			return c
		}
		//
		return cmp.Compare(l.Output, r.Output)
	})
	//
	return mismatches
}

func sameValue(expected string, actual vec.Register) bool {
	reg, err := vec.ParseRegister(expected)
	//
	return err == nil && reg == actual
}
