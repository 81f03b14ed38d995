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
	"context"
	"fmt"
	"runtime"

	"github.com/CQCumbers/r64emu/pkg/rsp/machine"
	"github.com/CQCumbers/r64emu/pkg/rsp/memory"
	"github.com/CQCumbers/r64emu/pkg/rsp/vec"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultChunk is the default number of steps a machine executes between
// cancellation checks.
const DefaultChunk = 1024

// Output is a single value read back from memory after a scenario has executed.
type Output struct {
	Name    string
	Address uint32
	Value   vec.Register
}

// Result captures the outcome of executing a single scenario.
type Result struct {
	Scenario string
	Steps    uint
	Outputs  []Output
	// Registers holds the register contents once the scenario halted.
	Registers machine.Snapshot
}

// Output returns the output with the given name.
func (p *Result) Output(name string) (vec.Register, bool) {
	for _, o := range p.Outputs {
		if o.Name == name {
			return o.Value, true
		}
	}
	//
	return vec.Register{}, false
}

// Runner executes the scenarios of a fixture.  Each scenario executes on its
// own machine over its own memory, hence scenarios may execute in parallel.
type Runner struct {
	// Maximum number of scenarios executing at any one time.  Zero indicates
	// one per available CPU.
	Parallelism int
	// Number of steps executed between cancellation checks.
	Chunk uint
}

// NewRunner constructs a runner with the given parallelism.
func NewRunner(parallelism int) *Runner {
	return &Runner{parallelism, DefaultChunk}
}

// Run all scenarios of a given fixture, returning the results in the order the
// scenarios are declared.  The first fault aborts the run.
func (p *Runner) Run(ctx context.Context, fixture *Fixture) ([]Result, error) {
	return p.RunScenarios(ctx, fixture, fixture.Scenarios...)
}

// RunScenarios executes a subset of the scenarios of a given fixture, returning
// the results in the order given.
func (p *Runner) RunScenarios(ctx context.Context, fixture *Fixture, scenarios ...Scenario) ([]Result, error) {
	var (
		results  = make([]Result, len(scenarios))
		group, c = errgroup.WithContext(ctx)
		limit    = p.Parallelism
	)
	//
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	//
	group.SetLimit(limit)
	//
	for i, scenario := range scenarios {
		group.Go(func() error {
			result, err := p.Execute(c, fixture, scenario)
			results[i] = result
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	return results, nil
}

// Execute a single scenario of a given fixture on a freshly constructed
// machine.
func (p *Runner) Execute(ctx context.Context, fixture *Fixture, scenario Scenario) (Result, error) {
	var (
		dmem  = memory.NewScratch("dmem", fixture.MemorySize)
		chunk = p.Chunk
		steps uint
	)
	//
	if chunk == 0 {
		chunk = DefaultChunk
	}
	//
	m, err := machine.New(fixture.Instructions(), dmem)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	// Initialise input block and preloaded registers
	dmem.Write(fixture.InputBase, fixture.InputBytes(scenario))
	fixture.Preload(scenario,
		func(reg uint8, value vec.Register) { m.State().Vectors().Write(uint(reg), value) },
		func(reg uint8, value uint32) { m.State().Store(uint(reg), value) })
	//
	log.Debugf("executing scenario %s of %s", scenario.Name, fixture.Name)
	//
	for !m.State().Halted() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		//
		n, err := m.Execute(chunk)
		steps += n
		//
		if err != nil {
			return Result{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}
	//
	log.Debugf("scenario %s halted after %d steps", scenario.Name, steps)
	//
	return Result{scenario.Name, steps, readOutputs(fixture, dmem), m.State().Snapshot()}, nil
}

func readOutputs(fixture *Fixture, dmem memory.Memory) []Output {
	var outputs = make([]Output, len(fixture.Outputs))
	//
	for i, d := range fixture.Outputs {
		var value vec.Register
		//
		copy(value[:], dmem.Read(d.Address, vec.RegisterBytes))
		outputs[i] = Output{d.Name, d.Address, value}
	}
	//
	return outputs
}
