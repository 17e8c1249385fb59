// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package compile provides the public API for running Loom's execution
// preparation: lowering passes followed by per-node executor resolution.
//
// Example:
//
//	regs := compile.NewCPURegistries()
//	session := compile.NewSession(regs, nil, compile.DefaultOptions())
//	plan, err := session.Compile(g)
package compile

import (
	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/compile"
	"github.com/loom-ml/loom/internal/rewrite"
)

// Session drives execution preparation for one graph.
type Session = compile.Session

// Options controls a compile session.
type Options = compile.Options

// Plan is a compiled execution plan.
type Plan = compile.Plan

// PlanEntry describes one resolved node for diagnostics.
type PlanEntry = compile.PlanEntry

// Registries bundles the backend implementation registries.
type Registries = cpu.Registries

// Veto lets the caller forbid individual rewrite instances.
type Veto = rewrite.Veto

// NewCPURegistries builds the CPU backend registry set. Build it once at
// startup and share it read-only across sessions.
func NewCPURegistries() *Registries { return cpu.NewRegistries() }

// NewSession creates a compile session over the given registries.
func NewSession(registries *Registries, veto Veto, opts Options) *Session {
	return compile.NewSession(registries, veto, opts)
}

// DefaultOptions returns the zero restriction, host-default configuration.
func DefaultOptions() Options { return compile.DefaultOptions() }

// LoadOptions reads Options from a YAML file.
func LoadOptions(path string) (Options, error) { return compile.LoadOptions(path) }
