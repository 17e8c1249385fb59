// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure Go CPU backend: the implementation
// registries executor resolution selects from.
//
// Build the registry set once at startup and share it read-only:
//
//	regs := cpu.NewRegistries()
//	session := compile.NewSession(regs, nil, compile.DefaultOptions())
package cpu

import (
	internalcpu "github.com/loom-ml/loom/internal/backend/cpu"
)

// Registries bundles one implementation registry per operation kind.
// Entries within a registry are priority-ordered: first registered wins
// when several support a configuration.
type Registries = internalcpu.Registries

// NewRegistries builds the full CPU registry set.
func NewRegistries() *Registries { return internalcpu.NewRegistries() }
