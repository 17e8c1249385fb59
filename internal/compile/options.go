// Package compile runs the execution-preparation pipeline over a graph:
// lowering passes first, then per-node executor resolution against the
// backend registries, producing an executable plan.
package compile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loom-ml/loom/internal/parallel"
)

// Options controls a compile session.
type Options struct {
	// MaxSweeps bounds rewrite driver iteration; <= 0 selects the
	// driver default.
	MaxSweeps int `yaml:"max_sweeps"`
	// ImplementationPriority restricts resolution to the named
	// implementation across all nodes. Empty means no restriction.
	ImplementationPriority string `yaml:"implementation_priority"`
	// Workers sets the worker count for parallel per-node resolution
	// and for kernels; <= 0 selects the host default.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns the zero restriction, host-default configuration.
func DefaultOptions() Options {
	return Options{}
}

// LoadOptions reads Options from a YAML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options %s: %w", path, err)
	}
	return opts, nil
}

// parallelConfig derives the worker configuration for this session.
func (o Options) parallelConfig() parallel.Config {
	cfg := parallel.DefaultConfig()
	if o.Workers > 0 {
		cfg.NumWorkers = o.Workers
		cfg.Enabled = o.Workers > 1
	}
	return cfg
}
