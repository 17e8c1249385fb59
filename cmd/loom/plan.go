package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loom-ml/loom/compile"
	"github.com/loom-ml/loom/graph"
	"github.com/loom-ml/loom/tensor"
)

var (
	planConfigFile string
	planPriority   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Lower and resolve a demo graph, printing the chosen executors",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planConfigFile, "config", "c", "",
		"YAML file with compile options")
	planCmd.Flags().StringVar(&planPriority, "priority", "",
		"restrict resolution to the named implementation")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	opts := compile.DefaultOptions()
	if planConfigFile != "" {
		loaded, err := compile.LoadOptions(planConfigFile)
		if err != nil {
			return err
		}
		opts = loaded
	}
	if planPriority != "" {
		opts.ImplementationPriority = planPriority
	}

	g, err := demoGraph()
	if err != nil {
		return err
	}

	session := compile.NewSession(compile.NewCPURegistries(), nil, opts)
	plan, err := session.Compile(g)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "session %s\n", plan.SessionID())
	for _, e := range plan.Entries() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %-14s -> %s\n", e.Name, e.Op, e.Executor)
	}
	return nil
}

// demoGraph builds a small classifier head: MatMul, Softmax v13 and a
// TopK v11 that the lowering passes downgrade before resolution.
func demoGraph() (*graph.Graph, error) {
	g := graph.New()

	f32 := func(shape tensor.Shape, format graph.Format) graph.Desc {
		return graph.Desc{Type: tensor.Float32, Shape: shape, Format: format}
	}

	in := g.AddInput(f32(tensor.Shape{4, 64}, graph.FormatPlain))
	wei := g.AddInput(f32(tensor.Shape{64, 128}, graph.FormatPlain))

	mm, err := g.AddNode(graph.NodeSpec{
		Kind:     graph.KindMatMul,
		Version:  graph.MatMulV1,
		Name:     "logits",
		Attrs:    graph.Attributes{},
		Inputs:   []graph.ValueID{in, wei},
		OutDescs: []graph.Desc{f32(tensor.Shape{4, 128}, graph.FormatPlain)},
	})
	if err != nil {
		return nil, err
	}

	sm, err := g.AddNode(graph.NodeSpec{
		Kind:     graph.KindSoftmax,
		Version:  graph.SoftmaxV13,
		Name:     "probs",
		Attrs:    graph.Attributes{graph.AttrAxis: int64(1)},
		Inputs:   []graph.ValueID{g.Node(mm).Outputs()[0]},
		OutDescs: []graph.Desc{f32(tensor.Shape{4, 128}, graph.FormatPlain)},
	})
	if err != nil {
		return nil, err
	}

	_, err = g.AddNode(graph.NodeSpec{
		Kind:    graph.KindTopK,
		Version: graph.TopKV11,
		Name:    "top5",
		Attrs: graph.Attributes{
			graph.AttrAxis:   int64(1),
			graph.AttrK:      int64(5),
			graph.AttrStable: false,
		},
		Inputs: []graph.ValueID{g.Node(sm).Outputs()[0]},
		OutDescs: []graph.Desc{
			f32(tensor.Shape{4, 5}, graph.FormatPlain),
			{Type: tensor.Int64, Shape: tensor.Shape{4, 5}, Format: graph.FormatPlain},
		},
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}
