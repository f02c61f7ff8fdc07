package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vk/mfnet/internal/builder"
	"github.com/vk/mfnet/internal/optimize"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// writeSummary prints the pipeline report followed by one row per pass run.
func writeSummary(w io.Writer, report *optimize.Report) error {
	state := "converged"
	if !report.Converged {
		state = "iteration limit reached"
	}
	fmt.Fprintf(w, "optimized in %d iteration(s), %s\n", report.Iterations, state)
	fmt.Fprintf(w, "nodes: %d -> %d\n", report.NodesBefore, report.NodesAfter)
	fmt.Fprintf(w, "links: %d -> %d\n", report.LinksBefore, report.LinksAfter)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITERATION\tPASS\tCHANGES\tDURATION")
	for _, p := range report.Passes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.Iteration, p.Pass, p.Changes, p.Duration)
	}
	return tw.Flush()
}

// writeValues prints every network output as `name = json`.
func writeValues(w io.Writer, built *builder.Result, values []cty.Value) error {
	for i, node := range built.Outputs {
		text, err := formatValue(values[i])
		if err != nil {
			return fmt.Errorf("output %s: %w", node.Name(), err)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", node.Name(), text); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v cty.Value) (string, error) {
	buf, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
