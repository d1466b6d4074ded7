package common

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

const (
	progressBarWidth       = 20
	progressBarChar        = "■"
	progressBarPlaceholder = "·"
)

var (
	phaseIconMap map[string]string
)

func init() {
	phaseIconMap = map[string]string{
		"pending":   "◷",
		"running":   "●",
		"canceled":  "ǁ",
		"cancelled": "ǁ",
		"succeeded": "✔",
		"completed": "✔",
		"failed":    "✖",
		"error":     "✖",
		"skipped":   "○",
		"omitted":   "○",
	}
}

// icon returns the icon of a phase, whatever its casing.
func icon(p api.Phase) string {
	if i, ok := phaseIconMap[strings.ToLower(string(p))]; ok {
		return i
	}
	return "?"
}

// PrintOptions defines print options
type PrintOptions struct {
	// Tasks also prints the platform tasks under each node.
	Tasks bool
}

// PrintRun prints the pipeline and the state of its run in the given writer
func PrintRun(w io.Writer, p api.Pipeline, state api.RunState, opts PrintOptions) {
	fmt.Fprintln(w)

	// Header
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "PipelineID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "RunID:\t%s\n", state.RunID)
	fmt.Fprintf(tw, "Status:\t%s\n", state.Phase)
	fmt.Fprintf(tw, "Created:\t%s\n", date(state.CreatedAt))
	fmt.Fprintf(tw, "Finished:\t%s\n", date(state.FinishedAt))
	fmt.Fprintf(tw, "Duration:\t%s\n", duration(state.CreatedAt, state.FinishedAt))
	tw.Flush()
	fmt.Fprintln(w)

	byNode := make(map[string][]api.TaskState)
	var orphans []api.TaskState
	for _, t := range state.Tasks {
		if t.NodeID == "" {
			orphans = append(orphans, t)
			continue
		}
		byNode[t.NodeID] = append(byNode[t.NodeID], t)
	}

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSTATUS\tPROGRESSION")
	fmt.Fprintf(tw, "%s %s\t%s\t%s\n", icon(state.Phase), p.Name, state.Phase, nodeProgression(p.Nodes, byNode))

	for i, n := range p.Nodes {
		prefix := "├"
		if i == len(p.Nodes)-1 && (len(orphans) == 0 || !opts.Tasks) {
			prefix = "└"
		}
		printNode(tw, n, byNode[n.ID], prefix, opts)
	}
	if opts.Tasks {
		for i, t := range orphans {
			prefix := "├"
			if i == len(orphans)-1 {
				prefix = "└"
			}
			fmt.Fprintf(tw, "%s %s %s\t%s\t\n", prefix, icon(t.Phase), t.Name, t.Phase)
		}
	}
	tw.Flush()
}

func printNode(w io.Writer, n api.PipelineNode, tasks []api.TaskState, prefix string, opts PrintOptions) {
	name := n.ID
	if n.Label != "" {
		name = n.Label
	}
	phase := nodePhase(tasks)
	marker := progressBarPlaceholder
	if phase != "" {
		marker = icon(phase)
	}
	fmt.Fprintf(w, "%s %s %s\t%s\t%s\n", prefix, marker, name, phase, taskProgression(tasks))
	if !opts.Tasks {
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "│   %s %s\t%s\t\n", icon(t.Phase), t.Name, t.Phase)
	}
}

// nodePhase returns the phase of a node from the phases of its tasks:
// a failure first, then any unfinished task, then the first task.
func nodePhase(tasks []api.TaskState) api.Phase {
	if len(tasks) == 0 {
		return ""
	}
	for _, t := range tasks {
		if t.Phase.Is(api.PhaseFailed) || t.Phase.Is(api.PhaseError) {
			return t.Phase
		}
	}
	for _, t := range tasks {
		if !t.Phase.Finished() {
			return t.Phase
		}
	}
	return tasks[0].Phase
}

// taskProgression returns a string to be printed for the progression of the tasks of a node
func taskProgression(tasks []api.TaskState) string {
	total := len(tasks)
	switch total {
	case 0:
		return ""
	case 1:
		if tasks[0].Phase.Finished() {
			return "1/1"
		}
		return "0/1"
	default:
		finished := 0
		for _, t := range tasks {
			if t.Phase.Finished() {
				finished++
			}
		}
		if finished == total {
			return fmt.Sprintf("%d/%d", finished, total)
		}
		return fmt.Sprintf("%s %d/%d", progressBar(finished, total), finished, total)
	}
}

// nodeProgression returns the progression of the whole run, counting nodes whose phase is final.
func nodeProgression(nodes []api.PipelineNode, byNode map[string][]api.TaskState) string {
	total := len(nodes)
	if total == 0 {
		return ""
	}
	finished := 0
	for _, n := range nodes {
		if p := nodePhase(byNode[n.ID]); p != "" && p.Finished() {
			finished++
		}
	}
	return fmt.Sprintf("%s %d/%d", progressBar(finished, total), finished, total)
}

func progressBar(current, total int) string {
	value := (current * progressBarWidth) / total
	buf := bytes.NewBuffer(make([]byte, 0, progressBarWidth))
	for i := 0; i < progressBarWidth; i++ {
		if i < value {
			buf.WriteString(progressBarChar)
		} else {
			buf.WriteString(progressBarPlaceholder)
		}
	}
	return buf.String()
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2 Jan 2006 15:04:05.000")
}

func duration(start, end *time.Time) string {
	var d time.Duration
	if start == nil {
		return ""
	}
	if end == nil {
		d = time.Since(*start)
	} else {
		d = end.Sub(*start)
	}

	// Print
	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.0fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	} else {
		h := int64(d.Hours())
		m := int64(math.Mod(d.Minutes(), 60))
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
	}
}
