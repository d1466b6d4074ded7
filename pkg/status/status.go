package status

import (
	gocontext "context"
	"sort"
	"strings"
	"time"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/platform"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/maps"
)

// StrategyName names the way task statuses were extracted.
type StrategyName string

const (
	// StrategyNone no strategy found any status.
	StrategyNone StrategyName = ""
	// StrategyManifest statuses read from the workflow manifest.
	StrategyManifest StrategyName = "manifest"
	// StrategyWalk statuses found by walking the payload.
	StrategyWalk StrategyName = "walk"
	// StrategyListing statuses read from the flattened listing fields.
	StrategyListing StrategyName = "listing"
	// StrategyREST statuses fetched from the task listing endpoint.
	StrategyREST StrategyName = "rest"
)

// DefaultStrategies is the order in which strategies are tried.
var DefaultStrategies = []StrategyName{StrategyManifest, StrategyWalk, StrategyListing, StrategyREST}

// TaskLister fetches the task listing of a run.
type TaskLister interface {
	ListTaskRuns(ctx gocontext.Context, runID string) (interface{}, error)
}

// Result is a normalized run status.
type Result struct {
	Source StrategyName      `json:"source,omitempty"`
	Tasks  map[string]string `json:"tasks"`
	Phase  string            `json:"phase,omitempty"`
}

// Found returns true if at least one task status was found.
func (r Result) Found() bool {
	return len(r.Tasks) > 0
}

// State converts the result into a run state. Tasks are sorted by name and mapped to the given node ids.
func (r Result) State(runID string, nodeIDs []string) api.RunState {
	s := api.RunState{RunID: runID, Phase: api.Phase(r.Phase)}
	if s.Phase == "" {
		s.Phase = api.PhaseUnknown
	}
	nodes := MatchNodes(r.Tasks, nodeIDs)
	names := make([]string, 0, len(r.Tasks))
	for n := range r.Tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		s.Tasks = append(s.Tasks, api.TaskState{Name: n, NodeID: nodes[n], Phase: api.Phase(r.Tasks[n])})
	}
	return s
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStrategies sets the strategies to try, in order.
func WithStrategies(names ...StrategyName) Option {
	return func(n *Normalizer) {
		n.strategies = names
	}
}

// Normalizer extracts task statuses from run payloads of any shape.
// It holds no state between calls and can be shared.
type Normalizer struct {
	lister     TaskLister
	strategies []StrategyName
}

// New returns a Normalizer. lister may be nil, in which case the rest strategy never matches.
func New(lister TaskLister, opts ...Option) *Normalizer {
	n := &Normalizer{
		lister:     lister,
		strategies: DefaultStrategies,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the task statuses of the run from the first strategy finding any.
// When none does, an empty result is returned without error.
// The only error is a transport failure of the task listing endpoint.
func (n *Normalizer) Normalize(gctx gocontext.Context, runID string, payload interface{}) (Result, error) {
	ctx := context.WithRunID(context.FromContext(gctx), runID)
	generic, _ := toGeneric(payload)
	res := Result{Tasks: map[string]string{}, Phase: string(RunPhase(generic))}

	for _, s := range n.strategies {
		var tasks map[string]string
		var found bool
		switch s {
		case StrategyManifest:
			tasks, found = fromManifest(generic)
		case StrategyWalk:
			tasks, found = fromWalk(generic)
		case StrategyListing:
			tasks, found = fromListing(generic)
		case StrategyREST:
			var err error
			tasks, found, err = n.fromREST(ctx, runID)
			if err != nil {
				return Result{Tasks: map[string]string{}}, err
			}
		}
		if found {
			ctx.Logger().Debugf("Found %d task statuses with strategy %s", len(tasks), s)
			res.Source = s
			res.Tasks = tasks
			return res, nil
		}
	}
	ctx.Logger().Debug("No task status found")
	return res, nil
}

func (n *Normalizer) fromREST(ctx context.Context, runID string) (map[string]string, bool, error) {
	if n.lister == nil || runID == "" {
		return nil, false, nil
	}
	listing, err := n.lister.ListTaskRuns(ctx, runID)
	if err != nil {
		if platform.IsNotFound(err) {
			return nil, false, nil
		}
		if platform.IsTransport(err) {
			return nil, false, err
		}
		ctx.Logger().WithError(err).Warn("Cannot list task runs")
		return nil, false, nil
	}
	generic, ok := toGeneric(listing)
	if !ok {
		return nil, false, nil
	}
	if tasks, found := fromListing(generic); found {
		return tasks, true, nil
	}
	tasks, found := fromWalk(generic)
	return tasks, found, nil
}

// RunPhase returns the phase of the whole run: state, status or phase at the root,
// under run, or the phase of the workflow manifest.
func RunPhase(payload interface{}) api.Phase {
	generic, ok := toGeneric(payload)
	if !ok {
		return api.PhaseUnknown
	}
	for _, k := range []string{"state", "status", "phase", "run.state", "run.status", "run.phase"} {
		if s, ok := scalar(maps.Get(generic, k)); ok {
			return api.Phase(s)
		}
	}
	if manifest, ok := findManifest(generic); ok {
		if s, ok := scalar(maps.Get(manifest, "status.phase")); ok {
			return api.Phase(s)
		}
	}
	return api.PhaseUnknown
}

// RunTimes returns the creation and completion times of the run, at the root or under run.
// A completion time at the epoch means the run is not finished.
func RunTimes(payload interface{}) (created, finished *time.Time) {
	generic, ok := toGeneric(payload)
	if !ok {
		return nil, nil
	}
	parse := func(keys ...string) *time.Time {
		for _, k := range keys {
			s, ok := maps.GetString(generic, k)
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil || t.Unix() <= 0 {
				continue
			}
			return &t
		}
		return nil
	}
	return parse("created_at", "run.created_at"), parse("finished_at", "run.finished_at")
}

// MatchNodes maps task names to node ids. A task matches a node when its name is the node id,
// or when it starts with the node id followed by a dash (the longest such node id wins).
// Unmatched tasks are left out.
func MatchNodes(tasks map[string]string, nodeIDs []string) map[string]string {
	res := make(map[string]string)
	for name := range tasks {
		best := ""
		for _, id := range nodeIDs {
			if id == "" {
				continue
			}
			if name == id {
				best = id
				break
			}
			if strings.HasPrefix(name, id+"-") && len(id) > len(best) {
				best = id
			}
		}
		if best != "" {
			res[name] = best
		}
	}
	return res
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
