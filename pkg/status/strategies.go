package status

import (
	"github.com/qiuchen001/kubeflow-ground/pkg/util/maps"
)

const manifestKey = "workflow_manifest"

var (
	walkNameKeys   = []string{"displayName", "name", "taskName"}
	walkStatusKeys = []string{"state", "status", "phase"}
	listingFields  = []string{"task_runs", "tasks", "nodes", "task_details"}
)

// fromManifest reads the task phases of a serialized workflow manifest.
func fromManifest(payload interface{}) (map[string]string, bool) {
	manifest, ok := findManifest(payload)
	if !ok {
		return nil, false
	}
	nodes, ok := maps.Get(manifest, "status.nodes").(map[string]interface{})
	if !ok {
		return nil, false
	}
	tasks := make(map[string]string)
	for key, n := range nodes {
		node, ok := n.(map[string]interface{})
		if !ok {
			continue
		}
		phase, ok := scalar(node["phase"])
		if !ok {
			continue
		}
		name, ok := maps.GetString(node, "displayName")
		if !ok {
			name = key
		}
		tasks[name] = phase
	}
	return tasks, len(tasks) > 0
}

// findManifest looks for pipeline_runtime.workflow_manifest, then for a workflow_manifest key anywhere.
func findManifest(payload interface{}) (map[string]interface{}, bool) {
	if v := maps.Get(payload, "pipeline_runtime."+manifestKey); v != nil {
		if m, ok := decodeManifest(v); ok {
			return m, true
		}
	}
	var res map[string]interface{}
	walk(payload, func(m map[string]interface{}) bool {
		v, exists := m[manifestKey]
		if !exists {
			return true
		}
		if decoded, ok := decodeManifest(v); ok {
			res = decoded
			return false
		}
		return true
	})
	return res, res != nil
}

func decodeManifest(v interface{}) (map[string]interface{}, bool) {
	g, ok := toGeneric(v)
	if !ok {
		return nil, false
	}
	m, ok := g.(map[string]interface{})
	return m, ok
}

// fromWalk collects every object holding both a name-like and a status-like key.
func fromWalk(payload interface{}) (map[string]string, bool) {
	tasks := make(map[string]string)
	walk(payload, func(m map[string]interface{}) bool {
		name, ok := firstScalar(m, walkNameKeys...)
		if !ok {
			return true
		}
		if st, ok := firstScalar(m, walkStatusKeys...); ok {
			tasks[name] = st
		}
		return true
	})
	return tasks, len(tasks) > 0
}

// walk visits every map depth first, in sorted key order. Visiting stops when fn returns false.
func walk(v interface{}, fn func(map[string]interface{}) bool) bool {
	switch t := v.(type) {
	case map[string]interface{}:
		if !fn(t) {
			return false
		}
		for _, k := range sortedKeys(t) {
			if !walk(t[k], fn) {
				return false
			}
		}
	case []interface{}:
		for _, e := range t {
			if !walk(e, fn) {
				return false
			}
		}
	}
	return true
}

// listingEntry is one element of a flattened task listing.
type listingEntry struct {
	DisplayName string `mapstructure:"display_name"`
	TaskName    string `mapstructure:"task_name"`
	Name        string `mapstructure:"name"`
	State       string `mapstructure:"state"`
	Status      string `mapstructure:"status"`
	Phase       string `mapstructure:"phase"`
}

func (e listingEntry) name() string {
	return firstNonEmpty(e.DisplayName, e.TaskName, e.Name)
}

func (e listingEntry) phase() string {
	return firstNonEmpty(e.State, e.Status, e.Phase)
}

// fromListing maps the entries of the flattened listing fields, at the root or under run_details.
func fromListing(payload interface{}) (map[string]string, bool) {
	tasks := make(map[string]string)
	for _, root := range []interface{}{payload, maps.Get(payload, "run_details")} {
		m, ok := root.(map[string]interface{})
		if !ok {
			continue
		}
		for _, f := range listingFields {
			entries, ok := m[f].([]interface{})
			if !ok {
				continue
			}
			for _, raw := range entries {
				var e listingEntry
				if err := maps.WeakDecode(raw, &e); err != nil {
					continue
				}
				if name, phase := e.name(), e.phase(); name != "" && phase != "" {
					tasks[name] = phase
				}
			}
		}
	}
	return tasks, len(tasks) > 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
