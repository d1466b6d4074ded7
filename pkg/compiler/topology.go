package compiler

import (
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// topologicalOrder sorts the pipeline nodes with Kahn's algorithm, data and ordering edges combined.
// Zero in-degree nodes are taken in declaration order and discovered nodes are queued in edge order,
// so the result is stable for a given pipeline.
// Edges referring to unknown nodes are ignored. Duplicated node ids are counted once.
func topologicalOrder(p api.Pipeline) ([]string, error) {
	var ids []string
	inDegree := make(map[string]int, len(p.Nodes))
	dependents := make(map[string][]string, len(p.Nodes)) // source -> [target...]
	for _, n := range p.Nodes {
		if _, exists := inDegree[n.ID]; exists {
			continue
		}
		ids = append(ids, n.ID)
		inDegree[n.ID] = 0
	}

	for _, e := range p.Edges {
		_, knownSource := inDegree[e.Source]
		_, knownTarget := inDegree[e.Target]
		if !knownSource || !knownTarget {
			continue
		}
		dependents[e.Source] = append(dependents[e.Source], e.Target)
		inDegree[e.Target]++
	}

	var queue []string
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(ids))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		sorted = append(sorted, u)
		for _, v := range dependents[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(sorted) != len(ids) {
		var remaining []string
		for _, id := range ids {
			if inDegree[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, &CyclicGraphError{
			Sorted:    len(sorted),
			Total:     len(ids),
			Remaining: remaining,
		}
	}
	return sorted, nil
}
