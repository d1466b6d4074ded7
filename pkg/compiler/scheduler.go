package compiler

import (
	"strings"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"k8s.io/apimachinery/pkg/util/validation"
)

// attachSchedulerAnnotations adds the scheduling group and scheduler name annotations to the task.
// Both annotations are attached or none: on failure the task keeps the default scheduler.
// Annotation values are free form, so the group is attached whatever the pipeline id.
func attachSchedulerAnnotations(task *Task, pipelineID string, conf Config) Outcome {
	group := conf.SchedulingGroupPrefix + pipelineID
	if conf.SchedulerName == "" {
		return skipped("no scheduler name")
	}
	annotations := map[string]string{
		api.AnnotationSchedulingGroup: group,
		api.AnnotationSchedulerName:   conf.SchedulerName,
	}
	for k := range annotations {
		if errs := validation.IsQualifiedName(k); len(errs) > 0 {
			return skipped("invalid annotation key " + k + ": " + strings.Join(errs, "; "))
		}
	}

	if task.Annotations == nil {
		task.Annotations = make(map[string]string)
	}
	for k, v := range annotations {
		task.Annotations[k] = v
	}
	return applied()
}
