package compiler

import (
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/pkg/errors"
)

// Outcome is the result of a best-effort operation.
type Outcome struct {
	Applied bool
	// Reason explains why the operation was skipped. Empty when the value was simply absent.
	Reason string
}

func applied() Outcome {
	return Outcome{Applied: true}
}

func skipped(reason string) Outcome {
	return Outcome{Reason: reason}
}

// effectiveResources returns the component defaults overridden field by field by the node.
// An override that is absent or empty keeps the default.
func effectiveResources(defaults api.ResourceSpec, overrides map[string]string) api.ResourceSpec {
	res := defaults
	for _, f := range api.ResourceFields {
		if v := overrides[f]; v != "" {
			res.Set(f, v)
		}
	}
	return res
}

// applyResource sets one resource field on the given requirements.
// Empty values are skipped silently, invalid quantities are skipped with a reason.
func applyResource(req *corev1.ResourceRequirements, field string, spec api.ResourceSpec) Outcome {
	value := spec.Get(field)
	if value == "" {
		return skipped("")
	}
	q, err := resource.ParseQuantity(value)
	if err != nil {
		return skipped(errors.Wrapf(err, "invalid quantity %q for %s", value, field).Error())
	}

	switch field {
	case api.ResourceCPURequest:
		setQuantity(&req.Requests, corev1.ResourceCPU, q)
	case api.ResourceCPULimit:
		setQuantity(&req.Limits, corev1.ResourceCPU, q)
	case api.ResourceMemoryRequest:
		setQuantity(&req.Requests, corev1.ResourceMemory, q)
	case api.ResourceMemoryLimit:
		setQuantity(&req.Limits, corev1.ResourceMemory, q)
	case api.ResourceGPULimit:
		name := spec.GPUType
		if name == "" {
			name = DefaultGPUResource
		}
		if errs := validation.IsQualifiedName(name); len(errs) > 0 {
			return skipped(errors.Errorf("invalid gpu resource name %q: %v", name, errs).Error())
		}
		setQuantity(&req.Limits, corev1.ResourceName(name), q)
	default:
		return skipped(errors.Errorf("unknown resource field %s", field).Error())
	}
	return applied()
}

func setQuantity(list *corev1.ResourceList, name corev1.ResourceName, q resource.Quantity) {
	if *list == nil {
		*list = corev1.ResourceList{}
	}
	(*list)[name] = q
}
