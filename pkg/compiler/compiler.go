package compiler

import (
	gocontext "context"
	"sort"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
	corev1 "k8s.io/api/core/v1"
)

// Compiler turns pipeline graphs into Documents.
// A Compiler holds no state between calls and can be shared.
type Compiler struct {
	conf Config
}

// New returns a Compiler configured with the given options.
func New(opts ...Option) *Compiler {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}
	return &Compiler{conf: conf}
}

// Config returns the effective configuration.
func (c *Compiler) Config() Config {
	return c.conf
}

// Compile compiles the pipeline into a Document whose tasks are in topological order.
// It fails with UnresolvedComponentError or CyclicGraphError, in which case no document is produced.
// Non fatal events are reported as Document.Diagnostics.
func (c *Compiler) Compile(gctx gocontext.Context, p api.Pipeline, catalog Catalog) (*Document, error) {
	ctx := context.WithPipelineID(context.FromContext(gctx), p.ID)

	components, err := resolveComponents(p, catalog)
	if err != nil {
		return nil, err
	}
	order, err := topologicalOrder(p)
	if err != nil {
		return nil, err
	}

	b := &builder{
		conf:      c.conf,
		pipeline:  p,
		instances: make(map[string]*instance, len(order)),
		incoming:  make(map[string][]api.PipelineEdge, len(order)),
	}
	for _, e := range p.Edges {
		b.incoming[e.Target] = append(b.incoming[e.Target], e)
	}

	doc := &Document{
		APIVersion: DocumentAPIVersion,
		Kind:       DocumentKind,
		Metadata: Metadata{
			Name:        p.Name,
			PipelineID:  p.ID,
			Description: p.Description,
		},
	}
	for _, id := range order {
		node, _ := p.Node(id)
		task := b.task(node, components[node.ComponentID])
		doc.Spec.Tasks = append(doc.Spec.Tasks, task)
	}
	doc.Diagnostics = b.diagnostics

	for _, d := range doc.Diagnostics {
		l := context.WithNodeID(ctx, d.Task).Logger().WithField("kind", d.Kind)
		if d.Kind == PlaceholderLiteral {
			l.Debug(d.Message)
		} else {
			l.Warn(d.Message)
		}
	}
	ctx.Logger().Debugf("Pipeline compiled into %d tasks", len(doc.Spec.Tasks))
	return doc, nil
}

// builder carries the state of a single compilation.
// instances are keyed by task name, incoming edges by target in declaration order.
type builder struct {
	conf        Config
	pipeline    api.Pipeline
	instances   map[string]*instance
	incoming    map[string][]api.PipelineEdge
	diagnostics []Diagnostic
}

func (b *builder) diagnose(task string, kind DiagnosticKind, msg string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{Task: task, Kind: kind, Message: msg})
}

func (b *builder) task(node api.PipelineNode, comp api.Component) Task {
	edges := b.incoming[node.ID]

	artifacts := make(map[string]bool)
	for _, e := range edges {
		if e.TargetHandle != "" {
			artifacts[e.TargetHandle] = true
		}
	}
	inst := newInstance(comp, artifacts)
	b.instances[node.ID] = inst

	inputs, outputs := inst.ports(b.conf)
	args, unresolved := inst.args(b.conf)
	for _, raw := range unresolved {
		b.diagnose(node.ID, PlaceholderLiteral, "no declared input for placeholder "+raw)
	}

	task := Task{
		Name:         node.ID,
		DisplayName:  node.Label,
		ComponentRef: comp.ID,
		Inputs:       inputs,
		Outputs:      outputs,
		Container: Container{
			Image:   comp.Image,
			Command: comp.Command,
			Args:    args,
		},
		ComponentSpec: renderComponentSpec(comp.Name, comp.Image, comp.Command, inputs, outputs, args),
	}
	if task.DisplayName == "" {
		task.DisplayName = comp.Name
	}

	task.Arguments = b.bindings(node, inst, edges)
	task.Dependencies = b.dependencies(edges)
	task.Resources = b.resources(node, comp)

	if comp.VolcanoEnabled {
		if o := attachSchedulerAnnotations(&task, b.pipeline.ID, b.conf); !o.Applied {
			b.diagnose(node.ID, SchedulerAnnotationSkipped, o.Reason)
		}
	}
	return task
}

// bindings binds data edges first then node constants on the inputs still unbound.
func (b *builder) bindings(node api.PipelineNode, inst *instance, edges []api.PipelineEdge) map[string]Binding {
	res := make(map[string]Binding)
	for _, e := range edges {
		if !e.IsData() {
			continue
		}
		upstream, ok := b.instances[e.Source]
		if !ok {
			continue
		}
		res[inst.inputs.get(e.TargetHandle)] = OutputBinding(e.Source, upstream.outputs.get(e.SourceHandle))
	}

	keys := make([]string, 0, len(node.Args))
	for k := range node.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !inst.inputs.has(k) {
			continue
		}
		name := inst.inputs.get(k)
		if _, bound := res[name]; bound {
			continue
		}
		res[name] = ConstantBinding(node.Args[k])
	}

	if len(res) == 0 {
		return nil
	}
	return res
}

// dependencies returns the upstream tasks of every incoming edge, deduplicated in edge order.
func (b *builder) dependencies(edges []api.PipelineEdge) []string {
	var deps []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if seen[e.Source] {
			continue
		}
		if _, ok := b.instances[e.Source]; !ok {
			continue
		}
		seen[e.Source] = true
		deps = append(deps, e.Source)
	}
	return deps
}

func (b *builder) resources(node api.PipelineNode, comp api.Component) *corev1.ResourceRequirements {
	spec := effectiveResources(comp.Resources, node.Resources)
	req := &corev1.ResourceRequirements{}
	for _, f := range api.ResourceFields {
		if o := applyResource(req, f, spec); !o.Applied && o.Reason != "" {
			b.diagnose(node.ID, ResourceSkipped, o.Reason)
		}
	}
	if len(req.Requests) == 0 && len(req.Limits) == 0 {
		return nil
	}
	return req
}
