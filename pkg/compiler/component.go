package compiler

import (
	"fmt"
	"strings"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// instance is a component instantiated at one call site.
type instance struct {
	comp api.Component
	// artifacts are the raw input names fed by an incoming edge at this call site.
	artifacts map[string]bool
	inputs    nameMap
	outputs   nameMap
}

func newInstance(comp api.Component, artifacts map[string]bool) *instance {
	return &instance{
		comp:      comp,
		artifacts: artifacts,
		inputs:    newNameMap(comp.Inputs),
		outputs:   newNameMap(comp.Outputs),
	}
}

// ports returns the declared inputs and outputs with their call site types.
func (in *instance) ports(conf Config) (inputs, outputs []PortSpec) {
	for _, p := range in.comp.Inputs {
		ps := PortSpec{Name: in.inputs.get(p.Name), Type: conf.ParameterType, Kind: api.PortKindParameter}
		if in.artifacts[p.Name] {
			ps.Type = conf.ArtifactType
			ps.Kind = api.PortKindArtifact
		}
		inputs = append(inputs, ps)
	}
	for _, p := range in.comp.Outputs {
		outputs = append(outputs, PortSpec{Name: in.outputs.get(p.Name), Type: conf.ArtifactType, Kind: api.PortKindArtifact})
	}
	return inputs, outputs
}

// args rewrites the component arguments. The second value lists the parameter placeholders
// that did not resolve to a declared input and were kept as literals.
func (in *instance) args(conf Config) ([]Arg, []string) {
	outputs := make([]string, len(in.comp.Outputs))
	for i, o := range in.comp.Outputs {
		outputs[i] = o.Name
	}

	var args []Arg
	var unresolved []string
	for _, a := range in.comp.Args {
		tok := ParseToken(a, outputs, conf.OutputStagingRoot)
		switch tok.Kind {
		case TokenParameter:
			if !in.inputs.has(tok.Name) {
				unresolved = append(unresolved, tok.Raw)
				args = append(args, Arg{Kind: ArgLiteral, Value: tok.Raw})
				continue
			}
			kind := ArgInputValue
			if in.artifacts[tok.Name] {
				kind = ArgInputPath
			}
			args = append(args, Arg{Kind: kind, Value: in.inputs.get(tok.Name)})
		case TokenOutputPath:
			args = append(args, Arg{Kind: ArgOutputPath, Value: in.outputs.get(tok.Name)})
		default:
			args = append(args, Arg{Kind: ArgLiteral, Value: tok.Raw})
		}
	}
	return args, unresolved
}

// renderComponentSpec writes the component definition in the platform component grammar.
// The layout is fixed: the platform parser expects exactly this indentation.
func renderComponentSpec(name string, image string, command []string, inputs, outputs []PortSpec, args []Arg) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("name: %s", name))
	if len(inputs) > 0 {
		lines = append(lines, "inputs:")
		for _, in := range inputs {
			lines = append(lines, fmt.Sprintf("  - name: %s", in.Name))
			lines = append(lines, fmt.Sprintf("    type: %s", in.Type))
		}
	}
	if len(outputs) > 0 {
		lines = append(lines, "outputs:")
		for _, out := range outputs {
			lines = append(lines, fmt.Sprintf("  - name: %s", out.Name))
			lines = append(lines, fmt.Sprintf("    type: %s", out.Type))
		}
	}
	lines = append(lines, "implementation:")
	lines = append(lines, "  container:")
	lines = append(lines, fmt.Sprintf("    image: %s", image))
	if len(command) > 0 {
		lines = append(lines, "    command:")
		for _, c := range command {
			lines = append(lines, fmt.Sprintf("    - %s", c))
		}
	}
	if len(args) > 0 {
		lines = append(lines, "    args:")
		for _, a := range args {
			lines = append(lines, fmt.Sprintf("    - %s", a))
		}
	}
	return strings.Join(lines, "\n")
}
