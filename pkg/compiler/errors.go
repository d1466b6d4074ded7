package compiler

import (
	"fmt"
	"strings"
)

// UnresolvedComponentError is returned when a node refers to a component absent from the catalog.
// No document is produced.
type UnresolvedComponentError struct {
	NodeID      string
	ComponentID string
}

func (err *UnresolvedComponentError) Error() string {
	return fmt.Sprintf("component %s not found for node %s", err.ComponentID, err.NodeID)
}

// CyclicGraphError is returned when the nodes cannot be topologically ordered.
// No document is produced.
type CyclicGraphError struct {
	Sorted int
	Total  int
	// Remaining are the nodes left with a non zero in-degree, in declaration order.
	Remaining []string
}

func (err *CyclicGraphError) Error() string {
	return fmt.Sprintf("pipeline contains a cycle, sorted %d of %d nodes, remaining [%s]", err.Sorted, err.Total, strings.Join(err.Remaining, ", "))
}

// UnknownFormatError is returned when rendering a document in an unsupported format.
type UnknownFormatError struct {
	Format string
}

func (err *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown document format %q", err.Format)
}

// DiagnosticKind classifies non fatal compilation events.
type DiagnosticKind string

const (
	// PlaceholderLiteral an argument token matched no placeholder convention and was emitted as a literal.
	PlaceholderLiteral DiagnosticKind = "PlaceholderLiteral"
	// ResourceSkipped a resource value could not be applied, platform defaults apply.
	ResourceSkipped DiagnosticKind = "ResourceSkipped"
	// SchedulerAnnotationSkipped scheduler annotations could not be attached, default scheduling applies.
	SchedulerAnnotationSkipped DiagnosticKind = "SchedulerAnnotationSkipped"
)

// Diagnostic is a non fatal event that happened while compiling a task.
type Diagnostic struct {
	Task    string
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s on task %s: %s", d.Kind, d.Task, d.Message)
}
