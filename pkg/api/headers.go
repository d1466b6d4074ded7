package api

const (
	// HeaderPipelineID is header for PipelineID
	HeaderPipelineID = "x-pipeline-id"
	// HeaderRunID is header for RunID
	HeaderRunID = "x-run-id"
	// HeaderType is header for Type
	HeaderType = "x-type"
	// HeaderCorrelationID is header for CorrelationID
	HeaderCorrelationID = "x-correlation-id"
)

const (
	// AnnotationSchedulingGroup is the pod annotation naming the gang scheduling group.
	AnnotationSchedulingGroup = "scheduling.k8s.io/group-name"
	// AnnotationSchedulerName is the pod annotation naming the scheduler.
	AnnotationSchedulerName = "schedulerName"
	// SchedulerVolcano is the name of the volcano batch scheduler.
	SchedulerVolcano = "volcano"
)
