package metrics

import "time"

// ToolResult enumerates the outcome of one external tool invocation.
type ToolResult string

const (
	ToolSuccess    ToolResult = "success"
	ToolFailed     ToolResult = "failed"      // ran and exited non-zero
	ToolSpawnError ToolResult = "spawn_error" // could not be started
	ToolCanceled   ToolResult = "canceled"
)

// BuildOutcomeLabel enumerates pipeline outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for tool invocations and pipeline stages.
type Recorder interface {
	ObserveToolDuration(tool string, d time.Duration)
	IncToolResult(tool string, result ToolResult)
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveToolDuration(string, time.Duration)  {}
func (NoopRecorder) IncToolResult(string, ToolResult)           {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
