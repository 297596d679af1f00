// Package metrics records how droidbuild drives external tools.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so metrics cost nothing unless the CLI is asked for them:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	runner := javatool.NewExecRunner().WithRecorder(rec)
//	...
//	_ = metrics.WriteTextfile(path, reg)
//
// A build helper exits long before anything could scrape it, so the
// Prometheus registry is flushed to a node-exporter textfile at the end of
// the invocation instead of being served over HTTP.
package metrics
