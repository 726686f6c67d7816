// Package ingest is the consumer side of the telemetry stream: a TCP
// listener that runs one isolated decode loop per producer connection and
// hands typed events to a Sink.
package ingest
