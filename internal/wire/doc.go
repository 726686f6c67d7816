// Package wire owns the telemetry stream wire contract.
//
// Ownership boundary:
// - event tagged-union types and their encode-time validation
// - the per-tag layout table shared by encoder and decoder
// - frame marshalling and the stream decoder with its read-exact primitive
package wire
