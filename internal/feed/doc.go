// Package feed is the producer side of the telemetry stream: a mock event
// generator standing in for live trading data, and a publisher that keeps
// one encoder streaming onto one TCP connection with reconnect backoff.
package feed
