// Package tracker maintains the per-circuit and per-stream state needed
// to answer "which three relays are currently carrying the connection to
// domain D?" from the CIRC/STREAM events delivered by package control.
package tracker
