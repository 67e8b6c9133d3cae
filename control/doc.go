// Package control implements a client for Tor's text-based Control Port
// protocol: a persistent, line-oriented, full-duplex connection that
// authenticates to a locally running Tor process, pipelines synchronous
// commands against their replies, and demultiplexes asynchronous events
// out of the same reply stream.
//
// The package does not implement SOCKS, path selection, relay policy,
// descriptor validation, or any cryptographic portion of Tor. It is
// strictly a control-channel consumer.
package control
