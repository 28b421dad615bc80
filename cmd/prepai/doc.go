// Package main hosts the PrepAI CLI entrypoint and command graph.
//
// The Cobra command tree runs live interview sessions against the analysis
// streams, manages the stored credential and guest identity, and reads
// interview history and reports back from the gateway. Heavy lifting lives in
// the internal packages; commands here resolve configuration and identity and
// render results.
package main
