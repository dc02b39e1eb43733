// Package main hosts the playshot CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the capture, split,
// and publish stages from it, and hands them to the pipeline runner. Playlist
// maintenance, preflight checks, and configuration scaffolding live beside
// the pipeline commands.
package main
