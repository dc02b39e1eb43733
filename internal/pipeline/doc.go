// Package pipeline runs the capture, split, and publish stages in order for
// one invocation.
//
// A run holds an exclusive flock on <image_dir>/.playshot.lock so two runs
// never write the same images, and tags every log line with a fresh run ID.
package pipeline
