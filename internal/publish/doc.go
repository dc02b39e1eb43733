// Package publish uploads finished images to an S3-compatible bucket with
// aws-sdk-go-v2. It runs after the split stage and only when
// publish.enabled is set.
package publish
