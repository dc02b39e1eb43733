// Package preflight provides readiness checks for the directories, browser,
// playlist database, and bucket that playshot depends on.
//
// "playshot preflight" prints every result and exits non-zero when any check
// fails. The bucket check is skipped unless publish.enabled is set.
package preflight
