// Package config loads, normalizes, and validates playshot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLAYSHOT_CHROME_PATH and the PLAYSHOT_S3_* credentials. Values that used to
// be hard-coded in the batch script (split threshold, viewport size, load and
// settle waits) are explicit settings here.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
