// Package playlist stores the playlist entries that drive the capture stage.
//
// Entries live in a SQLite database (modernc.org/sqlite) whose schema is
// managed by embedded, ordered migrations. Each entry carries an id, a name
// that doubles as the HTML and PNG file stem, and an enabled flag; names are
// NFC-normalized and validated so they can never escape the configured
// directories. LoadFile reads bulk definitions from TOML for Import.
package playlist
