package playlist

import "time"

// Entry is one playlist page that can be rendered to an image. Name doubles
// as the stem of both the HTML input and the PNG output file.
type Entry struct {
	ID         string    `toml:"id" json:"id"`
	Name       string    `toml:"name" json:"name"`
	Enabled    bool      `toml:"enabled" json:"enabled"`
	ScreenName string    `toml:"screen_name,omitempty" json:"screen_name,omitempty"`
	Hashtag    string    `toml:"hashtag,omitempty" json:"hashtag,omitempty"`
	CreatedAt  time.Time `toml:"-" json:"created_at"`
	UpdatedAt  time.Time `toml:"-" json:"updated_at"`
}
