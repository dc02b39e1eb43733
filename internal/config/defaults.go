package config

const (
	defaultHTMLDir              = "html"
	defaultImageDir             = "images"
	defaultPlaylistDB           = "playlists.db"
	defaultLogDir               = "~/.local/share/playshot/logs"
	defaultLogRetentionDays     = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultInitialWidth         = 800
	defaultInitialHeight        = 600
	defaultPadding              = 40
	defaultLoadTimeoutSeconds   = 15
	defaultSettleSeconds        = 3
	defaultCaptureSuffix        = "_2"
	defaultSplitThreshold       = 4000
	defaultSplitRemainder       = RemainderLast
	defaultSplitCompression     = "default"
	defaultPublishRegion        = "us-east-1"
	defaultPublishTimeoutSecond = 60
)

// Remainder policies for the split stage.
const (
	// RemainderLast assigns the H mod n leftover rows to the final band.
	RemainderLast = "last"
	// RemainderDrop discards the leftover rows.
	RemainderDrop = "drop"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			HTMLDir:    defaultHTMLDir,
			ImageDir:   defaultImageDir,
			PlaylistDB: defaultPlaylistDB,
			LogDir:     defaultLogDir,
		},
		Capture: Capture{
			Headless:           true,
			HideScrollbars:     true,
			InitialWidth:       defaultInitialWidth,
			InitialHeight:      defaultInitialHeight,
			Padding:            defaultPadding,
			LoadTimeoutSeconds: defaultLoadTimeoutSeconds,
			SettleSeconds:      defaultSettleSeconds,
			Suffix:             defaultCaptureSuffix,
		},
		Split: Split{
			Threshold:   defaultSplitThreshold,
			Remainder:   defaultSplitRemainder,
			Compression: defaultSplitCompression,
		},
		Publish: Publish{
			Region:         defaultPublishRegion,
			TimeoutSeconds: defaultPublishTimeoutSecond,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
