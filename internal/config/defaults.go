package config

const (
	defaultReportDir    = "~/.local/share/mediadup/reports"
	defaultLogDir       = "~/.local/share/mediadup/logs"
	defaultDatabasePath = "~/.local/share/mediadup/sessions.db"
	defaultChunkSizeKiB = 256
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// Chunk size bounds keep hashing memory predictable while allowing
	// tuning for fast or slow storage.
	minChunkSizeKiB = 4
	maxChunkSizeKiB = 8192
)

func defaultExtensions() []string {
	return []string{
		// video
		".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
		".m4v", ".3gp", ".ogv", ".ts", ".mts", ".m2ts",
		// audio
		".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ReportDir:    defaultReportDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Scan: Scan{
			Extensions:     defaultExtensions(),
			ChunkSizeKiB:   defaultChunkSizeKiB,
			Workers:        0,
			FollowSymlinks: true,
			SizePrefilter:  false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
