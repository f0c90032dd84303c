// Package media acquires and normalizes meeting recordings: downloading
// uploads and links, extracting audio tracks from video, and splitting files
// that exceed the transcription service's size limit. External tools (yt-dlp,
// ffmpeg) do the heavy lifting; this package wraps them with context-aware
// process control and temp-file hygiene.
package media

import (
	"path/filepath"
	"strings"
)

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".oga": true, ".m4a": true,
	".aac": true, ".flac": true, ".opus": true, ".wma": true, ".amr": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	".wmv": true, ".flv": true, ".mpeg": true, ".mpg": true, ".3gp": true,
}

// IsAudio reports whether the file name carries a supported audio extension.
func IsAudio(name string) bool {
	return audioExts[strings.ToLower(filepath.Ext(name))]
}

// IsVideo reports whether the file name carries a supported video extension.
func IsVideo(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}

// IsSupported reports whether the file name is accepted as a meeting
// recording at all.
func IsSupported(name string) bool {
	return IsAudio(name) || IsVideo(name)
}
