package media

import (
	"net/url"
	"regexp"
	"strings"
)

// SourceKind classifies a link by how its recording must be fetched.
type SourceKind string

const (
	KindYouTube     SourceKind = "youtube"
	KindGoogleDrive SourceKind = "gdrive"
	KindDirect      SourceKind = "direct"
	KindUnsupported SourceKind = "unsupported"
)

var driveFileID = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// ClassifyURL decides how a link should be downloaded. Links that are neither
// a known platform nor a direct file with a supported extension are
// unsupported.
func ClassifyURL(raw string) SourceKind {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return KindUnsupported
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtube.com" || host == "m.youtube.com" || host == "youtu.be":
		return KindYouTube
	case host == "drive.google.com":
		return KindGoogleDrive
	case IsSupported(u.Path):
		return KindDirect
	default:
		return KindUnsupported
	}
}

// DriveDownloadURL converts a Google Drive share link into a direct download
// URL. The confirm parameter skips the large-file virus-scan interstitial.
// It returns false when no file ID can be extracted.
func DriveDownloadURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	id := u.Query().Get("id")
	if id == "" {
		if m := driveFileID.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
	}
	if id == "" {
		return "", false
	}
	return "https://drive.google.com/uc?export=download&confirm=t&id=" + url.QueryEscape(id), true
}
