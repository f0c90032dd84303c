package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedURL is returned for links the downloader cannot fetch.
var ErrUnsupportedURL = errors.New("media: unsupported URL")

const defaultDownloadTimeout = 15 * time.Minute

// Downloader fetches recording sources into a working directory. One
// Downloader is shared by all pipeline runs; each fetch writes a uniquely
// named file so concurrent runs never collide.
type Downloader struct {
	httpClient *http.Client
	workDir    string
	ytdlpPath  string
	maxBytes   int64
	log        *slog.Logger
}

// DownloaderOption is a functional option for the Downloader.
type DownloaderOption func(*Downloader)

// WithDownloaderHTTPClient replaces the HTTP client, mainly for tests.
func WithDownloaderHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.httpClient = c
	}
}

// WithYTDLPPath points at the yt-dlp binary; the default resolves via PATH.
func WithYTDLPPath(path string) DownloaderOption {
	return func(d *Downloader) {
		d.ytdlpPath = path
	}
}

// WithMaxDownloadBytes caps the size of a direct download. Zero means no cap.
func WithMaxDownloadBytes(n int64) DownloaderOption {
	return func(d *Downloader) {
		d.maxBytes = n
	}
}

// NewDownloader creates a Downloader writing into workDir, which must exist.
func NewDownloader(workDir string, log *slog.Logger, opts ...DownloaderOption) (*Downloader, error) {
	if workDir == "" {
		return nil, errors.New("media: workDir must not be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	d := &Downloader{
		httpClient: &http.Client{Timeout: defaultDownloadTimeout},
		workDir:    workDir,
		ytdlpPath:  "yt-dlp",
		log:        log,
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Fetch downloads one link and returns the local file path. YouTube links go
// through yt-dlp with audio extraction; Google Drive share links become
// direct downloads; everything else with a supported extension is fetched
// over plain HTTP.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	switch ClassifyURL(rawURL) {
	case KindYouTube:
		return d.fetchYouTube(ctx, rawURL)
	case KindGoogleDrive:
		direct, ok := DriveDownloadURL(rawURL)
		if !ok {
			return "", fmt.Errorf("%w: no Drive file ID in %q", ErrUnsupportedURL, rawURL)
		}
		return d.fetchHTTP(ctx, direct, ".mp4")
	case KindDirect:
		return d.fetchHTTP(ctx, rawURL, strings.ToLower(filepath.Ext(rawURL)))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
}

// FetchFile downloads an uploaded attachment by its CDN URL, keeping the
// original extension so later steps can tell audio from video.
func (d *Downloader) FetchFile(ctx context.Context, fileURL, name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !IsSupported(name) {
		return "", fmt.Errorf("%w: attachment %q", ErrUnsupportedURL, name)
	}
	return d.fetchHTTP(ctx, fileURL, ext)
}

func (d *Downloader) fetchHTTP(ctx context.Context, rawURL, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: download %q: status %d", rawURL, resp.StatusCode)
	}

	dst := filepath.Join(d.workDir, uuid.NewString()+ext)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("media: create %q: %w", dst, err)
	}
	defer f.Close()

	var body io.Reader = resp.Body
	if d.maxBytes > 0 {
		body = io.LimitReader(resp.Body, d.maxBytes+1)
	}
	n, err := io.Copy(f, body)
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("media: write %q: %w", dst, err)
	}
	if d.maxBytes > 0 && n > d.maxBytes {
		os.Remove(dst)
		return "", fmt.Errorf("media: download exceeds %d bytes", d.maxBytes)
	}
	d.log.Debug("media: downloaded", "url", rawURL, "bytes", n, "path", dst)
	return dst, nil
}

func (d *Downloader) fetchYouTube(ctx context.Context, rawURL string) (string, error) {
	dst := filepath.Join(d.workDir, uuid.NewString()+".mp3")
	cmd := exec.CommandContext(ctx, d.ytdlpPath,
		"--no-playlist",
		"-x", "--audio-format", "mp3",
		"-o", dst,
		rawURL,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("media: yt-dlp: %w: %s", err, tail(string(out), 400))
	}
	if _, err := os.Stat(dst); err != nil {
		return "", fmt.Errorf("media: yt-dlp produced no output file: %w", err)
	}
	d.log.Debug("media: youtube download complete", "url", rawURL, "path", dst)
	return dst, nil
}

// tail returns at most the last n runes of s, for bounded error messages.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n:])
}
