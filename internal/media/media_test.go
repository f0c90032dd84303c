package media

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestExtensionClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		audio, video bool
	}{
		{"meeting.mp3", true, false},
		{"MEETING.OGG", true, false},
		{"call.opus", true, false},
		{"standup.mp4", false, true},
		{"standup.MOV", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}
	for _, tt := range tests {
		if got := IsAudio(tt.name); got != tt.audio {
			t.Errorf("IsAudio(%q) = %v", tt.name, got)
		}
		if got := IsVideo(tt.name); got != tt.video {
			t.Errorf("IsVideo(%q) = %v", tt.name, got)
		}
		if got := IsSupported(tt.name); got != (tt.audio || tt.video) {
			t.Errorf("IsSupported(%q) = %v", tt.name, got)
		}
	}
}

func TestClassifyURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url  string
		want SourceKind
	}{
		{"https://www.youtube.com/watch?v=abc123", KindYouTube},
		{"https://youtu.be/abc123", KindYouTube},
		{"https://m.youtube.com/watch?v=abc123", KindYouTube},
		{"https://drive.google.com/file/d/1AbC-def_123/view?usp=sharing", KindGoogleDrive},
		{"https://example.com/recordings/standup.mp3", KindDirect},
		{"https://example.com/standup.mp4", KindDirect},
		{"https://example.com/page.html", KindUnsupported},
		{"ftp://example.com/a.mp3", KindUnsupported},
		{"not a url", KindUnsupported},
	}
	for _, tt := range tests {
		if got := ClassifyURL(tt.url); got != tt.want {
			t.Errorf("ClassifyURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDriveDownloadURL(t *testing.T) {
	t.Parallel()
	got, ok := DriveDownloadURL("https://drive.google.com/file/d/1AbC-def_123/view?usp=sharing")
	if !ok {
		t.Fatal("DriveDownloadURL() not ok")
	}
	for _, part := range []string{"uc?export=download", "confirm=t", "id=1AbC-def_123"} {
		if !strings.Contains(got, part) {
			t.Errorf("DriveDownloadURL() = %q, missing %q", got, part)
		}
	}

	got, ok = DriveDownloadURL("https://drive.google.com/open?id=XYZ789")
	if !ok || !strings.Contains(got, "id=XYZ789") {
		t.Errorf("DriveDownloadURL(open?id=) = %q, %v", got, ok)
	}

	if _, ok := DriveDownloadURL("https://drive.google.com/drive/folders/"); ok {
		t.Error("folder link should not yield a download URL")
	}
}

func TestFetchDirect(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	d, err := NewDownloader(t.TempDir(), discardLog())
	if err != nil {
		t.Fatal(err)
	}
	path, err := d.Fetch(context.Background(), srv.URL+"/meeting.mp3")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if filepath.Ext(path) != ".mp3" {
		t.Errorf("downloaded path %q should keep the extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "audio bytes" {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestFetchUnsupportedURL(t *testing.T) {
	t.Parallel()
	d, err := NewDownloader(t.TempDir(), discardLog())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Fetch(context.Background(), "https://example.com/page.html"); !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("err = %v, want ErrUnsupportedURL", err)
	}
}

func TestFetchSizeCap(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 2048))
	}))
	defer srv.Close()

	d, err := NewDownloader(t.TempDir(), discardLog(), WithMaxDownloadBytes(1024))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Fetch(context.Background(), srv.URL+"/big.mp3"); err == nil {
		t.Error("oversized download should fail")
	}
}

func TestFetchFileRejectsUnknownExtension(t *testing.T) {
	t.Parallel()
	d, err := NewDownloader(t.TempDir(), discardLog())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.FetchFile(context.Background(), "https://cdn.example.com/x", "notes.txt"); !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("err = %v, want ErrUnsupportedURL", err)
	}
}

func TestSplitIfOversizedPassthrough(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "small.mp3")
	if err := os.WriteFile(path, []byte("tiny"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewConverter(dir, discardLog())
	got, err := c.SplitIfOversized(context.Background(), path, 1024)
	if err != nil {
		t.Fatalf("SplitIfOversized() error = %v", err)
	}
	if len(got) != 1 || got[0] != path {
		t.Errorf("SplitIfOversized() = %v, want passthrough", got)
	}
}

func TestEnsureAudioPassthrough(t *testing.T) {
	t.Parallel()
	c := NewConverter(t.TempDir(), discardLog())
	got, err := c.EnsureAudio(context.Background(), "/tmp/whatever.mp3")
	if err != nil || got != "/tmp/whatever.mp3" {
		t.Errorf("EnsureAudio(audio) = %q, %v", got, err)
	}
	if _, err := c.EnsureAudio(context.Background(), "/tmp/whatever.txt"); err == nil {
		t.Error("EnsureAudio on unsupported file should fail")
	}
}
