package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeController struct {
	mu        sync.Mutex
	title     string
	reloads   int
	reloadErr error
	displays  []DisplayInfo
}

func (f *fakeController) Status() StatusData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return StatusData{Title: f.title, Bound: true, StripHeight: 32, DrawableStart: 10, DrawableEnd: 790}
}

func (f *fakeController) SetTitle(title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
	return nil
}

func (f *fakeController) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeController) Displays() ([]DisplayInfo, error) {
	return f.displays, nil
}

func startServer(t *testing.T, ctrl Controller) (*Server, *Client) {
	t.Helper()
	// Unix socket paths are length limited, so avoid deep test dirs.
	dir, err := os.MkdirTemp("", "cbipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket := filepath.Join(dir, "s.sock")
	srv, err := NewServer(socket, ctrl, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClientForSocket(socket)
}

func TestServer_StatusAndTitle(t *testing.T) {
	ctrl := &fakeController{title: "captionbar"}
	_, client := startServer(t, ctrl)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Running || !status.Bound || status.Title != "captionbar" || status.DrawableEnd != 790 {
		t.Fatalf("unexpected status: %+v", status)
	}

	if err := client.SetTitle("Notes"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	status, err = client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Title != "Notes" {
		t.Fatalf("title = %q, want Notes", status.Title)
	}
}

func TestServer_RejectsMultilineTitle(t *testing.T) {
	ctrl := &fakeController{title: "before"}
	_, client := startServer(t, ctrl)

	err := client.SetTitle("a\nb")
	if err == nil || !strings.Contains(err.Error(), "single line") {
		t.Fatalf("expected single line error, got %v", err)
	}
	if ctrl.Status().Title != "before" {
		t.Fatalf("title changed on rejected request")
	}
}

func TestServer_ReloadError(t *testing.T) {
	ctrl := &fakeController{reloadErr: errors.New("bad yaml")}
	_, client := startServer(t, ctrl)

	err := client.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected reload error, got %v", err)
	}
	if ctrl.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", ctrl.reloads)
	}
}

func TestServer_Displays(t *testing.T) {
	ctrl := &fakeController{displays: []DisplayInfo{{ID: 0, Name: "eDP-1", Width: 1920, Height: 1080, DPI: 96}}}
	_, client := startServer(t, ctrl)

	data, err := client.GetDisplays()
	if err != nil {
		t.Fatalf("GetDisplays: %v", err)
	}
	if len(data.Displays) != 1 || data.Displays[0].Name != "eDP-1" {
		t.Fatalf("unexpected displays: %+v", data.Displays)
	}
}

func TestServer_SecondInstanceRefused(t *testing.T) {
	srv, _ := startServer(t, &fakeController{})

	other, err := NewServer(srv.SocketPath(), &fakeController{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := other.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestServer_StopRemovesSocket(t *testing.T) {
	srv, client := startServer(t, &fakeController{})
	srv.Stop()

	if _, err := os.Stat(srv.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("socket still present after Stop, stat err=%v", err)
	}
	if err := client.Ping(); err == nil {
		t.Fatalf("expected ping to fail after Stop")
	}
}

func TestParseRequest(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("expected error for missing command")
	}
	req, err := ParseRequest([]byte(`{"command":"GET_STATUS"}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandGetStatus {
		t.Fatalf("command = %q", req.Command)
	}
}
