package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/ipc"
)

type fakeClient struct {
	status    ipc.StatusData
	statusErr error
	displays  []ipc.DisplayInfo
	reloads   int
	titles    []string
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	s := f.status
	return &s, nil
}

func (f *fakeClient) SetTitle(title string) error {
	f.titles = append(f.titles, title)
	f.status.Title = title
	return nil
}

func (f *fakeClient) GetDisplays() (*ipc.DisplaysData, error) {
	return &ipc.DisplaysData{Displays: f.displays}, nil
}

func (f *fakeClient) Reload() error {
	f.reloads++
	return nil
}

func TestHandleGetCaptionStatus(t *testing.T) {
	client := &fakeClient{status: ipc.StatusData{
		Title:         "Notes",
		Bound:         true,
		StripHeight:   32,
		DrawableStart: 50,
		DrawableEnd:   300,
		LastRecord: &caption.DebugRecord{
			Degraded:  false,
			Obstacles: []geometry.Rect{{Left: 0, Top: 0, Right: 50, Bottom: 32}},
		},
	}}
	s := NewServer(client, nil)

	_, out, err := s.handleGetCaptionStatus(context.Background(), nil, GetCaptionStatusInput{})
	if err != nil {
		t.Fatalf("handleGetCaptionStatus: %v", err)
	}
	if out.Title != "Notes" || out.DrawableStart != 50 || out.DrawableEnd != 300 || out.StripHeight != 32 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Obstacles != nil {
		t.Fatalf("obstacles included without include_record: %+v", out.Obstacles)
	}

	_, out, err = s.handleGetCaptionStatus(context.Background(), nil, GetCaptionStatusInput{IncludeRecord: true})
	if err != nil {
		t.Fatalf("handleGetCaptionStatus: %v", err)
	}
	if len(out.Obstacles) != 1 || out.Obstacles[0].Right != 50 {
		t.Fatalf("obstacles = %+v", out.Obstacles)
	}
}

func TestHandleGetCaptionStatus_NotRunning(t *testing.T) {
	s := NewServer(&fakeClient{statusErr: errors.New("failed to connect")}, nil)

	if _, _, err := s.handleGetCaptionStatus(context.Background(), nil, GetCaptionStatusInput{}); err == nil {
		t.Fatalf("expected error when captionbar is not running")
	}
}

func TestHandleSetCaptionTitle(t *testing.T) {
	client := &fakeClient{status: ipc.StatusData{Title: "old"}}
	s := NewServer(client, nil)

	_, out, err := s.handleSetCaptionTitle(context.Background(), nil, SetCaptionTitleInput{Title: "new"})
	if err != nil {
		t.Fatalf("handleSetCaptionTitle: %v", err)
	}
	if out.Title != "new" || out.Previous != "old" {
		t.Fatalf("unexpected output: %+v", out)
	}

	if _, _, err := s.handleSetCaptionTitle(context.Background(), nil, SetCaptionTitleInput{Title: "a\nb"}); err == nil {
		t.Fatalf("expected error for multi-line title")
	}
	if len(client.titles) != 1 {
		t.Fatalf("titles sent = %v, want one", client.titles)
	}
}

func TestHandleListDisplaysAndReload(t *testing.T) {
	client := &fakeClient{displays: []ipc.DisplayInfo{{Name: "HDMI-1", Width: 2560, Height: 1440, DPI: 109}}}
	s := NewServer(client, nil)

	_, out, err := s.handleListDisplays(context.Background(), nil, ListDisplaysInput{})
	if err != nil {
		t.Fatalf("handleListDisplays: %v", err)
	}
	if len(out.Displays) != 1 || out.Displays[0].Name != "HDMI-1" || out.Displays[0].Width != 2560 {
		t.Fatalf("unexpected displays: %+v", out.Displays)
	}

	res, _, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	if err != nil {
		t.Fatalf("handleReloadConfig: %v", err)
	}
	if client.reloads != 1 {
		t.Fatalf("reloads = %d", client.reloads)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok || text.Text != "Config reloaded" {
		t.Fatalf("unexpected content: %#v", res.Content)
	}
}
