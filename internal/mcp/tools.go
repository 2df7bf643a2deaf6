package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetCaptionStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args GetCaptionStatusInput) (*mcpsdk.CallToolResult, GetCaptionStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetCaptionStatusOutput{}, err
	}

	out := GetCaptionStatusOutput{
		Title:         status.Title,
		Bound:         status.Bound,
		StripHeight:   status.StripHeight,
		DrawableStart: status.DrawableStart,
		DrawableEnd:   status.DrawableEnd,
		Transparency:  status.Transparency,
		UptimeSeconds: status.UptimeSeconds,
	}
	if rec := status.LastRecord; rec != nil {
		out.Degraded = rec.Degraded
		if args.IncludeRecord {
			out.Obstacles = make([]Obstacle, 0, len(rec.Obstacles))
			for _, r := range rec.Obstacles {
				out.Obstacles = append(out.Obstacles, Obstacle{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom})
			}
		}
	}
	return nil, out, nil
}

func (s *Server) handleSetCaptionTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetCaptionTitleInput) (*mcpsdk.CallToolResult, SetCaptionTitleOutput, error) {
	if strings.ContainsAny(args.Title, "\r\n") {
		return nil, SetCaptionTitleOutput{}, fmt.Errorf("title must be a single line")
	}

	status, err := s.client.GetStatus()
	if err != nil {
		return nil, SetCaptionTitleOutput{}, err
	}
	previous := status.Title

	if err := s.client.SetTitle(args.Title); err != nil {
		return nil, SetCaptionTitleOutput{}, err
	}
	s.logger.Info("caption title set via MCP", "title", args.Title, "previous", previous)
	return nil, SetCaptionTitleOutput{Title: args.Title, Previous: previous}, nil
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	data, err := s.client.GetDisplays()
	if err != nil {
		return nil, ListDisplaysOutput{}, err
	}

	out := ListDisplaysOutput{Displays: make([]DisplayInfo, 0, len(data.Displays))}
	for _, d := range data.Displays {
		out.Displays = append(out.Displays, DisplayInfo{
			Name:   d.Name,
			X:      d.X,
			Y:      d.Y,
			Width:  d.Width,
			Height: d.Height,
			DPI:    d.DPI,
		})
	}
	return nil, out, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.Reload(); err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: "Config reloaded"},
		},
	}, nil, nil
}
