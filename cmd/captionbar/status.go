package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/ipc"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(16)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	row := func(label string, value any) {
		fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label), value)
	}

	row("title", s.Title)
	if s.Bound {
		row("bound", okStyle.Render("yes"))
	} else {
		row("bound", warnStyle.Render("no"))
	}
	row("strip_height", fmt.Sprintf("%dpx", s.StripHeight))
	if rec := s.LastRecord; rec != nil {
		row("drawable", fmt.Sprintf("%d..%d (%dpx)", rec.DrawableStart, rec.DrawableEnd, rec.DrawableWidth()))
		row("caption_top", rec.CaptionTop)
		row("status_top", rec.StatusTop)
		row("container_width", fmt.Sprintf("%dpx", rec.ContainerWidth))
		row("obstacles", formatRects(rec.Obstacles))
		if rec.Degraded {
			row("obstacle_probe", warnStyle.Render("degraded"))
		}
		row("last_layout", fmt.Sprintf("#%d at %s", rec.Seq, rec.At.Format(time.TimeOnly)))
	}
	if s.DPI > 0 {
		row("dpi", fmt.Sprintf("%.0f", s.DPI))
	}
	switch s.TransparencyOutcome {
	case "":
	case "applied":
		row("transparency", okStyle.Render(s.Transparency))
	default:
		row("transparency", warnStyle.Render(s.Transparency))
	}
	if s.ConfigPath != "" {
		row("config", s.ConfigPath)
	}
	row("uptime", (time.Duration(s.UptimeSeconds) * time.Second).String())
}

func formatRects(rects []geometry.Rect) string {
	if len(rects) == 0 {
		return "none"
	}
	parts := make([]string, len(rects))
	for i, r := range rects {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
