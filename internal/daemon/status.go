package daemon

import (
	"sync"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/ipc"
	"github.com/1broseidon/captionbar/internal/transparency"
)

// statusStore holds the last published view of the binding. The event
// loop writes it; IPC goroutines read it.
type statusStore struct {
	mu   sync.RWMutex
	data ipc.StatusData
}

func (s *statusStore) snapshot() ipc.StatusData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.data
	if s.data.LastRecord != nil {
		rec := *s.data.LastRecord
		rec.Obstacles = append(rec.Obstacles[:0:0], rec.Obstacles...)
		out.LastRecord = &rec
	}
	return out
}

func (s *statusStore) setTitle(title string) {
	s.mu.Lock()
	s.data.Title = title
	s.mu.Unlock()
}

func (s *statusStore) setDPI(dpi float64) {
	s.mu.Lock()
	s.data.DPI = dpi
	s.mu.Unlock()
}

func (s *statusStore) setConfigPath(path string) {
	s.mu.Lock()
	s.data.ConfigPath = path
	s.mu.Unlock()
}

// record publishes a layout record. rec must not be retained by the caller.
func (s *statusStore) record(rec caption.DebugRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Bound = true
	s.data.StripHeight = rec.StripHeight
	s.data.DrawableStart = rec.DrawableStart
	s.data.DrawableEnd = rec.DrawableEnd
	s.data.LastRecord = &rec
}

func (s *statusStore) setTransparency(status transparency.Status) {
	s.mu.Lock()
	s.data.Transparency = status.Message()
	s.data.TransparencyOutcome = status.Outcome.String()
	s.mu.Unlock()
}
