package caption

import (
	"log/slog"
	"sort"
)

// ListenerID identifies a registered debug listener.
type ListenerID uint64

// registry maps subscription handles to callbacks. Dispatch walks a
// snapshot of the registrations in registration order.
type registry struct {
	next      ListenerID
	listeners map[ListenerID]func(DebugRecord)
}

func (r *registry) add(fn func(DebugRecord)) ListenerID {
	if r.listeners == nil {
		r.listeners = make(map[ListenerID]func(DebugRecord))
	}
	r.next++
	r.listeners[r.next] = fn
	return r.next
}

func (r *registry) remove(id ListenerID) bool {
	if _, ok := r.listeners[id]; !ok {
		return false
	}
	delete(r.listeners, id)
	return true
}

func (r *registry) len() int {
	return len(r.listeners)
}

func (r *registry) snapshot() []ListenerID {
	ids := make([]ListenerID, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// dispatch delivers rec to every listener registered when dispatch began.
// Listeners removed during dispatch are skipped; each receives its own
// copy of the record, and a panic in one does not stop the rest.
func (r *registry) dispatch(rec DebugRecord, logger *slog.Logger) {
	for _, id := range r.snapshot() {
		fn, ok := r.listeners[id]
		if !ok {
			continue
		}
		deliver(id, fn, rec.clone(), logger)
	}
}

func deliver(id ListenerID, fn func(DebugRecord), rec DebugRecord, logger *slog.Logger) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("debug listener panicked", "listener", id, "seq", rec.Seq, "panic", p)
		}
	}()
	fn(rec)
}
