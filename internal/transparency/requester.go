// Package transparency issues the one-shot request that makes the
// system-drawn caption chrome transparent and reports its outcome.
package transparency

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
)

// ErrUnsupported is returned by a Controller whose platform lacks the
// capability altogether.
var ErrUnsupported = errors.New("transparent caption not supported")

// Controller is the optional platform capability behind the request.
type Controller interface {
	RequestTransparentCaption() error
}

// Outcome classifies the result of a request.
type Outcome int

const (
	Applied Outcome = iota
	Failed
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Status is the captured result. Reason holds the failure category for
// Failed outcomes.
type Status struct {
	Outcome Outcome
	Reason  string
}

// Message returns the short human-readable status line.
func (s Status) Message() string {
	switch s.Outcome {
	case Applied:
		return "Transparent caption applied (compositor opacity)"
	case Failed:
		return "Transparent caption failed: " + s.Reason
	default:
		return "No compositing manager; cannot set transparent caption"
	}
}

func (s Status) String() string {
	return s.Message()
}

// Request runs ctrl once and classifies the result. A nil ctrl, or one
// reporting ErrUnsupported, is Unsupported. Panics count as failures.
func Request(ctrl Controller) (status Status) {
	if ctrl == nil || isNilController(ctrl) {
		return Status{Outcome: Unsupported}
	}

	defer func() {
		if r := recover(); r != nil {
			reason := "panic"
			if err, ok := r.(error); ok {
				reason = Category(err)
			}
			status = Status{Outcome: Failed, Reason: reason}
		}
	}()

	err := ctrl.RequestTransparentCaption()
	switch {
	case err == nil:
		return Status{Outcome: Applied}
	case errors.Is(err, ErrUnsupported):
		return Status{Outcome: Unsupported}
	default:
		return Status{Outcome: Failed, Reason: Category(err)}
	}
}

// Category names the kind of failure: the type name of the innermost
// wrapped error, without package or pointer decoration.
func Category(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

func isNilController(ctrl Controller) bool {
	v := reflect.ValueOf(ctrl)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Requester schedules the request after the window's root element is
// ready and delivers the status exactly once.
type Requester struct {
	Logger *slog.Logger

	once   sync.Once
	mu     sync.Mutex
	status *Status
}

// Schedule registers the request with onReady, which must invoke its
// argument once the root element is attached. onResult receives the status
// message. Later calls to Schedule, and repeated ready signals, do nothing.
func (r *Requester) Schedule(onReady func(func()), ctrl Controller, onResult func(string)) {
	onReady(func() {
		r.once.Do(func() {
			status := Request(ctrl)
			r.mu.Lock()
			r.status = &status
			r.mu.Unlock()

			logger := r.logger()
			switch status.Outcome {
			case Applied:
				logger.Info("transparent caption applied")
			case Failed:
				logger.Warn("transparent caption failed", "reason", status.Reason)
			default:
				logger.Info("transparent caption unsupported")
			}
			if onResult != nil {
				onResult(status.Message())
			}
		})
	})
}

// Status returns the captured status, if the request has run.
func (r *Requester) Status() (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == nil {
		return Status{}, false
	}
	return *r.status, true
}

func (r *Requester) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
