package x11

import (
	"context"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// quitGrace bounds how long EventLoop waits for xgbutil to acknowledge a
// quit after the wake event was sent.
const quitGrace = time.Second

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	tasks    *taskQueue
	quit     chan struct{}
	quitOnce sync.Once
}

// NewConnection establishes a connection to the X11 server. An empty
// display uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
		tasks: newTaskQueue(),
		quit:  make(chan struct{}),
	}, nil
}

// Post schedules fn to run on the event loop goroutine, between X events.
// It never blocks and is safe to call from any goroutine, including the
// loop itself. Tasks run in the order they were posted; tasks posted
// after the loop stopped are dropped.
func (c *Connection) Post(fn func()) {
	c.tasks.push(fn)
}

// EventLoop runs the X11 event loop until ctx is cancelled or the loop is
// quit. X event callbacks and posted functions never run concurrently.
func (c *Connection) EventLoop(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	before, after, quit := xevent.MainPing(c.XUtil)
	wake := c.wakeWindow()
	runLoop(ctx, loopPings{before: before, after: after, quit: quit}, c.tasks, func() {
		xevent.Quit(c.XUtil)
		c.sendWake(wake)
	})
}

// wakeWindow creates an unmapped input-only window that receives the
// event used to unblock the xgbutil reader on shutdown.
func (c *Connection) wakeWindow() xproto.Window {
	wid, err := xproto.NewWindowId(c.XUtil.Conn())
	if err != nil {
		return 0
	}
	// Input-only windows take depth 0 and the parent's visual.
	err = xproto.CreateWindowChecked(
		c.XUtil.Conn(),
		0,
		wid,
		c.Root,
		-1, -1,
		1, 1,
		0,
		xproto.WindowClassInputOnly,
		0,
		0,
		nil,
	).Check()
	if err != nil {
		return 0
	}
	return wid
}

// sendWake delivers a client message to win. With an empty event mask X
// sends it to the window's creator, which is this connection.
func (c *Connection) sendWake(win xproto.Window) {
	if win == 0 {
		return
	}
	atom, err := xprop.Atm(c.XUtil, "_CAPTIONBAR_WAKE")
	if err != nil {
		return
	}
	cm, err := xevent.NewClientMessage(32, win, atom)
	if err != nil {
		return
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, 0, string(cm.Bytes()))
	xproto.DestroyWindow(c.XUtil.Conn(), win)
	c.XUtil.Sync()
}

// loopPings are the channels returned by xevent.MainPing.
type loopPings struct {
	before <-chan struct{}
	after  <-chan struct{}
	quit   <-chan struct{}
}

// runLoop interleaves xgbutil event dispatch with posted tasks. On ctx
// cancellation it calls stop, which must make the xgbutil loop return,
// and waits at most quitGrace for it to do so.
func runLoop(ctx context.Context, p loopPings, q *taskQueue, stop func()) {
	defer q.close()
	for {
		select {
		case <-p.before:
			// Wait for the event callbacks to finish.
			<-p.after
		case <-q.ready:
			for _, fn := range q.drain() {
				fn()
			}
		case <-ctx.Done():
			stop()
			timer := time.NewTimer(quitGrace)
			defer timer.Stop()
			for {
				select {
				case <-p.before:
					<-p.after
				case <-p.quit:
					return
				case <-timer.C:
					return
				}
			}
		case <-p.quit:
			return
		}
	}
}

// taskQueue is an unbounded FIFO of loop tasks. ready holds a token
// whenever fns may be non-empty.
type taskQueue struct {
	mu     sync.Mutex
	fns    []func()
	closed bool
	ready  chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{ready: make(chan struct{}, 1)}
}

func (q *taskQueue) push(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.fns = append(q.fns, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *taskQueue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.fns
	q.fns = nil
	return fns
}

func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.fns = nil
}

// Quit stops the event loop. It is safe to call from any goroutine.
func (c *Connection) Quit() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
