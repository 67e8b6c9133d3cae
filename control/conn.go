package control

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// connState is the Connection lifecycle flag.
type connState int

const (
	stateOpening connState = iota
	stateAuthenticated
	stateClosing
	stateClosed
)

// Connection is a persistent, authenticated control-port session to a
// single Tor process, wired end to end: socket -> line framer -> message
// assembler -> dispatcher -> (command pipeline | event subscribers).
//
// Exactly one goroutine (the read loop started by Open) owns the framer,
// assembler, and dispatch step; everything it touches directly is
// unsynchronized by design. The command pipeline and dispatcher
// registration are separately synchronized so callers may submit
// commands or subscribe to events from any goroutine.
type Connection struct {
	endpoint string
	netConn  net.Conn
	logger   *slog.Logger
	disp     *dispatcher
	pipeline *commandPipeline
	errSink  func(error)

	mu    sync.Mutex
	state connState

	closeOnce sync.Once
}

// Open dials addr ("host:port"), authenticates with password, subscribes
// to STREAM and CIRC events, and returns a ready Connection. errSink
// receives transport failures exactly once per failure; if
// nil, failures are only logged. logger defaults to slog.Default(),
// always wrapped in a redacting handler so the password never reaches
// the log.
func Open(addr, password string, logger *slog.Logger, errSink func(error)) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = slog.New(NewRedactingHandler(logger.Handler()))

	netConn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("control: dial %s: %w", addr, err)
	}

	c := &Connection{
		endpoint: addr,
		netConn:  netConn,
		logger:   logger,
		disp:     &dispatcher{},
		errSink:  errSink,
		state:    stateOpening,
	}
	c.pipeline = newCommandPipeline(c.writeLine)

	// Default routing: 2xx/4xx/5xx to the command pipeline, 650 to
	// whatever event subscriptions are registered.
	c.disp.register(isSyncReply, func(msg string) {
		c.pipeline.deliver(parseReply(msg))
	})

	go c.readLoop()

	logger.Info("control connection opening", "addr", addr)

	if err := c.authenticateSync(password); err != nil {
		_ = netConn.Close()
		c.setState(stateClosed)
		return nil, fmt.Errorf("control: authenticate: %w", err)
	}
	c.setState(stateAuthenticated)

	if err := c.setEventsSync("stream circ"); err != nil {
		_ = netConn.Close()
		c.setState(stateClosed)
		return nil, fmt.Errorf("control: setevents: %w", err)
	}

	logger.Info("control connection ready", "addr", addr)
	return c, nil
}

// isSyncReply classifies a message as belonging to the command pipeline
// rather than the event subsystem: everything except the 650 status
// class.
func isSyncReply(msg string) bool {
	return statusPrefix(msg) != "650"
}

// authenticateSync submits "AUTHENTICATE <password>" and blocks for its
// reply. Authentication is the first item ever queued on a fresh
// connection, so from the caller's perspective it behaves synchronously
// even though the pipeline's submission path is non-blocking.
func (c *Connection) authenticateSync(password string) error {
	done := make(chan Reply, 1)
	c.pipeline.submit("AUTHENTICATE "+password, func(r Reply) { done <- r })
	r := <-done
	if r.Err != nil {
		return r.Err
	}
	return nil
}

func (c *Connection) setEventsSync(eventsArg string) error {
	done := make(chan Reply, 1)
	c.pipeline.submit("SETEVENTS "+eventsArg, func(r Reply) { done <- r })
	r := <-done
	return r.Err
}

// submitSync submits a command and blocks for its reply. This is the
// blocking convenience wrapper the façade uses; the underlying pipeline
// submission itself never blocks on I/O.
func (c *Connection) submitSync(text string) Reply {
	done := make(chan Reply, 1)
	c.pipeline.submit(text, func(r Reply) { done <- r })
	return <-done
}

// watchEvent installs a dispatcher predicate for "650 <type> " messages
// and returns a deregistration handle.
func (c *Connection) watchEvent(eventType string, filter func(EventRecord) bool, handler func(EventRecord)) func() {
	pred := eventPredicate(eventType)
	return c.disp.register(pred, func(msg string) {
		rec := parseEventParams(eventPayload(eventType, msg))
		rec.Type = eventType
		if filter == nil || filter(rec) {
			handler(rec)
		}
	})
}

func (c *Connection) writeLine(text string) error {
	_, err := c.netConn.Write([]byte(text + "\r\n"))
	return err
}

func (c *Connection) setState(s connState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Connection) currentState() connState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// readLoop is the single goroutine that owns the socket read path, the
// line framer, the message assembler, and dispatch.
func (c *Connection) readLoop() {
	r := bufio.NewReaderSize(c.netConn, 4096)
	framer := &lineFramer{}
	assembler := &messageAssembler{}
	buf := make([]byte, 4096)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, line := range framer.feed(buf[:n]) {
				if msg, complete := assembler.feed(line); complete {
					c.disp.dispatch(msg)
				}
			}
		}
		if err != nil {
			c.handleTransportError(err)
			return
		}
	}
}

func (c *Connection) handleTransportError(err error) {
	c.mu.Lock()
	alreadyClosed := c.state == stateClosed
	c.state = stateClosed
	c.mu.Unlock()

	if alreadyClosed {
		return
	}

	wrapped := fmt.Errorf("control: transport error: %w", err)
	c.logger.Warn("transport error", "addr", c.endpoint, "error", err)
	c.pipeline.close()

	if c.errSink != nil {
		c.errSink(wrapped)
	} else {
		c.logger.Error("unhandled transport error", "error", wrapped)
	}
}

// Close tears down the socket and drains the command queue, notifying
// every pending sink with ErrConnectionLost. Idempotent.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.setState(stateClosing)
		err = c.netConn.Close()
		c.pipeline.close()
		c.setState(stateClosed)
		c.logger.Info("control connection closed", "addr", c.endpoint)
	})
	return err
}

// Endpoint returns the "host:port" this connection was opened against.
func (c *Connection) Endpoint() string { return c.endpoint }
