package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ShikharGupta-75/Video-Call-translator/flow"
	"github.com/ShikharGupta-75/Video-Call-translator/pic"
)

// ErrClosed reports that the transport was shut down while an
// operation was waiting. It marks an orderly exit, not a failure.
var ErrClosed = errors.New("wire: transport closed")

// Config wires a transport to the rest of the call.
type Config struct {
	Role Role

	// ListenAddr is the bind address for the host role.
	ListenAddr string
	// PeerAddr is the dial address for the client role.
	PeerAddr string

	// IOTimeout caps every socket operation so the loops recheck the
	// shutdown flag at a steady cadence. Defaults to 100ms.
	IOTimeout time.Duration
	// Poll is the outbound queue poll interval. Defaults to 10ms.
	Poll time.Duration
	// DialTimeout caps the client connect. Defaults to 5s.
	DialTimeout time.Duration

	// Outbound is drained by the send loop.
	Outbound *flow.Queue[Message]
	// Remote receives every decoded inbound frame, newest wins.
	Remote *flow.Cell[*pic.Frame]
	// Running is polled by every loop; clearing it stops the transport.
	Running *flow.Flag
	// OnText is called with every inbound transcript line.
	OnText func(string)

	Log *log.Logger
}

// Transport owns the TCP connection to the peer and the two loops
// that pump it. Host transports bind their listener at construction
// time so port problems surface before the call starts.
type Transport struct {
	cfg     Config
	session *Session

	mu   sync.Mutex
	ln   net.Listener
	conn net.Conn

	closed    atomic.Bool
	closeOnce sync.Once
}

// New validates the config and, for the host role, binds the listener.
func New(cfg Config) (*Transport, error) {
	if cfg.Outbound == nil || cfg.Remote == nil || cfg.Running == nil {
		return nil, errors.New("wire: config needs outbound queue, remote cell and running flag")
	}
	if cfg.Log == nil {
		cfg.Log = log.Default()
	}
	if cfg.OnText == nil {
		cfg.OnText = func(string) {}
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = 100 * time.Millisecond
	}
	if cfg.Poll <= 0 {
		cfg.Poll = 10 * time.Millisecond
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	t := &Transport{cfg: cfg, session: newSession(cfg.Role, cfg.Log)}
	if cfg.Role == RoleHost {
		ln, err := net.Listen("tcp", cfg.ListenAddr)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
		}
		t.ln = ln
	}
	return t, nil
}

func (t *Transport) Session() *Session {
	return t.session
}

// Addr is the bound listen address, or nil for the client role.
func (t *Transport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln == nil {
		return nil
	}
	return t.ln.Addr()
}

// Connect blocks until a peer is on the other end: the host waits for
// an inbound connection, the client dials out. It returns ErrClosed
// when shut down while waiting.
func (t *Transport) Connect(ctx context.Context) error {
	t.session.advance(StateConnecting)

	var (
		conn net.Conn
		err  error
	)
	if t.cfg.Role == RoleHost {
		conn, err = t.accept(ctx)
	} else {
		conn, err = t.dial(ctx)
	}
	if err != nil {
		t.session.advance(StateClosed)
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	t.session.advance(StateConnected)
	t.cfg.Log.Info("peer connected", "session", t.session.ID, "remote", conn.RemoteAddr())
	return nil
}

func (t *Transport) accept(ctx context.Context) (net.Conn, error) {
	ln, ok := t.ln.(*net.TCPListener)
	if !ok {
		return nil, errors.New("wire: host transport has no listener")
	}
	t.cfg.Log.Info("waiting for peer", "addr", ln.Addr())
	for {
		if t.done(ctx) {
			return nil, ErrClosed
		}
		ln.SetDeadline(time.Now().Add(t.cfg.IOTimeout))
		conn, err := ln.Accept()
		if err == nil {
			return conn, nil
		}
		if isTimeout(err) {
			continue
		}
		if t.closed.Load() || errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
}

func (t *Transport) dial(ctx context.Context) (net.Conn, error) {
	t.cfg.Log.Info("connecting to peer", "addr", t.cfg.PeerAddr)
	d := net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.cfg.PeerAddr)
	if err != nil {
		if ctx.Err() != nil || t.closed.Load() {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("connect to %s: %w", t.cfg.PeerAddr, err)
	}
	return conn, nil
}

// Run pumps the send and receive loops until the running flag drops,
// the context is canceled, or the stream fails. The connection is
// closed on the way out regardless of the cause. Errors from Run mean
// the transport died; the rest of the call is unaffected and decides
// for itself whether to carry on.
func (t *Transport) Run(ctx context.Context) error {
	if t.connection() == nil {
		return errors.New("wire: transport is not connected")
	}
	defer t.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.sendLoop(ctx) })
	g.Go(func() error { return t.recvLoop(ctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}

func (t *Transport) sendLoop(ctx context.Context) error {
	for !t.done(ctx) {
		m, ok := t.cfg.Outbound.Pop()
		if !ok {
			time.Sleep(t.cfg.Poll)
			continue
		}
		if err := t.send(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// send writes one message, resuming across write deadlines so a slow
// reader can never shear a message in half. A reset or broken pipe
// before the first byte costs only that message; once part of a
// message is out, any failure leaves the stream unframeable and
// terminates the transport.
func (t *Transport) send(ctx context.Context, m Message) error {
	conn := t.connection()
	b := Encode(m)
	off := 0
	for off < len(b) {
		if t.done(ctx) {
			return nil
		}
		conn.SetWriteDeadline(time.Now().Add(t.cfg.IOTimeout))
		n, err := conn.Write(b[off:])
		off += n
		switch {
		case err == nil:
		case isTimeout(err):
		case off == 0 && isConnGone(err):
			t.cfg.Log.Debug("dropped outbound message", "type", m.Type, "error", err)
			return nil
		default:
			if t.closed.Load() || errors.Is(err, net.ErrClosed) {
				return ErrClosed
			}
			return fmt.Errorf("send %s after %d of %d bytes: %w", m.Type, off, len(b), err)
		}
	}
	return nil
}

func (t *Transport) recvLoop(ctx context.Context) error {
	hdr := make([]byte, HeaderSize)
	for !t.done(ctx) {
		n, err := t.fill(ctx, hdr)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			if n == 0 && errors.Is(err, io.EOF) {
				t.cfg.Log.Info("peer closed the connection", "session", t.session.ID)
				return nil
			}
			t.cfg.Log.Warn("discarding incomplete header", "got", n, "error", err)
			return fmt.Errorf("read header: %w", err)
		}

		typ, size, err := DecodeHeader(hdr)
		if err != nil {
			return fmt.Errorf("corrupt stream: %w", err)
		}

		payload := make([]byte, size)
		n, err = t.fill(ctx, payload)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			t.cfg.Log.Warn("discarding incomplete message",
				"type", typ, "got", n, "want", size, "error", err)
			return fmt.Errorf("read %s payload: %w", typ, err)
		}

		t.dispatch(Message{Type: typ, Payload: payload})
	}
	return nil
}

// fill reads exactly len(buf) bytes, resuming after every read
// deadline so the shutdown flag is rechecked at the io timeout
// cadence. Partial progress survives the deadline ticks; only a real
// stream error abandons it.
func (t *Transport) fill(ctx context.Context, buf []byte) (int, error) {
	conn := t.connection()
	off := 0
	for off < len(buf) {
		if t.done(ctx) {
			return off, ErrClosed
		}
		conn.SetReadDeadline(time.Now().Add(t.cfg.IOTimeout))
		n, err := conn.Read(buf[off:])
		off += n
		if err == nil || isTimeout(err) {
			continue
		}
		if t.closed.Load() || errors.Is(err, net.ErrClosed) {
			return off, ErrClosed
		}
		return off, err
	}
	return off, nil
}

func (t *Transport) dispatch(m Message) {
	switch m.Type {
	case TypeText:
		text := string(m.Payload)
		t.cfg.Log.Info("received text", "session", t.session.ID, "text", text)
		t.cfg.OnText(text)
	case TypeVideo:
		f, err := pic.Unmarshal(m.Payload)
		if err != nil {
			t.cfg.Log.Error("dropping corrupt frame", "error", err)
			return
		}
		t.cfg.Remote.Set(f)
	default:
		t.cfg.Log.Warn("skipping unknown message", "type", m.Type, "bytes", len(m.Payload))
	}
}

// Close tears the transport down. It is safe to call from any
// goroutine and more than once; pending socket operations fail over
// to ErrClosed.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.mu.Lock()
		if t.conn != nil {
			t.conn.Close()
		}
		if t.ln != nil {
			t.ln.Close()
		}
		t.mu.Unlock()
		t.session.advance(StateClosed)
		t.cfg.Log.Debug("transport closed", "session", t.session.ID)
	})
	return nil
}

func (t *Transport) connection() net.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}

func (t *Transport) done(ctx context.Context) bool {
	return t.closed.Load() || !t.cfg.Running.Get() || ctx.Err() != nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isConnGone matches the peer-vanished errors: connection reset and
// broken pipe.
func isConnGone(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE)
}
