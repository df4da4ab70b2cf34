package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/usnistgov/hybrid-ctrl/core/emission"
	"go.uber.org/zap"
)

const eventExchange = "exchange"

// Session is a control connection to the device.
// All operations are serialized; operations issuing several requests hold the session for their whole duration.
// After an ErrConnection failure or Close, every operation fails with ErrConnection.
type Session struct {
	handlers
	cfg     Config
	conn    net.Conn
	rd      *bufio.Reader
	emitter *emission.Emitter

	mutex  sync.Mutex
	broken error
	trans  transcript
}

var _ Device = (*Session)(nil)

// Dial connects to the device and discards its greeting.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	cfg.ApplyDefaults()
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	dialer := net.Dialer{Timeout: cfg.Timeout.Duration()}
	conn, e := dialer.DialContext(ctx, cfg.Network, cfg.Address)
	if e != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, e)
	}

	s := &Session{
		cfg:     cfg,
		conn:    conn,
		rd:      bufio.NewReader(conn),
		emitter: emission.NewEmitter(),
		trans:   transcript{capacity: cfg.TranscriptLength},
	}
	s.handlers = handlers{io: s, racks: cfg.Racks}

	conn.SetReadDeadline(time.Now().Add(cfg.Timeout.Duration()))
	banner, e := s.readLine()
	if e != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: greeting: %w", ErrConnection, e)
	}
	logger.Info("connected",
		zap.String("address", cfg.Address),
		zap.String("banner", banner),
		zap.Int("racks", cfg.Racks),
	)
	return s, nil
}

// OnExchange registers a callback invoked after every exchange.
// The callback runs while the session is held and must not call session methods.
// Returns an io.Closer that cancels the callback registration.
func (s *Session) OnExchange(cb func(x Exchange)) io.Closer {
	return s.emitter.On(eventExchange, cb)
}

// Transcript returns the most recent exchanges.
func (s *Session) Transcript() []Exchange {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.trans.snapshot()
}

// Close closes the connection.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.broken == nil {
		s.broken = fmt.Errorf("%w: session closed", ErrConnection)
	}
	if s.conn == nil {
		return nil
	}
	e := s.conn.Close()
	s.conn = nil
	return e
}

// WriteHandler writes a value to a device handler and returns the acknowledgement.
func (s *Session) WriteHandler(element, handler, value string) (ack string, e error) {
	e = s.exclusive(func(handlerRW) (e error) {
		ack, e = s.doWrite(element, handler, value)
		return e
	})
	return ack, e
}

// ReadHandler reads an integer from a device handler.
func (s *Session) ReadHandler(element, handler string) (value int64, e error) {
	e = s.exclusive(func(rw handlerRW) (e error) {
		value, e = rw.read(element, handler)
		return e
	})
	return value, e
}

func (s *Session) exclusive(fn func(rw handlerRW) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.broken != nil {
		return s.broken
	}
	return fn(sessionRW{s})
}

type sessionRW struct {
	s *Session
}

func (rw sessionRW) write(element, handler, value string) error {
	_, e := rw.s.doWrite(element, handler, value)
	return e
}

func (rw sessionRW) read(element, handler string) (int64, error) {
	return rw.s.doRead(element, handler)
}

func (rw sessionRW) settle() {
	time.Sleep(rw.s.cfg.settleDelay())
}

func (s *Session) doWrite(element, handler, value string) (ack string, e error) {
	request := fmt.Sprintf("WRITE %s.%s %s", element, handler, value)
	e = s.exchange(request, func() (string, error) {
		line, e := s.readLine()
		if e != nil {
			return "", e
		}
		if line == "" {
			return line, s.protocolError(request, line, "empty acknowledgement")
		}
		ack = line
		return line, nil
	})
	return ack, e
}

func (s *Session) doRead(element, handler string) (value int64, e error) {
	request := fmt.Sprintf("READ %s.%s", element, handler)
	e = s.exchange(request, func() (string, error) {
		status, e := s.readLine()
		if e != nil {
			return "", e
		}
		if code, ok := statusCode(status); ok && code >= 300 {
			return status, s.protocolError(request, status, "device rejected read")
		}

		second, e := s.readLine()
		if e != nil {
			return status, e
		}
		raw := status + "\n" + second

		var third string
		if n, ok := dataLength(second); ok {
			buf := make([]byte, n)
			if _, e := io.ReadFull(s.rd, buf); e != nil {
				return raw, e
			}
			third = string(buf)
		} else if third, e = s.readLine(); e != nil {
			return raw, e
		}
		raw += "\n" + third

		if value, e = strconv.ParseInt(strings.TrimSpace(third), 10, 64); e != nil {
			return raw, s.protocolError(request, raw, "value is not an integer")
		}
		return raw, nil
	})
	return value, e
}

// exchange sends a request line and receives its response with recv.
// Transport errors break the session.
func (s *Session) exchange(request string, recv func() (string, error)) (e error) {
	x := Exchange{Time: time.Now(), Request: request}
	defer func() {
		x.Err = e
		s.trans.add(x)
		if pe, ok := e.(*ProtocolError); ok {
			pe.Transcript = s.trans.snapshot()
		}
		s.emitter.Emit(eventExchange, x)
		if e != nil {
			logger.Warn("exchange failed", zap.String("request", request), zap.String("response", x.Response), zap.Error(e))
		} else {
			logger.Debug("exchange", zap.String("request", request), zap.String("response", x.Response))
		}
	}()

	s.conn.SetDeadline(time.Now().Add(s.cfg.Timeout.Duration()))
	if _, e = io.WriteString(s.conn, request+"\n"); e != nil {
		return s.breakSession(e)
	}

	x.Response, e = recv()
	if _, ok := e.(*ProtocolError); e != nil && !ok {
		return s.breakSession(e)
	}
	return e
}

func (s *Session) breakSession(e error) error {
	s.broken = fmt.Errorf("%w: %w", ErrConnection, e)
	s.conn.Close()
	s.conn = nil
	return s.broken
}

func (s *Session) protocolError(request, response, reason string) *ProtocolError {
	return &ProtocolError{Request: request, Response: response, Reason: reason}
}

func (s *Session) readLine() (string, error) {
	line, e := s.rd.ReadString('\n')
	if e != nil {
		return "", e
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// statusCode extracts the numeric code of a status line such as "200 Read handler 'x' OK".
func statusCode(line string) (code int, ok bool) {
	token, _, _ := strings.Cut(line, " ")
	code, e := strconv.Atoi(token)
	return code, e == nil
}

// dataLength recognizes a "DATA <n>" line announcing n bytes of handler output.
func dataLength(line string) (n int, ok bool) {
	token, ok := strings.CutPrefix(line, "DATA ")
	if !ok {
		return 0, false
	}
	n, e := strconv.Atoi(strings.TrimSpace(token))
	return n, e == nil && n >= 0
}
