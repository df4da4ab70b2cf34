// Package devicetest provides a scripted hybrid switch control socket for tests.
package devicetest

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/gabstv/freeport"
)

// Banner is the greeting sent on each connection.
const Banner = "Click::ControlSocket/1.3"

// Fault alters the response of a request.
// n is the 1-based sequence number of the request among requests of the same operation (READ or WRITE).
// It returns the raw response to send, or false to respond normally.
type Fault func(op string, n int, line string) (response string, ok bool)

// Device is a fake control socket listening on a loopback TCP port.
type Device struct {
	Addr string

	listener  net.Listener
	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once

	mutex  sync.Mutex
	values map[string]int64
	lines  []string
	nOps   map[string]int
	fault  Fault
}

// New starts a fake device. It is stopped during test cleanup.
func New(t testing.TB) *Device {
	port, e := freeport.TCP()
	if e != nil {
		t.Fatal(e)
	}
	listener, e := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if e != nil {
		t.Fatal(e)
	}

	d := &Device{
		Addr:     listener.Addr().String(),
		listener: listener,
		done:     make(chan struct{}),
		values:   map[string]int64{},
		nOps:     map[string]int{},
	}
	d.wg.Add(1)
	go d.acceptLoop()
	t.Cleanup(d.Close)
	return d
}

// Close stops the device and waits for connections to end.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.listener.Close()
	})
	d.wg.Wait()
}

// SetValue assigns the value returned by READ of element.handler.
func (d *Device) SetValue(target string, value int64) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.values[target] = value
}

// SetFault installs a fault injector.
func (d *Device) SetFault(fault Fault) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.fault = fault
}

// Lines returns received request lines.
func (d *Device) Lines() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]string(nil), d.lines...)
}

// Count returns how many received lines start with prefix.
func (d *Device) Count(prefix string) (n int) {
	for _, line := range d.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (d *Device) acceptLoop() {
	defer d.wg.Done()
	for {
		conn, e := d.listener.Accept()
		if e != nil {
			return
		}
		d.wg.Add(1)
		go d.serve(conn)
	}
}

func (d *Device) serve(conn net.Conn) {
	defer d.wg.Done()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-d.done:
		case <-stop:
		}
		conn.Close()
	}()

	fmt.Fprintf(conn, "%s\r\n", Banner)
	rd := bufio.NewReader(conn)
	for {
		line, e := rd.ReadString('\n')
		if e != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if _, e := conn.Write([]byte(d.respond(line))); e != nil {
			return
		}
	}
}

func (d *Device) respond(line string) string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.lines = append(d.lines, line)

	op, rest, _ := strings.Cut(line, " ")
	d.nOps[op]++
	if d.fault != nil {
		if response, ok := d.fault(op, d.nOps[op], line); ok {
			return response
		}
	}

	target, _, _ := strings.Cut(rest, " ")
	switch op {
	case "WRITE":
		return fmt.Sprintf("200 Write handler '%s' OK\r\n", target)
	case "READ":
		value := fmt.Sprint(d.values[target])
		return fmt.Sprintf("200 Read handler '%s' OK\r\nDATA %d\r\n%s", target, len(value), value)
	default:
		return fmt.Sprintf("510 Syntax error: unknown command '%s'\r\n", op)
	}
}
