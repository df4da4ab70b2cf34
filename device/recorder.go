package device

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
)

// Command is a request recorded by Recorder.
type Command struct {
	Op     string // "READ", "WRITE", or "EXEC"
	Target string // element.handler, empty for EXEC
	Value  string // written value, or shell-quoted command line for EXEC

	// Settle indicates the request is followed by a settling wait.
	Settle bool
}

// Wire returns the request line as sent to the device.
// EXEC entries are not sent to the device.
func (cmd Command) Wire() string {
	switch cmd.Op {
	case "WRITE":
		return fmt.Sprintf("WRITE %s %s", cmd.Target, cmd.Value)
	case "EXEC":
		return "EXEC " + cmd.Value
	}
	return fmt.Sprintf("READ %s", cmd.Target)
}

// Shell returns the request as a shell-quoted word list, or the command line of an EXEC entry.
func (cmd Command) Shell() string {
	switch cmd.Op {
	case "WRITE":
		return shellquote.Join(cmd.Op, cmd.Target, cmd.Value)
	case "EXEC":
		return cmd.Value
	}
	return shellquote.Join(cmd.Op, cmd.Target)
}

// Recorder is a Device that records requests instead of sending them.
// Reads return values from Values, keyed by element.handler, or zero.
type Recorder struct {
	handlers
	Values map[string]int64

	mutex    sync.Mutex
	commands []Command
}

var _ Device = (*Recorder)(nil)

// NewRecorder creates a Recorder for a number of racks.
func NewRecorder(racks int) *Recorder {
	r := &Recorder{Values: map[string]int64{}}
	r.handlers = handlers{io: r, racks: racks}
	return r
}

// Commands returns recorded requests.
func (r *Recorder) Commands() []Command {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]Command(nil), r.commands...)
}

// Lines returns recorded request lines.
func (r *Recorder) Lines() (lines []string) {
	for _, cmd := range r.Commands() {
		lines = append(lines, cmd.Wire())
	}
	return lines
}

// Exec records an external command that runs between device requests, keeping its position in the sequence.
func (r *Recorder) Exec(args ...string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.commands = append(r.commands, Command{Op: "EXEC", Value: shellquote.Join(args...)})
}

// Reset clears recorded requests.
func (r *Recorder) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.commands = nil
}

// Index returns the position of the first recorded request whose line starts with prefix, or -1.
func (r *Recorder) Index(prefix string) int {
	for i, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}

func (r *Recorder) exclusive(fn func(rw handlerRW) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return fn(recorderRW{r})
}

type recorderRW struct {
	r *Recorder
}

func (rw recorderRW) write(element, handler, value string) error {
	rw.r.commands = append(rw.r.commands, Command{Op: "WRITE", Target: element + "." + handler, Value: value})
	return nil
}

func (rw recorderRW) read(element, handler string) (int64, error) {
	target := element + "." + handler
	rw.r.commands = append(rw.r.commands, Command{Op: "READ", Target: target})
	return rw.r.Values[target], nil
}

func (rw recorderRW) settle() {
	if n := len(rw.r.commands); n > 0 {
		rw.r.commands[n-1].Settle = true
	}
}
