package device

import (
	"fmt"
	"strings"
	"time"
)

// Exchange is one request and its raw response.
type Exchange struct {
	Time     time.Time
	Request  string
	Response string
	Err      error
}

func (x Exchange) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "> %s", x.Request)
	if x.Response != "" {
		fmt.Fprintf(&b, "\n< %s", strings.ReplaceAll(x.Response, "\n", "\n< "))
	}
	if x.Err != nil {
		fmt.Fprintf(&b, "\n! %v", x.Err)
	}
	return b.String()
}

// transcript keeps the most recent exchanges.
type transcript struct {
	capacity int
	list     []Exchange
}

func (t *transcript) add(x Exchange) {
	if len(t.list) == t.capacity {
		copy(t.list, t.list[1:])
		t.list = t.list[:len(t.list)-1]
	}
	t.list = append(t.list, x)
}

func (t *transcript) snapshot() []Exchange {
	return append([]Exchange(nil), t.list...)
}

// ProtocolError describes a response that could not be parsed.
type ProtocolError struct {
	Request  string
	Response string
	Reason   string

	// Transcript contains exchanges preceding and including the failed one.
	Transcript []Exchange
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s: %q -> %q", ErrProtocol, e.Reason, e.Request, e.Response)
}

// Unwrap returns ErrProtocol.
func (e *ProtocolError) Unwrap() error {
	return ErrProtocol
}
