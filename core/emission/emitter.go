// Package emission provides a simple event emitter.
package emission

import (
	"io"

	chuckpreslar_emission "github.com/chuckpreslar/emission"
)

// Emitter is a simple event emitter.
// This is a thin wrapper of emission.Emitter that modifies On method to return an io.Closer that cancels the callback registration.
type Emitter struct {
	*chuckpreslar_emission.Emitter
}

// NewEmitter creates a simple event emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		Emitter: chuckpreslar_emission.NewEmitter(),
	}
}

// On registers a callback when an event occurs.
// Returns an io.Closer that cancels the callback registration.
func (emitter *Emitter) On(event, listener any) io.Closer {
	emitter.Emitter.On(event, listener)
	return canceler{emitter.Emitter, event, listener}
}

// Emit invokes listeners of an event synchronously, in registration order.
func (emitter *Emitter) Emit(event any, args ...any) {
	emitter.Emitter.EmitSync(event, args...)
}

type canceler struct {
	emitter  *chuckpreslar_emission.Emitter
	event    any
	listener any
}

func (c canceler) Close() error {
	c.emitter.Off(c.event, c.listener)
	return nil
}
