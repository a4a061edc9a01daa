package util

import "sync"

// SignalHandler receives the emitting object plus any extra arguments.
type SignalHandler func(sender any, params ...any)

// SignalHub is a tiny in-process pub/sub used to decouple model events
// (user created, record deleted, ...) from their side effects.
type SignalHub struct {
	mu       sync.RWMutex
	handlers map[string][]SignalHandler
}

var (
	sigOnce sync.Once
	sigHub  *SignalHub
)

// Sig returns the process-wide signal hub.
func Sig() *SignalHub {
	sigOnce.Do(func() {
		sigHub = &SignalHub{handlers: make(map[string][]SignalHandler)}
	})
	return sigHub
}

func (h *SignalHub) Connect(signal string, fn SignalHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[signal] = append(h.handlers[signal], fn)
}

func (h *SignalHub) Emit(signal string, sender any, params ...any) {
	h.mu.RLock()
	fns := append([]SignalHandler(nil), h.handlers[signal]...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(sender, params...)
	}
}
