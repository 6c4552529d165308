package battle

import "sync"

// opClass identifies the request classes that must be serialized per
// player: starting combat, stopping it, and chaining to the next
// encounter after a kill.
type opClass int

const (
	opStart opClass = iota
	opStop
	opAdvance
)

func (o opClass) String() string {
	switch o {
	case opStart:
		return "start"
	case opStop:
		return "stop"
	default:
		return "advance"
	}
}

// handle は実行中オペレーションの共有結果です。done が閉じた後に
// err が読めます。
type handle struct {
	done chan struct{}
	err  error
}

// Done is closed when the operation completes.
func (h *handle) Done() <-chan struct{} {
	return h.done
}

// Err is valid after Done is closed.
func (h *handle) Err() error {
	return h.err
}

// registry is a per-player single-flight table: at most one in-flight
// handle per (player, class). Concurrent callers of the same class share
// one execution and outcome; competing classes can observe each other's
// in-flight handles before proceeding.
type registry struct {
	mu      sync.Mutex
	flights map[string]map[opClass]*handle
}

func newRegistry() *registry {
	return &registry{flights: make(map[string]map[opClass]*handle)}
}

// Do executes fn unless an operation of the same class is already in
// flight for the player, in which case it awaits and returns that
// operation's outcome instead.
func (r *registry) Do(playerID string, class opClass, fn func() error) error {
	r.mu.Lock()
	byClass := r.flights[playerID]
	if byClass == nil {
		byClass = make(map[opClass]*handle)
		r.flights[playerID] = byClass
	}
	if h := byClass[class]; h != nil {
		r.mu.Unlock()
		<-h.done
		return h.err
	}
	h := &handle{done: make(chan struct{})}
	byClass[class] = h
	r.mu.Unlock()

	h.err = fn()

	r.mu.Lock()
	delete(byClass, class)
	if len(byClass) == 0 {
		delete(r.flights, playerID)
	}
	r.mu.Unlock()
	close(h.done)
	return h.err
}

// InFlight reports whether an operation of the given class is currently
// executing for the player.
func (r *registry) InFlight(playerID string, class opClass) (*handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.flights[playerID][class]
	return h, h != nil
}
