// Package scroll turns document scroll positions into a normalized progress
// ratio and fans it out to subscribers.
package scroll

import (
	"math"
	"sync"
	"sync/atomic"
)

// Element holds the scroll metrics a host reports for one element.
type Element struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// Document is the pair of elements a host page exposes. Root is the
// document element; Body is consulted when Root reports zero.
type Document struct {
	Root Element
	Body Element
}

// Ratio returns scrollTop / (scrollHeight - clientHeight).
//
// scrollTop and scrollHeight are read from the root element and fall back to
// the body when the root reports zero; clientHeight always comes from the
// root. A document that cannot scroll yields NaN (or ±Inf) and is returned
// as is; callers decide how to guard.
func Ratio(doc Document) float64 {
	top := doc.Root.ScrollTop
	if top == 0 {
		top = doc.Body.ScrollTop
	}
	height := doc.Root.ScrollHeight
	if height == 0 {
		height = doc.Body.ScrollHeight
	}
	return top / (height - doc.Root.ClientHeight)
}

// Monitor delivers the scroll ratio to every subscriber on each scroll event.
// Subscribe, OnScroll and Latest are safe for concurrent use.
type Monitor struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener

	latest atomic.Uint64 // math.Float64bits of the last ratio
}

type listener struct {
	id uint64
	fn func(ratio float64)
}

// NewMonitor returns a monitor with no subscribers.
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.latest.Store(math.Float64bits(math.NaN()))
	return m
}

// Subscribe registers fn for every subsequent scroll event. The returned
// function removes the subscription; calling it more than once is a no-op.
func (m *Monitor) Subscribe(fn func(ratio float64)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { m.remove(id) })
	}
}

func (m *Monitor) remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
			return
		}
	}
}

// OnScroll handles one scroll event: it recomputes the ratio from doc and
// invokes subscribers in subscription order. Callbacks run outside the lock
// and may unsubscribe themselves.
func (m *Monitor) OnScroll(doc Document) {
	r := Ratio(doc)
	m.latest.Store(math.Float64bits(r))

	m.mu.Lock()
	fns := make([]func(float64), len(m.listeners))
	for i, l := range m.listeners {
		fns[i] = l.fn
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(r)
	}
}

// Latest returns the most recently dispatched ratio, or NaN before the
// first scroll event.
func (m *Monitor) Latest() float64 {
	return math.Float64frombits(m.latest.Load())
}

// Len returns the number of active subscriptions.
func (m *Monitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}
