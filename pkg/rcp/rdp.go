// Package rcp models the console's coprocessors: the display-list command
// processor (RDP) and the signal processor (RSP). Both are simulation stubs
// driven through direct submit entry points rather than reverse-engineered
// from memory traffic.
package rcp

import "sync"

// RDP command words are consumed in (high, low) pairs. The command type
// lives in bits [29:24] of the high word; the inclusive range below is
// reserved for the triangle-drawing commands.
const (
	CmdTriangleMin = 0x08
	CmdTriangleMax = 0x0F
)

// RDP is the display-list command processor. It accounts completed
// triangle primitives; actual rasterization is out of scope and the frame
// output is a procedural placeholder (see frame.go).
type RDP struct {
	mu        sync.Mutex
	queue     []uint32
	triangles uint64
}

// NewRDP returns an empty command processor.
func NewRDP() *RDP {
	return &RDP{}
}

// Submit appends one command word. Once a pair has accumulated it is
// interpreted and the queue is cleared, whether or not the command type was
// recognized; unknown pairs are dropped without error.
func (r *RDP) Submit(word uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue = append(r.queue, word)
	if len(r.queue) < 2 {
		return
	}

	high := r.queue[0]
	cmd := (high >> 24) & 0x3F
	if cmd >= CmdTriangleMin && cmd <= CmdTriangleMax {
		r.triangles++
	}
	r.queue = r.queue[:0]
}

// Triangles returns the number of triangle primitives completed since
// construction. Safe to call while the emulation loop is submitting.
func (r *RDP) Triangles() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.triangles
}

// Pending returns the number of buffered command words (0 or 1).
func (r *RDP) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
