// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

// Pool owns every Body by index, recycling removed slots via a free list
// and bumping each slot's sequence byte on removal so stale handles are
// rejected rather than silently resolved.
type Pool struct {
	slots     []*Body
	sequences []uint8
	freeList  []uint32
}

// NewPool returns an empty body pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add inserts b into the pool and returns its handle.
func (p *Pool) Add(b *Body) Handle {
	var index uint32
	if n := len(p.freeList); n > 0 {
		index = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.slots[index] = b
	} else {
		index = uint32(len(p.slots))
		p.slots = append(p.slots, b)
		p.sequences = append(p.sequences, 0)
	}
	h := NewHandle(index, p.sequences[index])
	b.SetHandle(h)
	b.pooled = false
	return h
}

// Remove marks the body's slot free and bumps its sequence byte so any
// outstanding handle referencing it is now stale.
func (p *Pool) Remove(h Handle) bool {
	idx := h.Index()
	if int(idx) >= len(p.slots) || p.slots[idx] == nil {
		return false
	}
	if p.sequences[idx] != h.Sequence() {
		return false
	}
	p.slots[idx].pooled = true
	p.slots[idx] = nil
	p.sequences[idx]++
	p.freeList = append(p.freeList, idx)
	return true
}

// Get resolves a handle to its Body, or nil if the handle is stale or
// unknown.
func (p *Pool) Get(h Handle) *Body {
	idx := h.Index()
	if int(idx) >= len(p.slots) {
		return nil
	}
	if p.sequences[idx] != h.Sequence() {
		return nil
	}
	return p.slots[idx]
}

// Len returns the number of live (non-removed) bodies.
func (p *Pool) Len() int {
	n := 0
	for _, s := range p.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Capacity returns the number of slots in the pool, live or free; every
// body index is below it, so it is the size a caller must allocate for an
// index-keyed per-body array.
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// ForEach calls fn for every live body in slot order.
func (p *Pool) ForEach(fn func(h Handle, b *Body)) {
	for idx, s := range p.slots {
		if s == nil {
			continue
		}
		fn(NewHandle(uint32(idx), p.sequences[idx]), s)
	}
}
