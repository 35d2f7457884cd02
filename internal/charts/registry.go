package charts

import "log"

// Disposable is any visualization handle that can release its rendering
// state. Dispose may be called at most once by the registry.
type Disposable interface {
	Dispose() error
}

// Resizable is implemented by handles that can adapt to a new surface size.
type Resizable interface {
	Resize(width, height int)
}

type slotState struct {
	handle Disposable
	seq    uint64
}

// Registry tracks at most one live visualization handle per slot id and owns
// handle teardown. All mutation happens on the UI update goroutine; there is
// no interleaving within a synchronous call, so no lock is held.
//
// Installs carry a monotonic sequence number so that interleaved async loads
// cannot leave a stale chart visible: a slow response that resolves after a
// newer install is rejected instead of clobbering it.
type Registry struct {
	slots    map[string]slotState
	surfaces map[string]Disposable
	attached func(slotID string) bool
	lastSeq  uint64
	logf     func(format string, args ...any)
}

// NewRegistry builds a registry. attached reports whether a slot's backing
// surface is still part of the live layout; nil means "always attached".
func NewRegistry(attached func(slotID string) bool) *Registry {
	return &Registry{
		slots:    make(map[string]slotState),
		surfaces: make(map[string]Disposable),
		attached: attached,
		logf:     log.Printf,
	}
}

// SetLogf replaces the failure logger (tests).
func (r *Registry) SetLogf(fn func(format string, args ...any)) {
	if fn != nil {
		r.logf = fn
	}
}

// NextSeq issues the sequence number for an install. Callers grab it when
// they start a data load, not when the load resolves.
func (r *Registry) NextSeq() uint64 {
	r.lastSeq++
	return r.lastSeq
}

// Install binds handle to slotID, disposing any prior occupant first.
// Disposal errors are swallowed and logged so one broken chart cannot block
// another. An install whose seq is lower than the slot's last accepted seq is
// stale: the incoming handle is disposed and the slot left untouched.
// Returns whether the handle was bound.
func (r *Registry) Install(slotID string, seq uint64, handle Disposable) bool {
	if handle == nil {
		return false
	}

	if prev, ok := r.slots[slotID]; ok {
		if seq < prev.seq {
			r.logf("chart: slot=%s stale install rejected seq=%d last=%d", slotID, seq, prev.seq)
			r.dispose(slotID, handle)
			return false
		}
		r.dispose(slotID, prev.handle)
	}

	r.slots[slotID] = slotState{handle: handle, seq: seq}
	r.surfaces[slotID] = handle
	return true
}

// Remove disposes and unbinds the slot's handle. Removing an empty slot is a
// no-op.
func (r *Registry) Remove(slotID string) {
	if s, ok := r.slots[slotID]; ok {
		r.dispose(slotID, s.handle)
		delete(r.slots, slotID)
	}
	delete(r.surfaces, slotID)
}

// RemoveAll tears down every slot (page navigation).
func (r *Registry) RemoveAll() {
	for id := range r.slots {
		r.Remove(id)
	}
}

// Handle returns the live handle for slotID, or nil.
func (r *Registry) Handle(slotID string) Disposable {
	return r.slots[slotID].handle
}

// Len returns the number of bound slots.
func (r *Registry) Len() int { return len(r.slots) }

// ResizeAll resizes every bound handle that (a) still has an attached
// surface and (b) is resizable. Detached surfaces are skipped with a log
// line: detachment happens routinely during navigation and must never
// surface as an error. Resize panics are contained per slot.
func (r *Registry) ResizeAll(width, height int) {
	for id, s := range r.slots {
		if r.attached != nil && !r.attached(id) {
			r.logf("chart: slot=%s resize skipped, surface detached", id)
			continue
		}
		res, ok := s.handle.(Resizable)
		if !ok {
			continue
		}
		r.safeResize(id, res, width, height)
	}
}

// Adopt records a handle created directly against a surface without going
// through Install, so that DisposeSurface can still find and destroy it.
func (r *Registry) Adopt(slotID string, handle Disposable) {
	if handle == nil {
		return
	}
	if _, registered := r.slots[slotID]; registered {
		return
	}
	r.surfaces[slotID] = handle
}

// DisposeSurface destroys whatever visualization is bound to the surface,
// registered or not. Looking up by surface identity protects against callers
// that bypassed Install.
func (r *Registry) DisposeSurface(slotID string) {
	if s, ok := r.slots[slotID]; ok {
		r.dispose(slotID, s.handle)
		delete(r.slots, slotID)
		delete(r.surfaces, slotID)
		return
	}
	if h, ok := r.surfaces[slotID]; ok {
		r.dispose(slotID, h)
		delete(r.surfaces, slotID)
	}
}

func (r *Registry) dispose(slotID string, h Disposable) {
	defer func() {
		if p := recover(); p != nil {
			r.logf("chart: slot=%s dispose panic=%v", slotID, p)
		}
	}()
	if err := h.Dispose(); err != nil {
		r.logf("chart: slot=%s dispose failed err=%v", slotID, err)
	}
}

func (r *Registry) safeResize(slotID string, res Resizable, w, h int) {
	defer func() {
		if p := recover(); p != nil {
			r.logf("chart: slot=%s resize panic=%v", slotID, p)
		}
	}()
	res.Resize(w, h)
}
