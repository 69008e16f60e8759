package gpio

import "sync"

// FakePin is a Pin for tests. It records every transition and can be made
// to fail on demand.
type FakePin struct {
	mu          sync.Mutex
	engaged     bool
	closed      bool
	transitions []bool

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

func (p *FakePin) Set(engaged bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SetErr != nil {
		return p.SetErr
	}

	p.engaged = engaged
	p.transitions = append(p.transitions, engaged)
	return nil
}

func (p *FakePin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.engaged = false
	p.closed = true
	return nil
}

// Engaged reports the current state of the fake relay.
func (p *FakePin) Engaged() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engaged
}

// Closed reports whether Close was called.
func (p *FakePin) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// History returns every Set value in order.
func (p *FakePin) History() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.transitions...)
}
