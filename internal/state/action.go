package state

// Action is anything dispatched through a Store. Its Type selects the
// reducers that apply and the bus filters that match.
type Action interface {
	Type() string
}

// Envelope is the Action produced by a Creator: a type string plus a
// typed payload.
type Envelope[P any] struct {
	kind    string
	Payload P
}

// Type implements Action.
func (e Envelope[P]) Type() string { return e.kind }

// Data returns the payload untyped.
func (e Envelope[P]) Data() any { return e.Payload }

// Carrier is an Action whose payload can be read without knowing its type.
type Carrier interface {
	Action
	Data() any
}

// PayloadOf returns a's payload, or nil when a carries none.
func PayloadOf(a Action) any {
	if c, ok := a.(Carrier); ok {
		return c.Data()
	}
	return nil
}

// Empty is the payload of actions that carry nothing.
type Empty = struct{}

// Creator builds actions of one type. An optional prepare function runs on
// every payload before it is wrapped, so creators can stamp ids or
// normalize input.
type Creator[P any] struct {
	kind    string
	prepare func(P) P
}

// NewAction returns a creator whose payload is used as given.
func NewAction[P any](kind string) Creator[P] {
	return Creator[P]{kind: kind}
}

// NewActionWith returns a creator that runs prepare on each payload.
func NewActionWith[P any](kind string, prepare func(P) P) Creator[P] {
	return Creator[P]{kind: kind, prepare: prepare}
}

// New builds an action.
func (c Creator[P]) New(p P) Envelope[P] {
	if c.prepare != nil {
		p = c.prepare(p)
	}
	return Envelope[P]{kind: c.kind, Payload: p}
}

// Type returns the type string of actions built by c.
func (c Creator[P]) Type() string { return c.kind }

// Match extracts the payload if a was built by a creator of the same type.
func (c Creator[P]) Match(a Action) (P, bool) {
	if a == nil || a.Type() != c.kind {
		var zero P
		return zero, false
	}
	env, ok := a.(Envelope[P])
	if !ok {
		var zero P
		return zero, false
	}
	return env.Payload, true
}
