package policy

import "context"

type memoKey struct{}

// Memo remembers task ownership for the lifetime of one request so that
// repeated view checks on the same task hit the store once. It is created
// when the request starts and dropped with it; nothing is shared across
// requests.
type Memo struct {
	owners map[uint64]Ownership
}

// NewMemo returns an empty memo.
func NewMemo() *Memo {
	return &Memo{owners: make(map[uint64]Ownership)}
}

// WithMemo attaches a fresh memo to ctx.
func WithMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, memoKey{}, NewMemo())
}

// MemoFrom returns the memo attached to ctx, or nil. A nil memo is valid
// and never remembers anything.
func MemoFrom(ctx context.Context) *Memo {
	m, _ := ctx.Value(memoKey{}).(*Memo)
	return m
}

// Lookup returns the remembered ownership of a task.
func (m *Memo) Lookup(taskID uint64) (Ownership, bool) {
	if m == nil {
		return Ownership{}, false
	}
	o, ok := m.owners[taskID]
	return o, ok
}

// Remember stores the ownership of a task.
func (m *Memo) Remember(taskID uint64, o Ownership) {
	if m == nil {
		return
	}
	m.owners[taskID] = o
}

// Forget drops a task after it has been mutated or deleted.
func (m *Memo) Forget(taskID uint64) {
	if m == nil {
		return
	}
	delete(m.owners, taskID)
}
