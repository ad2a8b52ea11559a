package scratch

import "github.com/chazu/maggie/value"

// List is (id, name, owning target, ordered sequence of Values) — §3.
type List struct {
	entity
	name   string
	target ITarget
	items  []value.Value
}

// NewList constructs an empty List.
func NewList(id, name string) *List {
	return &List{entity: entity{id: id}, name: name}
}

func (l *List) Name() string        { return l.name }
func (l *List) SetName(n string)    { l.name = n }
func (l *List) Target() ITarget     { return l.target }
func (l *List) SetTarget(t ITarget) { l.target = t }
func (l *List) Len() int            { return len(l.items) }

// At returns the 0-indexed item, or the empty value if out of bounds (§4.3
// "Failure semantics": out-of-bounds list indexing returns the empty value).
func (l *List) At(i int) value.Value {
	if i < 0 || i >= len(l.items) {
		return value.Empty()
	}
	return l.items[i]
}

func (l *List) Set(i int, v value.Value) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = v
	return true
}

func (l *List) Append(v value.Value) { l.items = append(l.items, v) }

func (l *List) Insert(i int, v value.Value) bool {
	if i < 0 || i > len(l.items) {
		return false
	}
	l.items = append(l.items, value.Value{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	return true
}

func (l *List) Delete(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

func (l *List) Clear() { l.items = l.items[:0] }

// IndexOf returns the 1-based index of v in the list, or 0 if not present,
// matching Scratch's "item # of" reporter.
func (l *List) IndexOf(v value.Value) int {
	for i, item := range l.items {
		if value.Equal(item, v) {
			return i + 1
		}
	}
	return 0
}

func (l *List) Contains(v value.Value) bool { return l.IndexOf(v) != 0 }

// Values returns the backing slice; callers must not mutate it.
func (l *List) Values() []value.Value { return l.items }

// Clone returns a deep value copy of the list under a new owning target.
func (l *List) Clone() *List {
	nl := NewList(l.id, l.name)
	nl.items = make([]value.Value, len(l.items))
	copy(nl.items, l.items)
	return nl
}
