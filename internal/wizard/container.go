package wizard

type Kind string

const (
	KindList Kind = "list"
	KindEdit Kind = "edit"
)

// State is either list mode or edit mode; an edit with a nil entity is a create.
type State[T any] struct {
	kind   Kind
	entity *T
}

func listState[T any]() State[T] { return State[T]{kind: KindList} }

func editState[T any](entity *T) State[T] { return State[T]{kind: KindEdit, entity: entity} }

func (s State[T]) Kind() Kind { return s.kind }

// Entity is the item being edited; nil in list mode and when creating.
func (s State[T]) Entity() *T { return s.entity }

func (s State[T]) Creating() bool { return s.kind == KindEdit && s.entity == nil }

// Container switches one section between its list and its edit form.
type Container[T any] struct {
	state  State[T]
	toList func()
}

// NewContainer starts in list mode. toList runs whenever the form is
// left, so the list knows to refetch.
func NewContainer[T any](toList func()) *Container[T] {
	return &Container[T]{state: listState[T](), toList: toList}
}

func (c *Container[T]) State() State[T] { return c.state }

func (c *Container[T]) Add() { c.state = editState[T](nil) }

func (c *Container[T]) Edit(entity T) { c.state = editState(&entity) }

func (c *Container[T]) OnSaved() { c.leave() }

func (c *Container[T]) OnBack() { c.leave() }

func (c *Container[T]) leave() {
	c.state = listState[T]()
	if c.toList != nil {
		c.toList()
	}
}
