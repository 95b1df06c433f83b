package scene

// EventType names a pointer event.
type EventType string

// Pointer events charts listen to.
const (
	PointerMove  EventType = "pointermove"
	PointerLeave EventType = "pointerleave"
	TouchStart   EventType = "touchstart"
	TouchMove    EventType = "touchmove"
)

// PointerEvent is a pointer position in the target element's coordinate
// system.
type PointerEvent struct {
	Type EventType
	X, Y float64
}

// Handler reacts to a pointer event.
type Handler func(PointerEvent)

// OnPointerEvent registers h for events of type t on el, replacing any
// previous handler for that type. A nil handler unregisters.
func (g *Graph) OnPointerEvent(el *Node, t EventType, h Handler) {
	if h == nil {
		delete(el.handlers, t)
		return
	}
	if el.handlers == nil {
		el.handlers = make(map[EventType]Handler)
	}
	el.handlers[t] = h
}

// Dispatch delivers ev to el's handler for ev.Type. It reports whether a
// handler ran.
func (g *Graph) Dispatch(el *Node, ev PointerEvent) bool {
	if el == nil {
		return false
	}
	h, ok := el.handlers[ev.Type]
	if !ok {
		return false
	}
	h(ev)
	return true
}
