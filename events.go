package probe

// TouchEvent carries the triggering touch and, where applicable, the
// current intersection point for an element-level lifecycle callback.
type TouchEvent struct {
	Element      *Element
	Touch        *Touch
	Intersection *IntersectionPoint
}

// WheelEvent carries a mouse-wheel delta for on_vertical/horizontal_mouse_wheel_change.
type WheelEvent struct {
	Element *Element
	Touch   *Touch
	Delta   float64
}

// ButtonEvent carries a mouse button edge for on_mouse_button_pressed/released.
type ButtonEvent struct {
	Element *Element
	Touch   *Touch
	Button  int
}

// elementCallbacks holds the per-element lifecycle and interaction
// callbacks. Nil fields cost nothing to check.
type elementCallbacks struct {
	OnInteractionBegin func(TouchEvent)
	OnInteractionEnd   func(TouchEvent)
	OnTouchBegin       func(TouchEvent)
	OnTouchEnd         func(TouchEvent)
	OnHitBegin         func(TouchEvent)
	OnHitEnd           func(TouchEvent)
	OnInteracting      func(TouchEvent)
	OnChildrenUpdated  func()
	OnDeletionStarted  func()
	OnDeleting         func()
	OnFadedIn          func()
	OnMainLoopBegin    func()
	OnMainLoopEnd      func()

	OnVerticalMouseWheelChange   func(WheelEvent)
	OnHorizontalMouseWheelChange func(WheelEvent)
	OnMouseButtonPressed         func(ButtonEvent)
	OnMouseButtonReleased        func(ButtonEvent)
}

func fireTouchEvent(cb func(TouchEvent), e *Element, t *Touch, ip *IntersectionPoint) {
	if cb == nil {
		return
	}
	cb(TouchEvent{Element: e, Touch: t, Intersection: ip})
}

// EventKind classifies the interaction events an EntityStore receives.
type EventKind uint8

const (
	EventHitBegin EventKind = iota
	EventHitEnd
	EventTouchBegin
	EventTouchEnd
	EventInteractionBegin
	EventInteractionEnd
	EventInteracting
)

// EntityStore is the interface for optional ECS integration. When set on a
// Context via SetEntityStore, every hit/touch/interaction event (one of the
// EventKind values) fired at any element is also forwarded here; lifecycle
// callbacks are not.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge. It has no
// drag/pinch context, since those are behaviors here, not core event
// payloads.
type InteractionEvent struct {
	Kind      EventKind
	ElementID int
	Touch     *Touch
	World     Vec3
	Surface   Vec2
}
