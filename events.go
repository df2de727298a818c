package scenegraph

const (
	VISIBILITY_ENTER EventType = iota
	VISIBILITY_STAY
	VISIBILITY_EXIT
	ENTITY_DESTROYED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Visibility events only concern entities with a Volume
type VisibilityEnterEvent struct {
	Entity *Entity
}

func (e VisibilityEnterEvent) Type() EventType { return VISIBILITY_ENTER }

type VisibilityStayEvent struct {
	Entity *Entity
}

func (e VisibilityStayEvent) Type() EventType { return VISIBILITY_STAY }

type VisibilityExitEvent struct {
	Entity *Entity
}

func (e VisibilityExitEvent) Type() EventType { return VISIBILITY_EXIT }

// EntityDestroyedEvent is sent once per entity released by Scene.Remove.
// The entity is already detached when listeners run.
type EntityDestroyedEvent struct {
	Entity *Entity
}

func (e EntityDestroyedEvent) Type() EventType { return ENTITY_DESTROYED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Visible sets of the last two frames, for Enter/Stay/Exit detection
	previousVisible map[*Entity]bool
	currentVisible  map[*Entity]bool
}

func NewEvents() Events {
	return Events{
		listeners:       make(map[EventType][]EventListener),
		buffer:          make([]Event, 0, 256),
		previousVisible: make(map[*Entity]bool),
		currentVisible:  make(map[*Entity]bool),
	}
}

func (e *Events) init() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordVisible is called by the draw walk for every entity that passed the frustum test
func (e *Events) recordVisible(entity *Entity) {
	if entity.Volume == nil {
		return
	}
	e.currentVisible[entity] = true
}

// forget drops a destroyed entity from the visibility tracking, without Exit event
func (e *Events) forget(entity *Entity) {
	delete(e.previousVisible, entity)
	delete(e.currentVisible, entity)
}

func (e *Events) emitDestroyed(entity *Entity) {
	e.buffer = append(e.buffer, EntityDestroyedEvent{Entity: entity})
}

// processVisibilityEvents compares current and previous visible sets to detect Enter/Stay/Exit
// Should be called once per frame, after the draw walk
func (e *Events) processVisibilityEvents() {
	for entity := range e.currentVisible {
		if e.previousVisible[entity] {
			e.buffer = append(e.buffer, VisibilityStayEvent{Entity: entity})
		} else {
			e.buffer = append(e.buffer, VisibilityEnterEvent{Entity: entity})
		}
	}

	for entity := range e.previousVisible {
		if !e.currentVisible[entity] {
			e.buffer = append(e.buffer, VisibilityExitEvent{Entity: entity})
		}
	}

	// Swap for next frame and clear current
	e.previousVisible, e.currentVisible = e.currentVisible, e.previousVisible
	clear(e.currentVisible)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processVisibilityEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
