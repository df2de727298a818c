package scenegraph

import (
	"testing"

	"github.com/akmonengine/scenegraph/spatial"
)

// createTestEntity creates an entity bounded by a unit sphere
func createTestEntity(name string) *Entity {
	entity := NewEntity(&countingRenderable{})
	entity.Name = name
	entity.Volume = &spatial.Sphere{Radius: 1}
	return entity
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(VISIBILITY_ENTER, capture.capture)

	if len(events.listeners[VISIBILITY_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for VISIBILITY_ENTER, got %d", len(events.listeners[VISIBILITY_ENTER]))
	}
}

func TestEvents_ZeroValueSubscribe(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(VISIBILITY_EXIT, capture.capture)

	if len(events.listeners[VISIBILITY_EXIT]) != 1 {
		t.Errorf("Expected 1 listener for VISIBILITY_EXIT, got %d", len(events.listeners[VISIBILITY_EXIT]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}

	events.Subscribe(VISIBILITY_ENTER, capture1.capture)
	events.Subscribe(VISIBILITY_ENTER, capture2.capture)

	events.recordVisible(createTestEntity("A"))
	events.flush()

	if capture1.count() != 1 {
		t.Errorf("Capture1 expected 1 event, got %d", capture1.count())
	}
	if capture2.count() != 1 {
		t.Errorf("Capture2 expected 1 event, got %d", capture2.count())
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_VisibilityLifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(VISIBILITY_ENTER, capture.capture)
	events.Subscribe(VISIBILITY_STAY, capture.capture)
	events.Subscribe(VISIBILITY_EXIT, capture.capture)

	entity := createTestEntity("A")

	steps := []struct {
		name    string
		visible bool
		want    EventType
		wantNo  bool
	}{
		{name: "becomes visible", visible: true, want: VISIBILITY_ENTER},
		{name: "stays visible", visible: true, want: VISIBILITY_STAY},
		{name: "leaves the view", visible: false, want: VISIBILITY_EXIT},
		{name: "stays hidden", visible: false, wantNo: true},
		{name: "comes back", visible: true, want: VISIBILITY_ENTER},
	}

	for _, step := range steps {
		capture.reset()
		if step.visible {
			events.recordVisible(entity)
		}
		events.flush()

		if step.wantNo {
			if capture.count() != 0 {
				t.Errorf("%s: expected no event, got %d", step.name, capture.count())
			}
			continue
		}
		if capture.count() != 1 || !capture.hasEventType(step.want) {
			t.Errorf("%s: expected one event of type %d, got %v", step.name, step.want, capture.events)
		}
	}
}

func TestEvents_IgnoresEntitiesWithoutVolume(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(VISIBILITY_ENTER, capture.capture)

	events.recordVisible(NewEntity(nil))
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no event for an entity without volume, got %d", capture.count())
	}
}

func TestEvents_ForgetSkipsExit(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(VISIBILITY_EXIT, capture.capture)

	entity := createTestEntity("A")
	events.recordVisible(entity)
	events.flush()

	events.forget(entity)
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no exit event for a forgotten entity, got %d", capture.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureDestroyed := &eventCapture{}

	events.Subscribe(VISIBILITY_ENTER, captureEnter.capture)
	events.Subscribe(ENTITY_DESTROYED, captureDestroyed.capture)

	events.emitDestroyed(createTestEntity("A"))
	events.flush()

	if captureEnter.count() != 0 {
		t.Errorf("Enter capture expected 0 events, got %d", captureEnter.count())
	}
	if captureDestroyed.count() != 1 {
		t.Errorf("Destroyed capture expected 1 event, got %d", captureDestroyed.count())
	}
	if len(events.buffer) != 0 {
		t.Errorf("buffer should be empty after flush, got %d events", len(events.buffer))
	}
}
