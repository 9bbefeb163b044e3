package models

import (
	"slices"

	"github.com/akhoik/ge/internal/core/observability/log"
)

// Keycode is a platform key code as delivered by the window layer.
type Keycode int32

// PressedStatus is the per-key state kept by InputService.
type PressedStatus uint8

const (
	// StatusNone means the key has no entry.
	StatusNone PressedStatus = iota
	// StatusPressed is the first frame the key is down.
	StatusPressed
	// StatusDown is every later frame while held.
	StatusDown
	// StatusReleased is the first frame after the key went up.
	StatusReleased
)

func (s PressedStatus) String() string {
	switch s {
	case StatusPressed:
		return "pressed"
	case StatusDown:
		return "down"
	case StatusReleased:
		return "released"
	default:
		return "none"
	}
}

// InputService tracks edge (Pressed, Released) and level (Down) key states.
// The input system feeds it with ProvideInput and calls MarkCleanup once per
// frame after the frame has been consumed.
type InputService struct {
	keys    map[Keycode]PressedStatus
	changed bool
	log     log.Log
}

func NewInputService(logger log.Log) *InputService {
	if logger == nil {
		logger = log.NewNop()
	}
	return &InputService{
		keys: make(map[Keycode]PressedStatus, 64),
		log:  logger,
	}
}

func (*InputService) Kind() Kind  { return KindInputService }
func (*InputService) entityType() {}

// ProvideInput records a raw key event. A key without an entry becomes
// Pressed. A key with an entry becomes Released whatever the pressed flag says.
func (s *InputService) ProvideInput(key Keycode, pressed bool) {
	s.changed = true
	if _, ok := s.keys[key]; ok {
		if pressed {
			s.log.Warn("press reported for a key that already has an entry",
				log.Int("key", int(key)))
		}
		s.keys[key] = StatusReleased
		return
	}
	s.keys[key] = StatusPressed
}

// MarkCleanup ends a frame: Released entries are dropped and Pressed entries
// are promoted to Down.
func (s *InputService) MarkCleanup() {
	if !s.changed {
		return
	}
	s.changed = false
	for key, status := range s.keys {
		switch status {
		case StatusReleased:
			delete(s.keys, key)
		case StatusPressed:
			s.keys[key] = StatusDown
		}
	}
}

func (s *InputService) Status(key Keycode) PressedStatus {
	status, ok := s.keys[key]
	if !ok {
		return StatusNone
	}
	return status
}

func (s *InputService) IsPressed(key Keycode) bool  { return s.Status(key) == StatusPressed }
func (s *InputService) IsDown(key Keycode) bool     { return s.Status(key) == StatusDown }
func (s *InputService) IsReleased(key Keycode) bool { return s.Status(key) == StatusReleased }

// IsActive reports whether the key has any entry.
func (s *InputService) IsActive(key Keycode) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *InputService) KeysPressed() []Keycode  { return s.keysWith(StatusPressed) }
func (s *InputService) KeysDown() []Keycode     { return s.keysWith(StatusDown) }
func (s *InputService) KeysReleased() []Keycode { return s.keysWith(StatusReleased) }

// KeysActive returns every key with an entry, sorted.
func (s *InputService) KeysActive() []Keycode {
	keys := make([]Keycode, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (s *InputService) keysWith(status PressedStatus) []Keycode {
	var keys []Keycode
	for key, st := range s.keys {
		if st == status {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
