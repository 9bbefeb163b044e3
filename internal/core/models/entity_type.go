package models

import "fmt"

// Kind tags the variant held by a Type.
type Kind uint8

const (
	KindBase Kind = iota
	KindGame
	KindPart
	KindCamera
	KindInputService
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "Base"
	case KindGame:
		return "Game"
	case KindPart:
		return "Part"
	case KindCamera:
		return "Camera"
	case KindInputService:
		return "InputService"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type is the payload of an entity. The set of implementations is closed:
// Base, *Game, *Part, *Camera and *InputService.
type Type interface {
	Kind() Kind
	entityType()
}

var (
	_ Type = Base{}
	_ Type = (*Game)(nil)
	_ Type = (*Part)(nil)
	_ Type = (*Camera)(nil)
	_ Type = (*InputService)(nil)
)

// Base carries no state.
type Base struct{}

func (Base) Kind() Kind  { return KindBase }
func (Base) entityType() {}

type Genre uint8

const (
	GenreAction Genre = iota
	GenreAdventure
)

func (g Genre) String() string {
	switch g {
	case GenreAction:
		return "action"
	case GenreAdventure:
		return "adventure"
	default:
		return fmt.Sprintf("genre(%d)", uint8(g))
	}
}

// ParseGenre accepts the names produced by Genre.String.
func ParseGenre(s string) (Genre, error) {
	switch s {
	case "", "action":
		return GenreAction, nil
	case "adventure":
		return GenreAdventure, nil
	default:
		return GenreAction, fmt.Errorf("unknown genre %q", s)
	}
}

// Game is the payload of the tree head.
type Game struct {
	Genre Genre
}

func (*Game) Kind() Kind  { return KindGame }
func (*Game) entityType() {}
