package interactions

import (
	"encoding/json"
	"fmt"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

// State is a user's reaction to one post.
type State uint8

const (
	None State = iota
	Liked
	Disliked
)

func (s State) String() string {
	switch s {
	case None:
		return "NONE"
	case Liked:
		return "LIKED"
	case Disliked:
		return "DISLIKED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// StateOf derives the state from the stored row; nil means None.
func StateOf(i *models.Interaction) State {
	if i == nil {
		return None
	}
	if i.Type == models.Like {
		return Liked
	}
	return Disliked
}

func stateFor(kind models.ReactionKind) State {
	if kind == models.Like {
		return Liked
	}
	return Disliked
}

// Action is the store write a transition requires.
type Action uint8

const (
	Insert Action = iota + 1
	Remove
	Switch
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Switch:
		return "switch"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Transition applies a submitted reaction to the current state. Resubmitting
// the held reaction clears it; the opposite reaction replaces it.
func Transition(current State, kind models.ReactionKind) (State, Action, error) {
	if !kind.Valid() {
		return current, 0, apperr.New(apperr.InvalidArgument, "Invalid interaction type.")
	}

	switch current {
	case None:
		return stateFor(kind), Insert, nil
	case stateFor(kind):
		return None, Remove, nil
	case Liked, Disliked:
		return stateFor(kind), Switch, nil
	default:
		return current, 0, apperr.Newf(apperr.Internal, "unknown interaction state %s", current)
	}
}
