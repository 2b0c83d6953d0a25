package models

import "fmt"

// Action is a reaction a user can toggle on a video or a comment
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// ParseAction converts a raw form value into an Action
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionLike, ActionDislike:
		return Action(s), nil
	}
	return "", fmt.Errorf("invalid action %q", s)
}

// ReactionRecord is the like/dislike ledger of one entity.
// A user id appears in at most one of Likes and Dislikes.
type ReactionRecord struct {
	EntityID string `json:"entity_id"`
	Likes    []uint `json:"likes"`
	Dislikes []uint `json:"dislikes"`
}

// ReactionDelta is the counter change produced by one toggle
type ReactionDelta struct {
	Likes    int
	Dislikes int
}

// Toggle applies action for userID and returns the counter change.
// Repeating an action cancels it; the opposite action switches sides in one call.
func (r *ReactionRecord) Toggle(userID uint, action Action) ReactionDelta {
	var d ReactionDelta
	same, opposite := &r.Likes, &r.Dislikes
	sameDelta, oppositeDelta := &d.Likes, &d.Dislikes
	if action == ActionDislike {
		same, opposite = opposite, same
		sameDelta, oppositeDelta = oppositeDelta, sameDelta
	}

	if removeID(opposite, userID) {
		*oppositeDelta--
	}
	if removeID(same, userID) {
		*sameDelta--
	} else {
		*same = append(*same, userID)
		*sameDelta++
	}
	return d
}

// State reports which action userID currently holds, or "" for none
func (r *ReactionRecord) State(userID uint) Action {
	for _, id := range r.Likes {
		if id == userID {
			return ActionLike
		}
	}
	for _, id := range r.Dislikes {
		if id == userID {
			return ActionDislike
		}
	}
	return ""
}

func removeID(ids *[]uint, id uint) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}
