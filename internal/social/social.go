// Package social defines the friend-relationship state machine shared by
// every store implementation. For a pair of distinct users exactly one of
// four states holds at any time: strangers, a pending request in one
// direction or the other, or an established friendship. The transition
// rules live here so SQL-backed and in-memory stores cannot drift apart.
package social

import "errors"

// Relationship is the state of a user pair seen from one side (the actor).
type Relationship int

const (
	// Strangers means no request or friendship exists in either direction.
	Strangers Relationship = iota
	// RequestSent means the actor has a pending request toward the other user.
	RequestSent
	// RequestReceived means the other user has a pending request toward the actor.
	RequestReceived
	// Friends means the symmetric friendship holds.
	Friends
)

func (r Relationship) String() string {
	switch r {
	case Strangers:
		return "strangers"
	case RequestSent:
		return "request_sent"
	case RequestReceived:
		return "request_received"
	case Friends:
		return "friends"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyRelated indicates a request cannot be sent because the pair is
	// not in the strangers state: a request already exists in either
	// direction, the users are friends, or a user targeted themself.
	ErrAlreadyRelated = errors.New("users are already related")
	// ErrNoSuchRequest indicates there is no pending incoming request to accept.
	ErrNoSuchRequest = errors.New("no pending friend request")
	// ErrNotFriends indicates the users are not friends.
	ErrNotFriends = errors.New("users are not friends")
	// ErrAccessDenied indicates the requester may not view the target's blogs.
	ErrAccessDenied = errors.New("access denied")
)

// CheckSend validates a sendRequest transition from the sender's perspective.
func CheckSend(state Relationship) error {
	if state != Strangers {
		return ErrAlreadyRelated
	}
	return nil
}

// CheckAccept validates an acceptRequest transition from the accepter's
// perspective. Only an incoming pending request can be accepted.
func CheckAccept(state Relationship) error {
	if state != RequestReceived {
		return ErrNoSuchRequest
	}
	return nil
}

// CheckRemove validates a removeFriend transition.
func CheckRemove(state Relationship) error {
	if state != Friends {
		return ErrNotFriends
	}
	return nil
}

// CanView reports whether requester may read target's blog collection.
// A user can always read their own blogs; everyone else must be a friend.
func CanView(requester, target string, state Relationship) bool {
	if requester == target {
		return true
	}
	return state == Friends
}
