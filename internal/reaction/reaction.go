// Package reaction tracks the viewer's believed like state per publication
// between a click and the API confirming it.
package reaction

import "time"

// Kind is the reaction sent to the API.
type Kind string

const (
	Upvote   Kind = "UPVOTE"
	Downvote Kind = "DOWNVOTE"
)

// Phase is where a publication's reaction sits in its lifecycle.
//
//	Unknown -> Pending -> Confirmed
//	                   -> Rejected
type Phase int

const (
	Unknown Phase = iota
	Pending
	Confirmed
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// State is the believed reaction for one publication.
type State struct {
	Phase     Phase     `json:"phase"`
	Reacted   bool      `json:"reacted"`
	Previous  bool      `json:"previous"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ledger maps publication ID to its reaction state. The zero value is not
// usable; use make or NewLedger. It is not safe for concurrent use; it lives
// inside a session that is loaded and saved per request.
type Ledger map[string]State

func NewLedger() Ledger { return make(Ledger) }

// Effective returns whether the viewer should be shown as having reacted,
// given the value the API reported.
func (l Ledger) Effective(id string, server bool) bool {
	st, ok := l[id]
	if !ok {
		return server
	}
	switch st.Phase {
	case Pending, Confirmed:
		return st.Reacted
	}
	return server
}

// Begin optimistically flips the reaction and returns the kind to send:
// Upvote when the viewer had not reacted, Downvote otherwise.
func (l Ledger) Begin(id string, server bool, now time.Time) Kind {
	cur := l.Effective(id, server)
	l[id] = State{Phase: Pending, Reacted: !cur, Previous: cur, UpdatedAt: now}
	if cur {
		return Downvote
	}
	return Upvote
}

// Confirm settles a pending reaction.
func (l Ledger) Confirm(id string, now time.Time) {
	st, ok := l[id]
	if !ok || st.Phase != Pending {
		return
	}
	st.Phase = Confirmed
	st.UpdatedAt = now
	l[id] = st
}

// Reject rolls a pending reaction back to the value it had before Begin.
func (l Ledger) Reject(id string, now time.Time) {
	st, ok := l[id]
	if !ok || st.Phase != Pending {
		return
	}
	st.Phase = Rejected
	st.Reacted = st.Previous
	st.UpdatedAt = now
	l[id] = st
}

// Reconcile folds fresh API data into the ledger. A confirmed entry the server
// agrees with is dropped, since the server value is authoritative from then on.
// A rejected entry is dropped too. Pending entries are kept until they are
// older than pendingTTL, which only happens when the request that began them
// never settled them.
func (l Ledger) Reconcile(id string, server bool, now time.Time, pendingTTL time.Duration) {
	st, ok := l[id]
	if !ok {
		return
	}
	switch st.Phase {
	case Pending:
		if pendingTTL > 0 && now.Sub(st.UpdatedAt) > pendingTTL {
			delete(l, id)
		}
	case Confirmed:
		if st.Reacted == server {
			delete(l, id)
		}
	case Rejected, Unknown:
		delete(l, id)
	}
}

// Prune drops entries older than maxAge so a long session doesn't grow
// without bound. Stale pending entries are dropped as well.
func (l Ledger) Prune(now time.Time, maxAge time.Duration) {
	for id, st := range l {
		if now.Sub(st.UpdatedAt) > maxAge {
			delete(l, id)
		}
	}
}
