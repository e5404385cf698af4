package loan

// transitions lists every legal move. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool { return s.Valid() && len(transitions[s]) == 0 }

// Payable reports whether payments may be recorded against a loan in s.
func (s Status) Payable() bool { return s == StatusApproved || s == StatusActive }

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PathTo returns the legal steps from s to target, or nil when target is unreachable.
// The ledger uses it to walk an approved loan to completed.
func (s Status) PathTo(target Status) []Status {
	var path []Status
	cur := s
	for cur != target {
		next := transitions[cur]
		if len(next) != 1 {
			// Branching (pending) or terminal: only a direct move is unambiguous.
			if cur.CanTransitionTo(target) {
				return append(path, target)
			}
			return nil
		}
		cur = next[0]
		path = append(path, cur)
	}
	return path
}
