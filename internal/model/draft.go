package model

// ActionKind is the compose trigger that produced a draft.
type ActionKind string

const (
	ActionReply    ActionKind = "reply"
	ActionReplyAll ActionKind = "replyAll"
	ActionForward  ActionKind = "forward"
)

// Valid reports whether k is one of the three recognized action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionReply, ActionReplyAll, ActionForward:
		return true
	}
	return false
}

// Draft is an in-progress, unsent message. OriginalSender and ActionKind
// are empty for a fresh compose.
type Draft struct {
	ID             string     `json:"id,omitempty" db:"id"`
	To             []string   `json:"to" db:"-"`
	CC             []string   `json:"cc,omitempty" db:"-"`
	BCC            []string   `json:"bcc,omitempty" db:"-"`
	Subject        string     `json:"subject" db:"subject"`
	Body           string     `json:"body" db:"body"`
	OriginalSender string     `json:"original_sender,omitempty" db:"original_sender"`
	ActionKind     ActionKind `json:"action_kind,omitempty" db:"action_kind"`
}

// Clone returns a deep copy of d so callers can hand out snapshots.
func (d Draft) Clone() Draft {
	d.To = cloneStrings(d.To)
	d.CC = cloneStrings(d.CC)
	d.BCC = cloneStrings(d.BCC)
	return d
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
