package domain

import "maps"

// ConnectionIDKey is merged into every member record.
const ConnectionIDKey = "connectionId"

// Member is the public view of a session: the user's fields plus its
// connection id. No transport or lifecycle logic here.
type Member map[string]any

// NewMember copies the user so later edits never leak into records that
// were already handed to a broadcast.
func NewMember(id ConnectionID, user User) Member {
	m := make(Member, len(user)+1)
	maps.Copy(m, user)
	m[ConnectionIDKey] = string(id)
	return m
}

func (m Member) ConnectionID() ConnectionID {
	id, _ := m[ConnectionIDKey].(string)
	return ConnectionID(id)
}

func (m Member) Name() string {
	name, _ := m[UserNameKey].(string)
	return name
}
