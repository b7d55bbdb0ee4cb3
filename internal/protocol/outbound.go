package protocol

import (
	"encoding/json"

	"github.com/dkeye/Radio/internal/domain"
)

const (
	TypeUsers               = "users"
	TypeUserJoined          = "userJoined"
	TypeUserLeft            = "userLeft"
	TypeUserSpeaking        = "userSpeaking"
	TypeUserStoppedSpeaking = "userStoppedSpeaking"
	TypePong                = "pong"
)

type Users struct {
	Type  string          `json:"type"`
	Users []domain.Member `json:"users"`
}

type MemberEvent struct {
	Type string        `json:"type"`
	User domain.Member `json:"user"`
}

type SpeakerEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// AudioRelay is AudioData enriched with the sender name, a mime type and
// the relay time in epoch milliseconds. Audio is forwarded untouched and
// UserName is omitted for senders that never joined.
type AudioRelay struct {
	Type      string          `json:"type"`
	UserID    string          `json:"userId"`
	Audio     json.RawMessage `json:"audio"`
	UserName  string          `json:"userName,omitempty"`
	MimeType  string          `json:"mimeType"`
	Timestamp int64           `json:"timestamp"`
}

type Pong struct {
	Type string `json:"type"`
}

func NewUsers(members []domain.Member) Users {
	if members == nil {
		members = []domain.Member{}
	}
	return Users{Type: TypeUsers, Users: members}
}

func NewUserJoined(m domain.Member) MemberEvent { return MemberEvent{Type: TypeUserJoined, User: m} }
func NewUserLeft(m domain.Member) MemberEvent   { return MemberEvent{Type: TypeUserLeft, User: m} }

func NewUserSpeaking(userID string) SpeakerEvent {
	return SpeakerEvent{Type: TypeUserSpeaking, UserID: userID}
}

func NewUserStoppedSpeaking(userID string) SpeakerEvent {
	return SpeakerEvent{Type: TypeUserStoppedSpeaking, UserID: userID}
}

func NewPong() Pong { return Pong{Type: TypePong} }

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
