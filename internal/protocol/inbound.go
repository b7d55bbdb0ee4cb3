// Package protocol defines the JSON events exchanged with clients and
// validates inbound ones before they reach the router.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	TypeJoin         = "join"
	TypeSpeaking     = "speaking"
	TypeStopSpeaking = "stopSpeaking"
	TypeAudioData    = "audioData"
	TypePing         = "ping"
)

var (
	ErrMalformed    = errors.New("malformed event")
	ErrUnknownEvent = errors.New("unknown event")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("displayname", func(fl validator.FieldLevel) bool {
		user, ok := fl.Field().Interface().(domain.User)
		return ok && domain.ValidateUsername(user.Name()) == nil
	})
	return v
}

// Event is one decoded inbound message.
type Event interface {
	EventType() string
}

type Join struct {
	User    domain.User `json:"user" validate:"required,displayname"`
	Channel string      `json:"channel" validate:"required"`
}

// Speaking and StopSpeaking fall back to the sender's current channel when
// Channel is empty.
type Speaking struct {
	UserID  string `json:"userId"`
	Channel string `json:"channel"`
}

type StopSpeaking struct {
	UserID  string `json:"userId"`
	Channel string `json:"channel"`
}

// AudioData carries the payload exactly as sent: a base64 or data URL
// string, or an array of bytes.
type AudioData struct {
	UserID   string          `json:"userId"`
	Audio    json.RawMessage `json:"audio"`
	Channel  string          `json:"channel" validate:"required"`
	MimeType string          `json:"mimeType,omitempty"`
}

// HasAudio reports whether the payload carries anything. Absent, null, ""
// and [] are empty.
func (a AudioData) HasAudio() bool {
	if len(a.Audio) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(a.Audio, &v); err != nil {
		return false
	}
	switch p := v.(type) {
	case nil:
		return false
	case string:
		return p != ""
	case []any:
		return len(p) > 0
	default:
		return true
	}
}

type Ping struct{}

func (Join) EventType() string         { return TypeJoin }
func (Speaking) EventType() string     { return TypeSpeaking }
func (StopSpeaking) EventType() string { return TypeStopSpeaking }
func (AudioData) EventType() string    { return TypeAudioData }
func (Ping) EventType() string         { return TypePing }

// Decode reads the {"type": ...} envelope and returns the matching event.
// Errors wrap ErrMalformed or ErrUnknownEvent.
func Decode(data []byte) (Event, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoin:
		return decodeAs[Join](data)
	case TypeSpeaking:
		return decodeAs[Speaking](data)
	case TypeStopSpeaking:
		return decodeAs[StopSpeaking](data)
	case TypeAudioData:
		return decodeAs[AudioData](data)
	case TypePing:
		return Ping{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

func decodeAs[T Event](data []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, ev.EventType(), err)
	}
	if err := validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, ev.EventType(), err)
	}
	return ev, nil
}
