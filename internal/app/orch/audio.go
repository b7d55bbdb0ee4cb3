package orch

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/dkeye/Radio/internal/protocol"
	"github.com/gabriel-vasile/mimetype"
)

func (o *Orchestrator) mimeType(ev protocol.AudioData) string {
	if ev.MimeType != "" {
		return ev.MimeType
	}
	if o.sniffMime {
		if raw, ok := audioBytes(ev.Audio); ok {
			if mt, ok := sniffAudio(raw); ok {
				return mt
			}
		}
	}
	return o.defaultMime
}

// audioBytes recovers the raw bytes of a payload. A string is base64,
// optionally wrapped in a data URL; an array holds the bytes themselves.
func audioBytes(payload json.RawMessage) ([]byte, bool) {
	var s string
	if err := json.Unmarshal(payload, &s); err == nil {
		if strings.HasPrefix(s, "data:") {
			if i := strings.Index(s, ","); i >= 0 {
				s = s[i+1:]
			}
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil || len(raw) == 0 {
			return nil, false
		}
		return raw, true
	}

	var nums []int
	if err := json.Unmarshal(payload, &nums); err != nil || len(nums) == 0 {
		return nil, false
	}
	raw := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, false
		}
		raw[i] = byte(n)
	}
	return raw, true
}

// sniffAudio reports the audio mime type of raw. Browsers record into a
// webm container that detection calls video/webm; that is reported as
// audio/webm.
func sniffAudio(raw []byte) (string, bool) {
	mt := mimetype.Detect(raw)
	switch {
	case mt.Is("video/webm"):
		return "audio/webm", true
	case strings.HasPrefix(mt.String(), "audio/"):
		return mt.String(), true
	default:
		return "", false
	}
}
