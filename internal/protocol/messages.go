package protocol

import "time"

// SpeakRequest asks the sidecar to synthesize an utterance.
type SpeakRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Voice     string `json:"voice,omitempty"`
	Target    string `json:"target,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// AudioChunk carries PCM16 audio on the bus. Sequence 0 is the raw first
// prosodic chunk, published as soon as it is synthesized; the final packet
// carries the complete stitched utterance and supersedes the preview.
type AudioChunk struct {
	SessionID  string `json:"session_id"`
	Target     string `json:"target,omitempty"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Sequence   int    `json:"sequence"`
	PCM        []byte `json:"pcm"`
	Final      bool   `json:"final"`
}

// SpeakStatus reports completion or failure of an utterance.
type SpeakStatus struct {
	SessionID string    `json:"session_id"`
	Target    string    `json:"target,omitempty"`
	Completed bool      `json:"completed"`
	Error     string    `json:"error,omitempty"`
	Chunks    int       `json:"chunks,omitempty"`
	TTFSMS    int64     `json:"ttfs_ms,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SubjectSpeakRequest = "tts.speak"
	SubjectSpeakAudio   = "tts.audio"
	SubjectSpeakDone    = "tts.done"

	SubjectNodeAnnounce        = "ctrl.node.announce"
	SubjectNodeHeartbeatPrefix = "ctrl.node.heartbeat"
)
