package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
	"github.com/powerfulmoves/archon-tts/internal/audio"
)

// execSynth bridges to an external TTS engine over stdio: one JSON request
// on stdin, one JSON response on stdout with base64 PCM16.
type execSynth struct {
	cmd        []string
	sampleRate int
	mu         sync.Mutex
}

type execRequest struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate"`
}

type execResponse struct {
	PCMBase64 string `json:"pcm_base64"`
}

func NewExecSynth(command string, sampleRate int) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tts command empty")
	}
	return &execSynth{cmd: args, sampleRate: sampleRate}, nil
}

func (e *execSynth) SampleRate() int { return e.sampleRate }

func (e *execSynth) Synthesize(ctx context.Context, req Request) (audio.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload, err := json.Marshal(execRequest{
		Text:       req.Text,
		Voice:      req.Voice,
		SampleRate: e.sampleRate,
	})
	if err != nil {
		return audio.Buffer{}, err
	}

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return audio.Buffer{}, fmt.Errorf("tts backend: %w", err)
	}

	var resp execResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return audio.Buffer{}, fmt.Errorf("decode tts response: %w", err)
	}
	pcm, err := base64.StdEncoding.DecodeString(resp.PCMBase64)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode tts pcm: %w", err)
	}
	if len(pcm) == 0 {
		return audio.Buffer{}, ErrEmptyAudio
	}
	return audio.FromPCM16(pcm, e.sampleRate), nil
}
