package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/powerfulmoves/archon-tts/internal/audio"
	"github.com/powerfulmoves/archon-tts/internal/bus"
	"github.com/powerfulmoves/archon-tts/internal/config"
	"github.com/powerfulmoves/archon-tts/internal/protocol"
	"github.com/powerfulmoves/archon-tts/internal/sessionstore"
	"github.com/powerfulmoves/archon-tts/internal/synth"
)

// Service subscribes to speak requests on the bus and answers with audio:
// the first prosodic chunk as soon as it is synthesized, then the complete
// stitched utterance. Session timing lands in the session store.
type Service struct {
	cfg          config.Config
	bus          *bus.Client
	orchestrator *synth.Orchestrator
	store        *sessionstore.Store
	sub          *nats.Subscription
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       *slog.Logger
}

func NewService(parent context.Context, cfg config.Config, busClient *bus.Client, orchestrator *synth.Orchestrator, store *sessionstore.Store, log *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	return &Service{
		cfg:          cfg,
		bus:          busClient,
		orchestrator: orchestrator,
		store:        store,
		ctx:          ctx,
		cancel:       cancel,
		logger:       log.With(slog.String("component", "speak-service")),
	}
}

func (s *Service) Start() error {
	if !s.cfg.Service.Enabled {
		return nil
	}
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectSpeakRequest, s.handleRequest)
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool { return !s.cfg.Service.Enabled || s.sub != nil }

func (s *Service) handleRequest(msg *nats.Msg) {
	var req protocol.SpeakRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode speak request", slogError(err))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.Target == "" {
		req.Target = s.cfg.Service.Target
	}
	if req.Voice == "" {
		req.Voice = s.cfg.TTS.Voice
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.speak(req)
	}()
}

func (s *Service) speak(req protocol.SpeakRequest) {
	ctx, cancel := context.WithTimeout(s.ctx, 45*time.Second)
	defer cancel()

	if err := s.store.AppendSession(ctx, req.SessionID, req.Target); err != nil {
		s.logger.Warn("failed to record session", slogError(err))
	}

	res, err := s.orchestrator.Speak(ctx, req.Text, req.Voice, func(first audio.Buffer) {
		s.publishAudio(req, 0, first, false)
	})
	if err != nil {
		s.logger.Warn("synthesis failed", slog.String("session", req.SessionID), slogError(err))
		s.publishStatus(req, protocol.SpeakStatus{
			SessionID: req.SessionID,
			Target:    req.Target,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	s.publishAudio(req, 1, res.Audio, true)
	s.publishStatus(req, protocol.SpeakStatus{
		SessionID: req.SessionID,
		Target:    req.Target,
		Completed: true,
		Chunks:    len(res.Chunks),
		TTFSMS:    res.TTFS.Milliseconds(),
		Timestamp: time.Now().UTC(),
	})

	if err := s.store.AppendUtterance(ctx, sessionstore.Utterance{
		SessionID:  req.SessionID,
		TraceID:    req.TraceID,
		Text:       req.Text,
		Voice:      req.Voice,
		Chunks:     len(res.Chunks),
		TTFSMS:     res.TTFS.Milliseconds(),
		DurationMS: res.Audio.DurationMS(),
		SampleRate: res.Audio.Rate,
	}); err != nil {
		s.logger.Warn("failed to record utterance", slogError(err))
	}

	if dir := s.cfg.Stitch.DebugWAVDir; dir != "" {
		path := filepath.Join(dir, req.SessionID+".wav")
		if err := audio.WriteWAVFile(path, res.Audio); err != nil {
			s.logger.Warn("failed to write debug wav", slogError(err))
		}
	}
}

func (s *Service) publishAudio(req protocol.SpeakRequest, sequence int, buf audio.Buffer, final bool) {
	packet := protocol.AudioChunk{
		SessionID:  req.SessionID,
		Target:     req.Target,
		SampleRate: buf.Rate,
		Channels:   1,
		Sequence:   sequence,
		PCM:        buf.PCM16(),
		Final:      final,
	}
	data, err := json.Marshal(packet)
	if err != nil {
		s.logger.Warn("failed to marshal audio chunk", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectSpeakAudio, data); err != nil {
		s.logger.Warn("failed to publish audio chunk", slogError(err))
	}
}

func (s *Service) publishStatus(req protocol.SpeakRequest, status protocol.SpeakStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		s.logger.Warn("failed to marshal speak status", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectSpeakDone, data); err != nil {
		s.logger.Warn("failed to publish speak status", slogError(err))
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
