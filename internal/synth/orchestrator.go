package synth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/powerfulmoves/archon-tts/internal/audio"
	"github.com/powerfulmoves/archon-tts/internal/prosody"
	"github.com/powerfulmoves/archon-tts/internal/tts"
)

// Options tunes the orchestration loop.
type Options struct {
	Prosody prosody.Options
	// Concurrency bounds the fan-out for chunks after the first. The first
	// chunk is always synthesized alone, before anything else starts.
	Concurrency int
	// Seed drives breath placement during stitching. Zero means
	// time-derived, i.e. non-reproducible production behaviour.
	Seed int64
}

// Result is the outcome of one utterance.
type Result struct {
	Audio  audio.Buffer
	Chunks []prosody.Chunk
	// TTFS is the time from request to first chunk audio being ready.
	TTFS time.Duration
}

// Orchestrator drives the pipeline: parse text into prosodic chunks, call
// the backend per chunk, reassemble in order, stitch. It owns no retry
// policy; a chunk failure cancels the rest and surfaces to the caller.
type Orchestrator struct {
	synth  tts.Synthesizer
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
	ttfs   metric.Float64Histogram
}

func New(synthesizer tts.Synthesizer, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	o := &Orchestrator{
		synth:  synthesizer,
		opts:   opts,
		logger: logger.With(slog.String("component", "synth-orchestrator")),
		tracer: otel.Tracer("github.com/powerfulmoves/archon-tts/internal/synth"),
	}
	meter := otel.Meter("github.com/powerfulmoves/archon-tts/internal/synth")
	hist, err := meter.Float64Histogram("archon.tts.ttfs_ms",
		metric.WithDescription("Time to first chunk audio in milliseconds"))
	if err != nil {
		o.logger.Warn("failed to initialize ttfs metric", slog.String("error", err.Error()))
	} else {
		o.ttfs = hist
	}
	return o
}

// Speak synthesizes the whole utterance. The first chunk is synthesized
// before any other and handed to onFirst as soon as it is ready; remaining
// chunks fan out concurrently but are stitched in original order.
func (o *Orchestrator) Speak(ctx context.Context, text, voice string, onFirst func(audio.Buffer)) (Result, error) {
	ctx, span := o.tracer.Start(ctx, "synth.speak")
	defer span.End()

	start := time.Now()
	chunks, err := prosody.Parse(text, o.opts.Prosody)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("tts.chunks", len(chunks)))

	buffers := make([]audio.Buffer, len(chunks))

	first, err := o.synthChunk(ctx, chunks[0], voice)
	if err != nil {
		return Result{}, err
	}
	buffers[0] = first
	elapsed := time.Since(start)
	if o.ttfs != nil {
		o.ttfs.Record(ctx, float64(elapsed.Microseconds())/1000)
	}
	o.logger.Debug("first chunk ready",
		slog.Duration("ttfs", elapsed),
		slog.Int("chunks", len(chunks)))
	if onFirst != nil {
		onFirst(first)
	}

	if len(chunks) > 1 {
		if err := o.synthRemaining(ctx, chunks, voice, buffers); err != nil {
			return Result{}, err
		}
	}

	boundaries := make([]prosody.BoundaryType, 0, len(chunks)-1)
	for _, c := range chunks[:len(chunks)-1] {
		boundaries = append(boundaries, c.BoundaryAfter)
	}
	seed := o.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	stitched, err := audio.StitchChunks(buffers, boundaries, seed)
	if err != nil {
		return Result{}, err
	}

	o.logger.Info("utterance synthesized",
		slog.Int("chunks", len(chunks)),
		slog.Duration("ttfs", elapsed),
		slog.Float64("duration_ms", stitched.DurationMS()))
	return Result{Audio: stitched, Chunks: chunks, TTFS: elapsed}, nil
}

// synthRemaining fans out chunks 1..N with bounded concurrency. The first
// failure cancels every in-flight call; results land at their original index
// so stitch order never depends on completion order.
func (o *Orchestrator) synthRemaining(parent context.Context, chunks []prosody.Chunk, voice string, buffers []audio.Buffer) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sem := make(chan struct{}, o.opts.Concurrency)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	for i := 1; i < len(chunks); i++ {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			buf, err := o.synthChunk(ctx, chunks[i], voice)
			if err != nil {
				select {
				case errCh <- err:
				default:
				}
				cancel()
				return
			}
			buffers[i] = buf
		}(i)
	}
	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
	}
	return parent.Err()
}

func (o *Orchestrator) synthChunk(ctx context.Context, chunk prosody.Chunk, voice string) (audio.Buffer, error) {
	buf, err := o.synth.Synthesize(ctx, tts.Request{Text: chunk.Text, Voice: voice})
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("synthesize chunk %q: %w", chunk.Text, err)
	}
	if buf.Empty() {
		return audio.Buffer{}, fmt.Errorf("synthesize chunk %q: %w", chunk.Text, tts.ErrEmptyAudio)
	}
	return buf, nil
}
