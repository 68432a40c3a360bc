package prosody

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyText is returned by Parse when the input contains no words.
var ErrEmptyText = errors.New("prosody: text is empty")

// Chunk is one text segment destined for independent synthesis. Chunks are
// created by Parse and never mutated afterwards.
type Chunk struct {
	Text               string
	BoundaryBefore     BoundaryType
	BoundaryAfter      BoundaryType
	IsFirst            bool
	IsFinal            bool
	PositionRatio      float64
	EstimatedSyllables int
}

// NewChunk validates the chunk invariants: non-blank text, position ratio in
// [0,1] and a non-negative syllable estimate.
func NewChunk(text string, before, after BoundaryType, isFirst, isFinal bool, positionRatio float64, syllables int) (Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return Chunk{}, errors.New("prosody: chunk text must not be blank")
	}
	if positionRatio < 0 || positionRatio > 1 {
		return Chunk{}, fmt.Errorf("prosody: position ratio must be in [0,1], got %v", positionRatio)
	}
	if syllables < 0 {
		return Chunk{}, fmt.Errorf("prosody: syllable estimate must be >= 0, got %d", syllables)
	}
	return Chunk{
		Text:               text,
		BoundaryBefore:     before,
		BoundaryAfter:      after,
		IsFirst:            isFirst,
		IsFinal:            isFinal,
		PositionRatio:      positionRatio,
		EstimatedSyllables: syllables,
	}, nil
}

// PauseAfter returns the pause duration in milliseconds owed after this chunk.
func (c Chunk) PauseAfter() float64 { return PauseFor(c.BoundaryAfter).PauseMS }

// CanBreathAfter reports whether a breath may be placed after this chunk.
func (c Chunk) CanBreathAfter() bool { return PauseFor(c.BoundaryAfter).CanBreath }

// BreathProbabilityAfter returns the breath probability after this chunk.
func (c Chunk) BreathProbabilityAfter() float64 { return PauseFor(c.BoundaryAfter).BreathProbability }

// Options tunes the greedy chunker. Zero values fall back to the defaults.
type Options struct {
	// FirstChunkWords is the unconditional size of the first chunk. Keeping
	// it tiny is what makes time-to-first-speech low.
	FirstChunkWords int
	// MaxSyllablesBeforeBreath forces a breath break once a chunk has
	// accumulated this many syllables without a natural boundary.
	MaxSyllablesBeforeBreath int
	// MinWordsPerChunk stops clause and phrase boundaries from producing
	// one-word fragments.
	MinWordsPerChunk int
}

// DefaultOptions returns the tuning used in production.
func DefaultOptions() Options {
	return Options{
		FirstChunkWords:          2,
		MaxSyllablesBeforeBreath: 10,
		MinWordsPerChunk:         2,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FirstChunkWords <= 0 {
		o.FirstChunkWords = d.FirstChunkWords
	}
	if o.MaxSyllablesBeforeBreath <= 0 {
		o.MaxSyllablesBeforeBreath = d.MaxSyllablesBeforeBreath
	}
	if o.MinWordsPerChunk <= 0 {
		o.MinWordsPerChunk = d.MinWordsPerChunk
	}
	return o
}

// Parse splits text into an ordered chunk sequence in a single greedy
// left-to-right pass. The first chunk is cut after exactly
// Options.FirstChunkWords words regardless of natural boundaries; later
// chunks close at sentence boundaries, at clause or phrase boundaries once
// MinWordsPerChunk words have accumulated, or at a forced breath once the
// syllable budget runs out. Blank text is an error.
func Parse(text string, opts Options) ([]Chunk, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	opts = opts.withDefaults()

	total := len(words)
	chunks := make([]Chunk, 0, 1+total/4)

	// The first chunk is emitted unconditionally so synthesis can start
	// before the rest of the utterance has even been scanned.
	idx := min(opts.FirstChunkWords, total)
	firstText := strings.Join(words[:idx], " ")
	firstAfter := BoundarySentence
	if idx < total {
		firstAfter = DetectBoundary(words[idx-1], words[idx])
	}
	first, err := NewChunk(firstText, BoundarySentence, firstAfter, true, idx == total,
		float64(idx)/float64(total), CountSyllables(firstText))
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, first)
	if idx == total {
		return chunks, nil
	}

	prevAfter := firstAfter
	var current []string
	syllables := 0

	flush := func(after BoundaryType, isFinal bool) error {
		chunkText := strings.Join(current, " ")
		c, err := NewChunk(chunkText, prevAfter, after, false, isFinal,
			float64(idx)/float64(total), syllables)
		if err != nil {
			return err
		}
		chunks = append(chunks, c)
		prevAfter = after
		current = current[:0]
		syllables = 0
		return nil
	}

	for idx < total {
		word := words[idx]
		current = append(current, word)
		syllables += EstimateSyllables(word)
		idx++

		next := ""
		if idx < total {
			next = words[idx]
		}
		boundary := DetectBoundary(word, next)

		switch {
		case boundary == BoundarySentence:
			if err := flush(boundary, idx == total); err != nil {
				return nil, err
			}
		case (boundary == BoundaryClause || boundary == BoundaryPhrase) && len(current) >= opts.MinWordsPerChunk:
			if err := flush(boundary, idx == total); err != nil {
				return nil, err
			}
		case syllables >= opts.MaxSyllablesBeforeBreath && len(current) >= 3:
			// A forced break masquerades as a breath only when no real
			// boundary exists; a natural boundary is never downgraded.
			if boundary == BoundaryNone {
				boundary = BoundaryBreath
			}
			if err := flush(boundary, idx == total); err != nil {
				return nil, err
			}
		}
	}

	// Trailing words that never hit a break condition become the final chunk.
	// The end of the utterance is always a sentence boundary.
	if len(current) > 0 {
		if err := flush(BoundarySentence, true); err != nil {
			return nil, err
		}
	}

	return chunks, nil
}

// FormatAnalysis renders the chunking of text for debugging and tuning.
// Presentation only; synthesis never reads this.
func FormatAnalysis(text string, firstChunkWords int) string {
	opts := DefaultOptions()
	if firstChunkWords > 0 {
		opts.FirstChunkWords = firstChunkWords
	}
	chunks, err := Parse(text, opts)
	if err != nil {
		return fmt.Sprintf("prosodic analysis failed: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "prosodic analysis: %d chunks\n", len(chunks))
	for i, c := range chunks {
		flags := ""
		if c.IsFirst {
			flags += " first"
		}
		if c.IsFinal {
			flags += " final"
		}
		fmt.Fprintf(&b, "  [%d] %q boundary=%s pause=%.0fms syllables=%d pos=%.2f%s\n",
			i, c.Text, c.BoundaryAfter, c.PauseAfter(), c.EstimatedSyllables, c.PositionRatio, flags)
	}
	return b.String()
}
