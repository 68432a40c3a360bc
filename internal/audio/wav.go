package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAVFile dumps a buffer to a 16-bit mono WAV file. Used for debug
// captures of stitched output; the wire format stays raw PCM16.
func WriteWAVFile(path string, b Buffer) error {
	if b.Rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.Rate)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer file.Close()

	intBuf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: b.Rate},
		SourceBitDepth: 16,
		Data:           make([]int, len(b.Samples)),
	}
	for i, s := range b.Samples {
		intBuf.Data[i] = int(int16(clamp(s, -1, 1) * 32767))
	}

	enc := wav.NewEncoder(file, b.Rate, 16, 1, 1)
	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
