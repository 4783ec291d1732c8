package media

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/mynaparrot/speech-translate/pkg/config"
)

// AudioInfo is what we could learn from the WAV header.
type AudioInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ProbeWAV reads the header of a WAV file without decoding the samples.
func ProbeWAV(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", config.ErrNotFound, path)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid wav file", config.ErrUnsupportedAudio, path)
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrUnsupportedAudio, err)
	}

	info := &AudioInfo{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
	}
	return info, nil
}
