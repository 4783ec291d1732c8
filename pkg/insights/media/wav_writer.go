package media

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

const (
	// raw pcm input is expected in the format most speech services want
	DefaultPCMSampleRate = 16000
	DefaultPCMChannels   = 1
	pcmBitsPerSample     = 16
)

// WAVWriter wraps 16-bit little endian PCM data into a WAV container.
type WAVWriter struct {
	writer      io.WriteSeeker
	sampleRate  uint32
	numChannels uint32

	mu       sync.Mutex
	numBytes uint32
}

// NewWAVWriter writes a header with placeholder sizes. Close fixes them.
func NewWAVWriter(out io.WriteSeeker, sampleRate, numChannels uint32) (*WAVWriter, error) {
	w := &WAVWriter{
		writer:      out,
		sampleRate:  sampleRate,
		numChannels: numChannels,
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends raw PCM bytes. len(p) should be a multiple of the block size.
func (w *WAVWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.writer.Write(p)
	w.numBytes += uint32(n)
	return n, err
}

// WriteSamples appends 16-bit samples.
func (w *WAVWriter) WriteSamples(samples []int16) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := binary.Write(w.writer, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.numBytes += uint32(len(samples) * 2)
	return nil
}

// Close finalizes the header. A writer that is also an io.Closer is closed
// even when the header could not be written.
func (w *WAVWriter) Close() error {
	err := w.updateHeader()
	if c, ok := w.writer.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (w *WAVWriter) writeHeader() error {
	byteRate := w.sampleRate * w.numChannels * pcmBitsPerSample / 8
	blockAlign := uint16(w.numChannels * pcmBitsPerSample / 8)

	fields := []interface{}{
		[]byte("RIFF"),
		uint32(0), // riff size, fixed on close
		[]byte("WAVE"),
		[]byte("fmt "),
		uint32(16), // pcm fmt chunk size
		uint16(1),  // pcm
		uint16(w.numChannels),
		w.sampleRate,
		byteRate,
		blockAlign,
		uint16(pcmBitsPerSample),
		[]byte("data"),
		uint32(0), // data size, fixed on close
	}
	for _, f := range fields {
		if err := binary.Write(w.writer, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func (w *WAVWriter) updateHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.writer.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.LittleEndian, w.numBytes+36); err != nil {
		return err
	}
	if _, err := w.writer.Seek(40, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(w.writer, binary.LittleEndian, w.numBytes)
}
