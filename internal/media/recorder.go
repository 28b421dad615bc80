package media

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"prepai/internal/services"
)

// DefaultChunkBytes is one second of 16 kHz 16-bit mono PCM.
const DefaultChunkBytes = 32000

// Microphone opens a stream of recorded audio bytes.
type Microphone interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileMicrophone replays an audio file as the microphone.
type FileMicrophone struct {
	Path string
}

// Open opens the configured file.
func (m FileMicrophone) Open(context.Context) (io.ReadCloser, error) {
	path := strings.TrimSpace(m.Path)
	if path == "" {
		return nil, services.Wrap(services.ErrDevice, "microphone", "open", "no audio source configured", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrDevice, "microphone", "open", path, err)
	}
	return f, nil
}

// Recorder slices a microphone into chunks every interval. One Recorder
// records once; create a new one per recording.
type Recorder struct {
	mic        Microphone
	interval   time.Duration
	chunkBytes int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRecorder returns a recorder emitting up to chunkBytes every interval.
func NewRecorder(mic Microphone, interval time.Duration, chunkBytes int) *Recorder {
	if interval <= 0 {
		interval = time.Second
	}
	if chunkBytes <= 0 {
		chunkBytes = DefaultChunkBytes
	}
	return &Recorder{
		mic:        mic,
		interval:   interval,
		chunkBytes: chunkBytes,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start opens the microphone and begins slicing. onChunk runs on the
// recorder goroutine; chunks are delivered in order and never after Done is
// closed. A final chunk is flushed when the recorder is stopped.
func (r *Recorder) Start(ctx context.Context, onChunk func([]byte)) error {
	if r.mic == nil {
		return services.Wrap(services.ErrDevice, "microphone", "open", "no microphone", nil)
	}
	src, err := r.mic.Open(ctx)
	if err != nil {
		return err
	}
	go r.run(ctx, src, onChunk)
	return nil
}

// Stop ends the recording. Done is closed once the final chunk is delivered.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Done is closed after the last chunk callback returns.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder) run(ctx context.Context, src io.ReadCloser, onChunk func([]byte)) {
	defer close(r.done)
	defer src.Close()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	exhausted := false
	emit := func() {
		if exhausted {
			return
		}
		buf := make([]byte, r.chunkBytes)
		n, err := io.ReadFull(src, buf)
		if n > 0 && onChunk != nil {
			onChunk(buf[:n])
		}
		if err != nil && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, os.ErrClosed)) {
			exhausted = true
		}
	}

	for {
		select {
		case <-ticker.C:
			emit()
		case <-r.stop:
			emit()
			return
		case <-ctx.Done():
			return
		}
	}
}
