// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// startPulseCapture is the "pulse" AudioConfig.RecordingMethod: a native
// PulseAudio client connection instead of a spawned arecord/ffmpeg
// subprocess. Grounded on rbright-sotto's internal/audio/pulse.go
// (NewClient/NewRecord/pulse.Writer streaming shape); adapted from its
// fixed-size-chunk streaming API to accumulate PCM in memory and flush a
// single WAV file on Stop, matching what AudioRecorder.Start's contract
// and the rest of this package already expect a RecordingHandle to
// produce (Stop returns a finished WAV path for TranscriptionClient to
// upload, not a live stream).
func startPulseCapture(outputFile string, sampleRate int, tempMgr *TempFileManager, log logger.Logger) (session.RecordingHandle, error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("croaker"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulseaudio server: %w", err)
	}

	h := &pulseHandle{
		client:     client,
		outputFile: outputFile,
		sampleRate: sampleRate,
		tempMgr:    tempMgr,
		log:        log,
	}

	writer := pulse.NewWriter(writerFunc(h.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordMono,
		pulse.RecordSampleRate(uint32(sampleRate)),
		pulse.RecordMediaName("croaker dictation"),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create pulseaudio record stream: %w", err)
	}

	h.stream = stream
	stream.Start()

	return h, nil
}

// pulseHandle implements internal/session.RecordingHandle over a native
// PulseAudio record stream rather than a subprocess.
type pulseHandle struct {
	mu sync.Mutex

	client     *pulse.Client
	stream     *pulse.RecordStream
	outputFile string
	sampleRate int
	tempMgr    *TempFileManager
	log        logger.Logger

	pcm      []byte
	finished bool
}

// onPCM appends every frame Pulse delivers; see startPulseCapture's doc comment
// for why this accumulates in memory rather than streaming to disk.
func (h *pulseHandle) onPCM(buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return 0, errors.New("capture stopped")
	}
	h.pcm = append(h.pcm, buf...)
	return len(buf), nil
}

// Stop halts the stream and writes the accumulated PCM as a WAV file.
func (h *pulseHandle) Stop(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return h.outputFile, nil
	}
	h.finished = true
	h.closeStream()

	if len(h.pcm) == 0 {
		h.tempMgr.RemoveFile(h.outputFile, true)
		return "", errors.New("capture produced no audio data")
	}

	if err := writeWAV(h.outputFile, h.pcm, h.sampleRate, 1); err != nil {
		h.tempMgr.RemoveFile(h.outputFile, true)
		return "", fmt.Errorf("write captured audio: %w", err)
	}

	// The session controller now owns the file's lifecycle, mirroring
	// recordingHandle.Stop's subprocess-based handoff in recorder.go.
	h.tempMgr.RemoveFile(h.outputFile, false)
	return h.outputFile, nil
}

// Abort halts the stream and discards the file without writing it out.
func (h *pulseHandle) Abort() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return
	}
	h.finished = true
	h.closeStream()
	h.tempMgr.RemoveFile(h.outputFile, true)
}

func (h *pulseHandle) closeStream() {
	if h.stream != nil {
		h.stream.Stop()
		h.stream.Close()
	}
	if h.client != nil {
		h.client.Close()
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }

// writeWAV writes a minimal canonical PCM WAV file: 16-bit signed
// little-endian samples, the layout every downstream consumer (arecord's
// -f S16_LE, ffmpeg's pcm_s16le) in this package already produces.
func writeWAV(path string, pcm []byte, sampleRate, channels int) error {
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	f, err := os.Create(path) // #nosec G304 -- path is a daemon-managed temp file, not untrusted input.
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	if _, err := f.Write(header); err != nil {
		return err
	}
	_, err = f.Write(pcm)
	return err
}
