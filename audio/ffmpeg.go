// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"strconv"

	"github.com/ashbuk/croaker/config"
)

// ffmpegArgs builds the ffmpeg command line for a plain WAV file capture
// from an ALSA source. Grounded on the teacher's FFmpegRecorder.buildCommandArgs,
// trimmed of the streaming/buffer pipe-output branch.
func ffmpegArgs(cfg *config.Config, outputFile string) []string {
	return []string{
		"-y",
		"-f", "alsa",
		"-i", cfg.Audio.Device,
		"-ar", strconv.Itoa(cfg.Audio.SampleRate),
		"-ac", strconv.Itoa(cfg.Audio.Channels),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		outputFile,
	}
}
