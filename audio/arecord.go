// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"strconv"

	"github.com/ashbuk/croaker/config"
)

// arecordArgs builds the arecord command line for a plain WAV file capture.
// Grounded on the teacher's ArecordRecorder.buildCommandArgs, trimmed of the
// raw/streaming branch since this package never captures to a pipe.
func arecordArgs(cfg *config.Config, outputFile string) []string {
	return []string{
		"-D", cfg.Audio.Device,
		"-f", arecordFormat(cfg.Audio.Format),
		"-r", strconv.Itoa(cfg.Audio.SampleRate),
		"-c", strconv.Itoa(cfg.Audio.Channels),
		"-t", "wav",
		outputFile,
	}
}

// arecordFormat maps the TOML format name to arecord's -f argument.
func arecordFormat(format string) string {
	switch format {
	case "s24le":
		return "S24_LE"
	case "s32le":
		return "S32_LE"
	default:
		return "S16_LE"
	}
}
