// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package feedback

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"

	"github.com/ashbuk/croaker/internal/logger"
)

// GetIconMicOff returns the grey/idle tray icon. Grounded verbatim on
// internal/tray/icons.go: prefers an icon shipped inside an AppImage
// bundle (APPDIR) over the embedded gzip+base64 fallback, unchanged.
func GetIconMicOff(log logger.Logger) []byte {
	if data, ok := loadIconFromAppImage("croaker.png"); ok {
		return data
	}
	return mustDecodeIcon(iconMicOffBase64, log)
}

// GetIconMicOn returns the red/active tray icon.
func GetIconMicOn(log logger.Logger) []byte {
	if data, ok := loadIconFromAppImage("croaker-active.png"); ok {
		return data
	}
	return mustDecodeIcon(iconMicOnBase64, log)
}

func mustDecodeIcon(encoded string, log logger.Logger) []byte {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		panic("feedback: failed to decode icon: " + err.Error())
	}

	gzipReader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		panic("feedback: failed to create gzip reader: " + err.Error())
	}
	defer func() {
		if err := gzipReader.Close(); err != nil {
			log.Warning("failed to close gzip reader for tray icon: %v", err)
		}
	}()

	var buf bytes.Buffer
	// Limit decompressed size to mitigate decompression bombs.
	limited := io.LimitReader(gzipReader, 5*1024*1024)
	if _, err := io.Copy(&buf, limited); err != nil {
		panic("feedback: failed to decompress icon: " + err.Error())
	}
	return buf.Bytes()
}

func loadIconFromAppImage(name string) ([]byte, bool) {
	appDir := os.Getenv("APPDIR")
	if appDir == "" {
		return nil, false
	}
	candidates := []string{
		filepath.Join(appDir, name),
		filepath.Join(appDir, "usr/share/icons/hicolor/256x256/apps", name),
	}
	for _, p := range candidates {
		clean := filepath.Clean(p)
		if data, err := os.ReadFile(clean); err == nil && len(data) > 0 {
			return data, true
		}
	}
	return nil, false
}

// Base64-encoded gzipped PNG icons, carried over from
// internal/tray/icons.go (generated with: cat icon.png | gzip -9 | base64 -w 0).

// Microphone off icon (grey/idle).
const iconMicOffBase64 = `H4sIAAAAAAACA+sM8HPn5ZLiYmBg4PX0cAkC0gIgzAEkGKxmLNgLpJiSvN1dGP6395/ZD+Sxl3j6urK/5BAVZTJYomVvDBQS9HRxDJG4nLwm2YHVh0c5ioFhehHDPK4+xtdASdUS14iSlMSSVKvkolQgxWBkYGSqa2Cha2QYYmRoZWBkZWKhbWBgZWCw24MhE0VDbn5KZlolbg2nRHdcBWrQgGsoycxNLS5JzC3ArWcuw0yQZxk8Xf1c1jklNAEAa1L7qgEBAAA=`

// Microphone on icon (red/active).
const iconMicOnBase64 = `H4sIAAAAAAACA+sM8HPn5ZLiYmBg4PX0cAkC0gIgzMgMJFVtc5WAlEKyR5AvA0OVGgNDQwsDwy+gUMMLBoZSAwaGVwkMDFYzGBjEC+bsCrQBSrAF+IS4/mdg+P//v6OsiSBQhDHJ292F8T+T7j0gh73E09eV/SWHqCiTwRIte2OgEI+ni2MIx/XkBAVeIM+AgfH4qtY+kOUlrhElKYklqVbJRalAisHIwMhU18BC18gwxMjQysDIysRC28DAysBgtwdDJoqG3PyUzLRK3BpOie64CtSgAddQkpmbWlySmFuAW89chpmgQGLwdPVzWeeU0AQA5nQkVjkBAAA=`
