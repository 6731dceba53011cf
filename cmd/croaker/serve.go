// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ashbuk/croaker/audio"
	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/cleanup"
	"github.com/ashbuk/croaker/internal/feedback"
	"github.com/ashbuk/croaker/internal/inject"
	"github.com/ashbuk/croaker/internal/input"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
	"github.com/ashbuk/croaker/internal/transcribe"
	"github.com/ashbuk/croaker/internal/utils"
)

// defaultCleanupPrompt is used when groq.cleanup_prompt_file is empty or
// unreadable: a minimal instruction to fix punctuation and filler words
// without rewording the content, matching CleanupClient's contract in
// spec.md §4.3.
const defaultCleanupPrompt = "You clean up raw speech-to-text transcripts. " +
	"Fix punctuation, capitalization, and obvious filler words (um, uh, like). " +
	"Do not reword, summarize, or add content. Respond with only the cleaned text."

type serveOptions struct {
	configFile string
	debug      bool
}

func parseServeOptions(args []string) (*serveOptions, error) {
	opts := &serveOptions{}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "Path to config.toml (defaults to ~/.config/croaker/config.toml)")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: croaker serve [-config path] [-debug]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// runServe is the daemon composition root: it builds the seven
// session-facing components (AudioRecorder, TranscriptionClient,
// CleanupClient and TextInjector first, then the SessionController that
// wires those four, then FeedbackSink and InputSources, which take the
// controller), starts the controller and FeedbackSink before InputSources,
// and tears them down in reverse order on SIGINT/SIGTERM.
func runServe(args []string) int {
	opts, err := parseServeOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logLevel := logger.InfoLevel
	if opts.debug {
		logLevel = logger.DebugLevel
	}
	appLogger := logger.NewDefaultLogger(logLevel)

	configPath := opts.configFile
	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			appLogger.Error("resolve default config path: %v", err)
			return 1
		}
		configPath = path
		// Bundled-config detection only applies to the default path: an
		// explicit -config flag is always honored verbatim.
		configPath = adjustPathsForAppImage(appLogger, configPath)
		configPath = adjustPathsForFlatpak(appLogger, configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Error("load config: %v", err)
		return 1
	}
	if opts.debug {
		cfg.General.Debug = true
	}

	lockFile := utils.NewLockFile(utils.GetDefaultLockPath())
	if running, pid, err := lockFile.CheckExistingInstance(); err != nil {
		appLogger.Warning("failed to check for an existing instance: %v", err)
	} else if running {
		fmt.Fprintf(os.Stderr, "another instance of croaker is already running (PID: %d)\n", pid)
		fmt.Fprintf(os.Stderr, "if you're sure it isn't, remove the lock file: %s\n", lockFile.GetLockFilePath())
		return 1
	}
	if err := lockFile.TryLock(); err != nil {
		appLogger.Error("failed to acquire the single-instance lock: %v", err)
		return 1
	}
	defer func() {
		if err := lockFile.Unlock(); err != nil {
			appLogger.Warning("failed to release the single-instance lock: %v", err)
		}
	}()

	apiKey, err := config.LoadCredential(cfg.Groq.KeyFile)
	if err != nil {
		appLogger.Error("load groq credential: %v", err)
		return 1
	}

	timeout := time.Duration(cfg.Groq.RequestTimeoutMs) * time.Millisecond

	settings := session.RuntimeSettings{
		CurrentLanguage:  cfg.General.Language,
		Languages:        cfg.General.Languages,
		OutputMode:       session.ParseOutputMode(cfg.Output.OutputMode),
		APIKey:           apiKey,
		WhisperModel:     cfg.Groq.WhisperModel,
		CleanupEnabled:   cfg.Groq.CleanupEnabled,
		CleanupModel:     cfg.Groq.CleanupModel,
		CleanupPrompt:    loadCleanupPrompt(appLogger, cfg.Groq.CleanupPromptFile),
		KeystrokeDelay:   time.Duration(cfg.Output.KeystrokeDelayMs) * time.Millisecond,
		ClipboardRestore: cfg.Output.ClipboardRestore,
	}

	// 1. AudioRecorder, 2. TranscriptionClient, 3. CleanupClient,
	// 4. TextInjector.
	recorder := audio.NewRecorder(cfg, appLogger)
	transcriber := transcribe.New(apiKey, cfg.Groq.BaseURL, cfg.Groq.WhisperModel, timeout)
	cleaner := cleanup.New(apiKey, cfg.Groq.BaseURL, timeout)
	injector := inject.New(cfg, appLogger)

	// 7. SessionController wires the four components above. It is not run
	// until 5 and 6 are constructed and ready to observe/feed it.
	controller := session.NewController(session.Config{
		Logger:     appLogger,
		Recorder:   recorder,
		Transcribe: transcriber,
		Cleanup:    cleaner,
		Inject:     injector,
		Settings:   settings,
	})

	// 6. FeedbackSink.
	feedbackMgr := feedback.New(cfg, appLogger)

	// 5. InputSources.
	socketPath := utils.GetDefaultSocketPath()
	sources := input.New(cfg, controller, appLogger, socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	utils.Go(func() { controller.Run(ctx) })
	utils.Go(func() {
		// onQuit lets the tray's Quit menu item shut the whole daemon down.
		feedbackMgr.Run(ctx, controller.Feedback(), cancel)
	})

	sources.Start(ctx)

	appLogger.Info("croaker daemon listening on %s", socketPath)

	select {
	case <-sigCh:
		appLogger.Info("received shutdown signal")
	case <-ctx.Done():
		appLogger.Info("shutdown requested")
	}

	// Reverse startup order: InputSources stop accepting new events first,
	// then the controller (which aborts any in-flight session and waits
	// for its pipeline/injector goroutines), then FeedbackSink.
	cancel()
	sources.Stop()
	controller.Wait()
	if !utils.WaitAll(5 * time.Second) {
		appLogger.Warning("timed out waiting for background goroutines to exit")
	}

	appLogger.Info("croaker daemon stopped")
	return 0
}

func loadCleanupPrompt(log logger.Logger, path string) string {
	if strings.TrimSpace(path) == "" {
		return defaultCleanupPrompt
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is resolved from application configuration, not untrusted input.
	if err != nil {
		log.Warning("cleanup prompt file %s unreadable, using default: %v", path, err)
		return defaultCleanupPrompt
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return defaultCleanupPrompt
	}
	return prompt
}

// adjustPathsForAppImage mirrors the AppImage bundled-config detection the
// daemon entrypoint has always done: when running from an AppImage and no
// -config flag was given, prefer the config shipped next to AppRun.
func adjustPathsForAppImage(log logger.Logger, configPath string) string {
	if os.Getenv("APPIMAGE") == "" {
		return configPath
	}

	appDir := os.Getenv("APPDIR")
	if appDir == "" {
		if argv0 := os.Getenv("ARGV0"); strings.HasSuffix(argv0, "/AppRun") {
			appDir = filepath.Dir(argv0)
		}
	}
	if appDir == "" {
		log.Warning("running in AppImage but could not detect AppDir")
		return configPath
	}

	bundled := filepath.Join(appDir, "config.toml")
	if _, err := os.Stat(bundled); err == nil {
		log.Info("using AppImage bundled config: %s", bundled)
		return bundled
	}
	return configPath
}

// adjustPathsForFlatpak mirrors the daemon entrypoint's Flatpak detection.
func adjustPathsForFlatpak(log logger.Logger, configPath string) string {
	id := os.Getenv("FLATPAK_ID")
	if id == "" {
		return configPath
	}
	log.Info("running inside Flatpak: %s", id)

	flatpakConfig := "/app/share/croaker/config.toml"
	if _, err := os.Stat(flatpakConfig); err == nil {
		log.Info("using Flatpak config: %s", flatpakConfig)
		return flatpakConfig
	}
	return configPath
}
