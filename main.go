// cindy TUI - A terminal client for the Cindy answering service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/cindy-tui/internal/api"
	"github.com/jeranaias/cindy-tui/internal/cache"
	"github.com/jeranaias/cindy-tui/internal/cli"
	"github.com/jeranaias/cindy-tui/internal/config"
	"github.com/jeranaias/cindy-tui/internal/convo"
	"github.com/jeranaias/cindy-tui/internal/storage"
	"github.com/jeranaias/cindy-tui/internal/ui/chat"
	"github.com/jeranaias/cindy-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		serverURL   = flag.String("server", "", "answering service base URL (overrides config)")
		plain       = flag.Bool("plain", false, "line-oriented mode, no full-screen UI")
		showVersion = flag.Bool("version", false, "print version and exit")
		listHistory = flag.Bool("history", false, "list saved conversations and exit")
		resume      = flag.String("resume", "", "resume a saved conversation by ID")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("cindy %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	configDir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Recovered errors go to a log file; the terminal belongs to the UI.
	logFile, err := os.OpenFile(filepath.Join(configDir, "cindy.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	transcripts := storage.NewStore(configDir, cfg.HistoryLimit)
	if *listHistory {
		if err := printHistory(transcripts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.ServerURL,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	var answers convo.AnswerCache
	var store *cache.Store
	if cfg.CacheEnabled {
		// A broken cache only disables learning.
		if store, err = cache.Open(filepath.Join(configDir, "answers.db")); err == nil {
			answers = store
		} else {
			log.Printf("answer cache unavailable: %v", err)
		}
	}
	if store != nil {
		defer store.Close()
	}

	if *plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		runPlain(client, answers, transcripts, *resume)
		return
	}
	runTUI(cfg, client, answers, transcripts, *resume)
}

// =============================================================================
// FULL-SCREEN MODE
// =============================================================================

func runTUI(cfg *config.Config, client *api.Client, answers convo.AnswerCache, transcripts *storage.Store, resumeID string) {
	renderer := chat.NewProgramRenderer()
	coordinator := newCoordinator(client, renderer, answers, transcripts, resumeID)

	theme := styles.NewTheme(cfg.DarkMode)
	m := chat.NewModel(coordinator, theme, Version)

	// Quick reachability probe so the banner can warn about a dead service
	// before the first question fails.
	probeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if _, err := client.FetchWelcome(probeCtx); err != nil {
		m.SetOffline(true)
	}
	cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	renderer.SetProgram(p)

	if watcher, err := config.Watch(); err == nil {
		defer watcher.Close()
		go func() {
			for {
				msg := chat.WatchConfigCmd(watcher)()
				if msg == nil {
					return
				}
				p.Send(msg)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	saveOnExit(transcripts, coordinator, resumeID)
}

// =============================================================================
// PLAIN MODE
// =============================================================================

func runPlain(client *api.Client, answers convo.AnswerCache, transcripts *storage.Store, resumeID string) {
	renderer := cli.NewPlainRenderer(os.Stdout)
	coordinator := newCoordinator(client, renderer, answers, transcripts, resumeID)

	if err := cli.Run(coordinator, renderer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	saveOnExit(transcripts, coordinator, resumeID)
}

// =============================================================================
// HELPERS
// =============================================================================

func newCoordinator(client *api.Client, renderer convo.Renderer, answers convo.AnswerCache, transcripts *storage.Store, resumeID string) *convo.Coordinator {
	coordinator := convo.New(client, renderer, answers)
	if resumeID == "" {
		return coordinator
	}
	saved, err := transcripts.Load(resumeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return coordinator
	}
	return convo.NewWithTranscript(client, renderer, answers, storage.Restore(saved))
}

func saveOnExit(transcripts *storage.Store, coordinator *convo.Coordinator, sessionID string) {
	if _, err := transcripts.Save(sessionID, coordinator.Transcript()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func printHistory(transcripts *storage.Store) error {
	summaries, err := transcripts.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("Aucune conversation enregistrée.")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  (%d messages, %s)\n",
			s.ID, s.Title, s.Count, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
