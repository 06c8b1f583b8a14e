package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/internal/config"
	"github.com/comalice/presenterx/internal/demo"
	"github.com/comalice/presenterx/journal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the UI; logs go to a file.
	logPath := filepath.Join(os.TempDir(), "presenterx-demo.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", logPath, err)
	}
	defer logFile.Close()
	level := slog.LevelInfo
	if cfg.Presenter.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	store, err := cfg.Journal.OpenStore(ctx)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	recorder := journal.NewRecorder(cfg.Journal.Capacity)
	graph := journal.NewGraph()
	transitions := make(chan presenterx.Transition, 64)
	publisher := journal.NewChannelPublisher(transitions)

	opts, err := cfg.PresenterOptions()
	if err != nil {
		return err
	}
	opts = append(opts,
		presenterx.WithLogger(logger),
		presenterx.WithObserver(recorder),
		presenterx.WithObserver(graph),
		presenterx.WithObserver(publisher),
	)

	screens, err := demo.All(ctx, demo.Options{Tick: cfg.Demo.Tick, Presenter: opts})
	if err != nil {
		return fmt.Errorf("build screens: %w", err)
	}

	program := tea.NewProgram(newModel(ctx, screens, transitions, cfg.Demo.Tick), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		program.Quit()
	}()
	_, runErr := program.Run()

	for _, s := range screens {
		if err := s.Dispose(); err != nil {
			logger.Error("screen failed", "screen", s.Name(), "err", err)
		}
	}
	_ = publisher.Close()

	if store != nil {
		if err := saveJournal(context.Background(), store, recorder, screens); err != nil {
			logger.Error("save journal", "err", err)
		}
		dotPath := filepath.Join(cfg.Journal.Dir, "variants.dot")
		if err := os.WriteFile(dotPath, []byte(graph.ExportDOT()), 0o644); err != nil {
			logger.Error("write graph", "path", dotPath, "err", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("ui: %w", runErr)
	}
	return nil
}

func saveJournal(ctx context.Context, store journal.Store, recorder *journal.Recorder, screens []demo.Screen) error {
	for _, s := range screens {
		snap := recorder.Snapshot(s.ID())
		if len(snap.Transitions) == 0 {
			continue
		}
		if err := store.Save(ctx, snap); err != nil {
			return fmt.Errorf("screen %s: %w", s.Name(), err)
		}
	}
	return nil
}
