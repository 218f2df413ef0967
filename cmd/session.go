package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/config"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/tracker"
)

// session bundles what every command needs: the data dir, config and an
// open tracker.
type session struct {
	base string
	cfg  config.Config
	tr   *tracker.Tracker
}

// openSession loads config and restores the tracker. Failures exit with 2.
func openSession() *session {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	store, err := storage.Open(cfg.Storage.Backend, base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	store = storage.Namespaced(store, cfg.Storage.Namespace)

	tr, err := tracker.Open(store, tracker.Options{Logger: slog.Default()})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if n := tr.Reconciled(); n > 0 {
		slog.Info("reconciled running timer", "seconds", n)
	}
	return &session{base: base, cfg: cfg, tr: tr}
}

// close flushes the tracker. Storage errors seen during the session exit
// with 2.
func (s *session) close() {
	if err := s.tr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "storage error: %v\n", err)
		os.Exit(2)
	}
}

// reject reports a refused operation and exits with 1.
func (s *session) reject(err error) {
	fmt.Fprintln(os.Stderr, err)
	if cerr := s.tr.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "storage error: %v\n", cerr)
	}
	os.Exit(1)
}
