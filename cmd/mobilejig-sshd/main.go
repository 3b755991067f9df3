package main

// Serves the terminal jigsaw over SSH. Every session plays its own board;
// the leaderboard database is shared between sessions.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/3841cccyc/mobilejig/bubbles/puzzle"
	"github.com/3841cccyc/mobilejig/jigsaw"
	"github.com/3841cccyc/mobilejig/scores"
)

var (
	host        = flag.String("host", "0.0.0.0", "ssh listen address")
	port        = flag.Int("port", 23235, "ssh listen port")
	hostKeyPath = flag.String("host-key", ".ssh/id_ed25519", "ssh host key path")
	rows        = flag.Int("rows", 4, "board rows")
	cols        = flag.Int("cols", 4, "board cols")
	shapeMode   = flag.String("shape", "irregular", "piece shape: regular or irregular")
	difficulty  = flag.String("difficulty", "easy", "easy, medium or hard")
	dbPath      = flag.String("db", "mobilejig.db", "sqlite file for scores and saves")
)

func init() {
	switch os.Getenv("MOBILEJIG_LOG_FORMAT") {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	}
}

func main() {
	flag.Parse()

	shape, err := jigsaw.ParseShape(*shapeMode)
	if err != nil {
		log.Fatal("bad flag", "error", err)
	}
	diff, err := jigsaw.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal("bad flag", "error", err)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	rootCtx := ctx

	ctx, sigCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	var grp errgroup.Group

	store, err := scores.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("could not open score database", "path", *dbPath, "error", err)
	}
	defer store.Close()

	teaHandler := func(sess ssh.Session) *tea.Program {
		m, err := puzzle.New(puzzle.Config{
			Rows:       *rows,
			Cols:       *cols,
			Shape:      shape,
			Difficulty: diff,
			Shuffle:    true,
			Store:      store,
			Slot:       sess.User(),
		})
		if err != nil {
			log.Error("session setup failed", "user", sess.User(), "error", err)
			return nil
		}
		opts := append(bubbletea.MakeOptions(sess), tea.WithAltScreen())
		return tea.NewProgram(m, opts...)
	}

	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(*host, fmt.Sprint(*port))),
		wish.WithHostKeyPath(*hostKeyPath),
		wish.WithMiddleware(
			bubbletea.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal("could not create SSH server", "error", err)
	}

	log.Info("starting SSH server", "addr", net.JoinHostPort(*host, fmt.Sprint(*port)))
	if err := runSSH(&grp, cancel, s); err != nil {
		log.Fatal("failed to start SSH server", "error", err)
	}

	<-ctx.Done()
	if err = context.Cause(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server failed", "error", err)
	}

	log.Info("stopping SSH server")
	if err := shutdownSSH(s, 30*time.Second); err != nil {
		log.Error("could not stop server", "error", err)
	}

	if err := grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("error shutting down", "error", err)
	}
}

func runSSH(grp *errgroup.Group, cancel context.CancelCauseFunc, s *ssh.Server) error {
	grp.Go(func() error {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			cancel(err)
			return err
		}
		return nil
	})
	return nil
}

func shutdownSSH(s *ssh.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		if errors.Is(err, context.DeadlineExceeded) {
			return s.Close()
		}
		return err
	}
	return nil
}
