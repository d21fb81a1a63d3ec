package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/budlinville/simplecross/params"
	"github.com/budlinville/simplecross/pkg/api"
	"github.com/budlinville/simplecross/pkg/cross"
	"github.com/budlinville/simplecross/pkg/util"
	"go.uber.org/zap"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	var logger *zap.Logger
	var err error
	if cfg.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.LogFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	engine := cross.New()

	if cfg.API.Enabled {
		srv := api.NewServer(engine, sugar)
		go func() {
			if err := srv.Start(cfg.API.Addr); err != nil {
				sugar.Fatalw("api_server_failed", "err", err)
			}
		}()
	}

	in, err := openActions(cfg.Input.ActionsFile)
	if err != nil {
		if cfg.API.Enabled {
			// Serve-only mode: no action stream, wait for shutdown.
			sugar.Warnw("actions_unavailable", "path", cfg.Input.ActionsFile, "err", err)
			waitForSignal(sugar)
			return
		}
		sugar.Errorw("actions_open_failed", "path", cfg.Input.ActionsFile, "err", err)
		os.Exit(1)
	}

	replay(engine, in, os.Stdout)
	if closer, ok := in.(io.Closer); ok {
		closer.Close()
	}

	if cfg.API.Enabled {
		waitForSignal(sugar)
	}
}

func openActions(path string) (io.Reader, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// replay streams action lines through the engine, writing each result
// line to out as it is produced.
func replay(engine *cross.SimpleCross, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, line := range engine.Action(scanner.Text()) {
			fmt.Fprintln(out, line)
		}
	}
}

func waitForSignal(sugar *zap.SugaredLogger) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	sugar.Infow("shutting_down", "signal", sig.String())
}
