package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/oarkflow/log"
	"github.com/peterh/liner"

	"github.com/oarkflow/cash/interpreter"
	"github.com/oarkflow/cash/pkg/config"
	"github.com/oarkflow/cash/pkg/history"
)

const continuationPrompt = "...   "

// interrupter cancels the statement currently being evaluated on SIGINT.
// SIGTERM is left to its default action so the process can still be killed.
type interrupter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	sigc   chan os.Signal
}

func newInterrupter() *interrupter {
	it := &interrupter{sigc: make(chan os.Signal, 1)}
	signal.Notify(it.sigc, os.Interrupt)
	go func() {
		for range it.sigc {
			it.mu.Lock()
			if it.cancel != nil {
				it.cancel()
			}
			it.mu.Unlock()
		}
	}()
	return it
}

func (it *interrupter) feed(session *interpreter.Session, line string) {
	ctx, cancel := context.WithCancel(context.Background())
	it.mu.Lock()
	it.cancel = cancel
	it.mu.Unlock()

	_ = session.Feed(ctx, line)

	it.mu.Lock()
	it.cancel = nil
	it.mu.Unlock()
	cancel()
}

func (it *interrupter) stop() {
	signal.Stop(it.sigc)
	close(it.sigc)
}

func runRepl(session *interpreter.Session, cfg *config.Config, logger *log.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var hist *history.File
	if cfg.HistoryFile != "" {
		hist = history.New(config.ExpandPath(cfg.HistoryFile))
		if _, err := hist.Load(ln.ReadHistory); err != nil {
			logger.Warn().Str("path", hist.Path()).Err(err).Msg("failed to read history")
		}
		defer func() {
			if _, err := hist.Save(ln.WriteHistory); err != nil {
				logger.Warn().Str("path", hist.Path()).Err(err).Msg("failed to write history")
			}
		}()
	}

	it := newInterrupter()
	defer it.stop()

	for {
		prompt := cfg.Prompt
		if session.Pending() {
			prompt = continuationPrompt
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "exit" && !session.Pending() {
			break
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		it.feed(session, line)
	}
	_ = session.Flush(context.Background())
	return nil
}

// runPlain reads statements from a non-terminal stdin without a prompt.
func runPlain(session *interpreter.Session, r io.Reader) error {
	it := newInterrupter()
	defer it.stop()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			it.feed(session, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	_ = session.Flush(context.Background())
	return nil
}
