package main

import (
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/ztrue/tracerr"

	"golox/internal"
)

type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runPrompt(in *internal.Interpreter, cfg config, logger *logrus.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		if _, err := ln.ReadHistory(f); err != nil {
			logger.WithField("file", cfg.HistoryFile).Debug(err)
		}
		f.Close()
	}
	defer func() {
		f, err := os.Create(cfg.HistoryFile)
		if err != nil {
			logger.WithField("file", cfg.HistoryFile).Warn(err)
			return
		}
		defer f.Close()
		ln.WriteHistory(f)
	}()

	err := repl(in, ln, cfg.Prompt)
	if err != nil {
		return err
	}
	os.Stdout.WriteString("\n")
	return nil
}

// repl runs one line at a time on the same interpreter, an error in a line
// does not end the session
func repl(in *internal.Interpreter, rl lineReader, prompt string) error {
	for {
		line, err := rl.Prompt(prompt)
		if err == io.EOF || err == liner.ErrPromptAborted {
			return nil
		}
		if err != nil {
			return tracerr.Wrap(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rl.AppendHistory(line)

		in.Run(line)
		in.ClearErrors()
	}
}
