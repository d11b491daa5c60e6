package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alecthomas/repr"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"golox/internal"
)

// Exit codes from sysexits.h
const (
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
)

func main() {
	app := &cli.App{
		Name:      "lox",
		Usage:     "run lox scripts or start an interactive prompt",
		ArgsUsage: "[script]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file, defaults to ~/" + defaultConfigFile,
				EnvVars: []string{"LOX_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "panic, fatal, error, warn, info, debug or trace",
				EnvVars: []string{"LOX_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "print errors without color",
			},
			&cli.BoolFlag{
				Name:  "dump-tokens",
				Usage: "print the scanned tokens before running a script",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("Usage: lox [script]", exitUsage)
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		tracerr.PrintSourceColor(err)
		return cli.Exit(tracerr.Unwrap(err), exitNoInput)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("no-color") {
		cfg.Color = false
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	in := internal.NewInterpreter(internal.Options{
		Printer:  stdPrinter{out: os.Stdout},
		Reporter: newReporter(os.Stderr, cfg.Color),
		Logger:   logger,
	})

	if c.NArg() == 0 {
		return runPrompt(in, cfg, logger)
	}
	return runFile(in, c.Args().First(), c.Bool("dump-tokens"), logger)
}

func runFile(in *internal.Interpreter, path string, dumpTokens bool, logger *logrus.Logger) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cli.Exit(err, exitNoInput)
	}

	b, err := ioutil.ReadFile(absPath)
	if err != nil {
		err = tracerr.Wrap(err)
		if logger.IsLevelEnabled(logrus.DebugLevel) {
			tracerr.PrintSourceColor(err)
		}
		return cli.Exit(tracerr.Unwrap(err), exitNoInput)
	}
	source := string(b)

	if dumpTokens {
		// Scanned separately so lex errors are reported once, by the run below
		repr.Println(internal.NewInterpreter(internal.Options{}).Scan(source))
	}

	logger.WithField("file", absPath).Debug("running script")
	return exitCode(in.Run(source))
}

func exitCode(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, internal.ErrSyntax):
		return cli.Exit("", exitDataErr)
	case errors.Is(err, internal.ErrRuntime):
		return cli.Exit("", exitSoftware)
	}
	return err
}
