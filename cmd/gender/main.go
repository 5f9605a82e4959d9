// Command gender prints the gender score of a first name: 0.0 female,
// 1.0 male, 0.5 unisex or unknown.
//
//	gender Finn
//	gender "Finn Nielsen"
//	gender --output json Kim
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	app "github.com/okian/navne/internal/app"
	"github.com/okian/navne/internal/config"
	"github.com/okian/navne/internal/domain/gender"
	"github.com/okian/navne/pkg/logger"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	outputPlain = "plain"
	outputJSON  = "json"
	outputYAML  = "yaml"

	exitFailure = 1
	exitUsage   = 2
)

var (
	version = "v0.0.1-default"

	errUsage = errors.New("usage: gender [options] <name>")

	dataDirFlag = &cli.StringFlag{
		Name:  "data-dir",
		Usage: "Directory holding the name lists (default: lists built into the binary)",
	}
	encodingFlag = &cli.StringFlag{
		Name:  "encoding",
		Usage: "Text encoding of the name lists",
	}
	inputEncodingFlag = &cli.StringFlag{
		Name:  "input-encoding",
		Usage: "Text encoding of the <name> argument",
		Value: "utf-8",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Output format [plain, json, yaml]",
		Value: outputPlain,
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level written to stderr [debug, info, warn, error]",
		Value: "warn",
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gender: "+err.Error())
		if errors.Is(err, errUsage) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := &cli.Command{
		Name:            "gender",
		Usage:           "Predict the gender of a first name",
		ArgsUsage:       "<name>",
		Version:         version,
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			dataDirFlag,
			encodingFlag,
			inputEncodingFlag,
			outputFlag,
			logLevelFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return predict(ctx, cmd, stdout, stderr)
		},
	}
	return cmd.Run(ctx, args)
}

func predict(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	if n := cmd.Args().Len(); n != 1 {
		return fmt.Errorf("%w: expected exactly one name, got %d arguments", errUsage, n)
	}
	format := cmd.String(outputFlag.Name)
	switch format {
	case outputPlain, outputJSON, outputYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q", errUsage, format)
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		return err
	}
	if err := logger.SetLevelString(cmd.String(logLevelFlag.Name)); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	name, err := decodeArg(cmd.Args().First(), cmd.String(inputEncodingFlag.Name))
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cmd.IsSet(dataDirFlag.Name) {
		cfg.DataDir = cmd.String(dataDirFlag.Name)
	}
	if cmd.IsSet(encodingFlag.Name) {
		cfg.Encoding = cmd.String(encodingFlag.Name)
	}
	lookupOpts, err := cfg.LookupOptions()
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Named("gender")),
		app.WithLookupOptions(lookupOpts...),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	p, err := svc.Predict(ctx, name)
	if err != nil {
		return err
	}
	return encode(stdout, format, p)
}

// decodeArg converts a command line argument from the terminal's encoding to UTF-8.
func decodeArg(arg, label string) (string, error) {
	enc, err := gender.EncodingByName(label)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUsage, err)
	}
	b, err := gender.Decode([]byte(arg), enc)
	if err != nil {
		return "", fmt.Errorf("decode name argument: %w", err)
	}
	return string(b), nil
}

func encode(w io.Writer, format string, p app.Prediction) error {
	switch format {
	case outputJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(p)
	case outputYAML:
		return yaml.NewEncoder(w).Encode(p)
	default:
		_, err := fmt.Fprintln(w, strconv.FormatFloat(p.Score, 'f', 1, 64))
		return err
	}
}
