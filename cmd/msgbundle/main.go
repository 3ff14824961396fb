// Command msgbundle resolves a message key against resource files on disk
// and prints the formatted result.
//
//	msgbundle -path i18n/messages -path i18n/defaults -locale fr_FR greet World
//	msgbundle -config i18n/bundle.yaml greet World
//
// Each -path adds a resource bundle; earlier paths take precedence. Layers
// declared in -config come after the -path layers.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	msgbundle "github.com/goliatone/go-msgbundle"
)

const (
	exitFormat = 1
	exitUsage  = 2
)

type pathFlag struct {
	items []string
}

func (f *pathFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *pathFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.items = append(f.items, part)
	}
	return nil
}

type cliConfig struct {
	paths   []string
	config  string
	locale  language.Tag
	verbose bool
	key     string
	args    []any
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgbundle: %v\n", err)
		os.Exit(exitUsage)
	}

	setupLogging(os.Stderr, cfg.verbose)

	out, err := run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgbundle: %v\n", err)
		os.Exit(exitFormat)
	}
	fmt.Println(out)
}

func parseFlags(argv []string) (cliConfig, error) {
	var (
		cfg    cliConfig
		paths  pathFlag
		locale string
	)

	fs := flag.NewFlagSet("msgbundle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&paths, "path", "resource base path, e.g. i18n/messages. Repeat flag to stack bundles.")
	fs.StringVar(&cfg.config, "config", "", "YAML or JSON file declaring layers and fallbacks")
	fs.StringVar(&locale, "locale", "", "locale to resolve (BCP 47 or underscore form); empty means root")
	fs.BoolVar(&cfg.verbose, "verbose", false, "log lookups and load failures")

	if err := fs.Parse(argv); err != nil {
		return cliConfig{}, err
	}

	if len(paths.items) == 0 && cfg.config == "" {
		return cliConfig{}, errors.New("at least one -path or a -config value is required")
	}
	if fs.NArg() == 0 {
		return cliConfig{}, errors.New("missing message key")
	}

	tag, err := msgbundle.ParseLocale(locale)
	if err != nil {
		return cliConfig{}, err
	}

	cfg.paths = paths.items
	cfg.locale = tag
	cfg.key = fs.Arg(0)
	for _, arg := range fs.Args()[1:] {
		cfg.args = append(cfg.args, arg)
	}
	return cfg, nil
}

func run(cfg cliConfig) (string, error) {
	opts := []msgbundle.Option{
		msgbundle.WithPaths(cfg.paths...),
		msgbundle.WithMissingKeyLog(cfg.verbose),
	}
	if cfg.config != "" {
		opts = append(opts, msgbundle.WithConfigFile(cfg.config))
	}

	bundleCfg, err := msgbundle.NewConfig(opts...)
	if err != nil {
		return "", err
	}

	bundle, err := bundleCfg.BuildBundle()
	if err != nil {
		return "", err
	}
	return bundle.Printf(cfg.locale, cfg.key, cfg.args...)
}

func setupLogging(f *os.File, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    !isatty.IsTerminal(f.Fd()),
		TimeFormat: time.DateTime,
	}
	msgbundle.SetLogger(zerolog.New(w).Level(level).With().Timestamp().Str("sys", "msgbundle").Logger())
}
