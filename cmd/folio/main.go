package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	folio "github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/cmd/internal/bootstrap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type app struct {
	configFile string
	module     *folio.Module
	loaded     *bootstrap.Loaded
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root, a := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Markdown blog pipeline",
		Long:          "folio indexes a directory of markdown posts, pre-renders mermaid diagrams and builds a static blog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./folio.yaml)")
	flags.String("content-dir", "", "directory holding <slug>.md posts")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-provider", "", "console, gologger or zap")

	root.AddCommand(
		newBuildCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newDiagramsCommand(a),
		newGraphsCommand(a),
		newServeCommand(a),
	)
	return root, a
}

func (a *app) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	bound := map[string]*pflag.Flag{
		"content.dir":      flags.Lookup("content-dir"),
		"logging.level":    flags.Lookup("log-level"),
		"logging.provider": flags.Lookup("log-provider"),
	}
	for key, name := range commandFlagKeys {
		if flag := flags.Lookup(name); flag != nil {
			bound[key] = flag
		}
	}

	module, loaded, err := bootstrap.BuildModule(bootstrap.Options{
		ConfigFile: a.configFile,
		Flags:      bound,
	})
	if err != nil {
		return err
	}
	a.module = module
	a.loaded = loaded
	if loaded.ConfigFile != "" {
		module.Logger("folio.cli").Debug("cli.config.loaded", "file", loaded.ConfigFile)
	}
	return nil
}

func (a *app) close() error {
	if a.module == nil {
		return nil
	}
	return a.module.Close()
}

// commandFlagKeys maps subcommand flags onto config keys.
var commandFlagKeys = map[string]string{
	"generator.output_dir":   "out",
	"generator.base_url":     "base-url",
	"content.include_drafts": "drafts",
	"diagrams.workers":       "workers",
	"diagrams.engine":        "engine",
}
