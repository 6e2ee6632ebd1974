package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/MrSnakeDoc/bugtrack/internal/app"
	"github.com/MrSnakeDoc/bugtrack/internal/config"
	"github.com/MrSnakeDoc/bugtrack/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("❌ bugtrack failed to start: %v", err)
	}
}

func run(args []string) error {
	var (
		showVersion bool
		seedFile    string
		listen      string
	)

	flagSet := pflag.NewFlagSet("bugtrack", pflag.ContinueOnError)
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.StringVar(&seedFile, "seed-file", "", "seed YAML file (overrides BUGTRACK_SEED_FILE)")
	flagSet.StringVar(&listen, "listen", "", "listen address, ex: :8080 (overrides BUGTRACK_LISTEN_PORT)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println(version.Get().String())
		return nil
	}

	cfg := config.Load()
	applyFlags(cfg, flagSet, seedFile, listen)

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run()
}

// applyFlags overrides env config with flags that were set explicitly.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, seedFile, listen string) {
	if fs.Changed("seed-file") {
		cfg.SeedFile = seedFile
	}
	if fs.Changed("listen") {
		cfg.ListenPort = listen
	}
}
