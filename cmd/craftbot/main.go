package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cfoust/craftbot/pkg/config"
	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Replay struct {
		Capture     string   `arg:"" name:"capture" help:"Capture file to replay." type:"existingfile"`
		Configs     []string `name:"config" short:"c" help:"Configuration files, applied in order." type:"existingfile"`
		GameVersion string   `name:"game-version" help:"Override the game version from the configuration."`
		Snapshot    string   `help:"Store the resulting state under this key."`
	} `cmd:"" help:"Run a recorded session through a bot and print the game state it ends in."`

	Features struct {
		GameVersion string `arg:"" name:"game-version" help:"Game version, such as 1.20.4."`
	} `cmd:"" help:"List the protocol features of a game version."`

	Config struct {
	} `cmd:"" help:"Write craftbot's default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func featuresCommand(gameVersion string) error {
	profile, err := features.ForVersion(gameVersion)
	if err != nil {
		return err
	}

	descriptions := make(map[string]string)
	for _, feature := range features.All() {
		descriptions[feature.Name] = feature.Description
	}

	for _, name := range profile.Names() {
		fmt.Printf("%-28s %s\n", name, descriptions[name])
	}
	return nil
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("craftbot"),
		kong.Description("a creative mode Minecraft bot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"craftbot %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf(
			"built %s\n",
			version.BuildTime,
		)
		os.Exit(0)
	}

	var err error
	switch {
	case strings.HasPrefix(ctx.Command(), "replay"):
		err = replayCommand()
	case strings.HasPrefix(ctx.Command(), "features"):
		err = featuresCommand(CLI.Features.GameVersion)
	case ctx.Command() == "config":
		_, err = os.Stdout.Write(config.DEFAULT)
	}

	if err != nil {
		writeError(err)
	}
}
