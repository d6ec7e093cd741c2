package main

import (
	"fmt"
	"os"
	"time"

	"github.com/2beens/maxpot/internal/cli"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

var CLI struct {
	Env      string `help:"Config environment [dev | development | prod | production]." default:"development"`
	Config   string `help:"TOML config file path." type:"path" default:"./config.toml"`
	EnvFile  string `help:"Optional .env file with secrets." default:".env"`
	Timezone string `help:"Timezone for offline commands." default:"Local"`
	Debug    bool   `help:"Enable debug logging."`

	Export   cli.ExportCmd   `cmd:"" help:"Export a user's stored document."`
	Import   cli.ImportCmd   `cmd:"" help:"Import (restore) a document for a user."`
	Sanitize cli.SanitizeCmd `cmd:"" help:"Print the sanitized version of a document file."`
	Report   cli.ReportCmd   `cmd:"" help:"Print readiness timeline and streak for a document file."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("maxpot_tools"),
		kong.Description("maintenance tools for maxpot user documents"),
		kong.UsageOnError(),
	)

	if CLI.Debug {
		log.SetLevel(log.DebugLevel)
	}

	location, err := time.LoadLocation(CLI.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load timezone [%s]: %v\n", CLI.Timezone, err)
		os.Exit(1)
	}

	err = ctx.Run(&cli.Context{
		Env:        CLI.Env,
		ConfigPath: CLI.Config,
		EnvFile:    CLI.EnvFile,
		Location:   location,
		Out:        os.Stdout,
		Now:        time.Now,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
