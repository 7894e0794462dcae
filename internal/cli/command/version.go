// Package command provides CLI command definitions for livewatch.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/livewatch-go/internal/cli/output"
	"github.com/yndnr/livewatch-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	info := buildinfo.Get()

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, info)
	}

	fmt.Printf("livewatch %s (commit: %s, built: %s, %s)\n",
		info.Version, info.Commit, info.BuildTime, info.GoVersion)
	return nil
}
