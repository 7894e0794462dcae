// Package command provides CLI command definitions for livewatch.
package command

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/livewatch-go/internal/cli/output"
	"github.com/yndnr/livewatch-go/internal/storage/snapshot"
)

// SessionsCommand returns the persisted session listing command.
func SessionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "sessions",
		Aliases: []string{"ls"},
		Usage:   "List persisted recording sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "live-id",
				Aliases: []string{"l"},
				Usage:   "Only show sessions of this live ID",
			},
		},
		Action: sessionsList,
	}
}

func sessionsList(c *cli.Context) error {
	// Listing needs nothing but the data directory, so the config is
	// loaded without record-path validation.
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	infos, err := snapshot.List(cfg.DataDir)
	if err != nil {
		return err
	}

	if liveID := c.String("live-id"); liveID != "" {
		filtered := infos[:0]
		for _, info := range infos {
			if info.LiveID == liveID {
				filtered = append(filtered, info)
			}
		}
		infos = filtered
	}

	flags := ParseGlobalFlags(c)
	return outputSessions(flags, infos)
}

func outputSessions(flags *GlobalFlags, infos []*snapshot.Info) error {
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		if infos == nil {
			infos = []*snapshot.Info{}
		}
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, infos)
	default:
		table := &output.Table{
			Headers: []string{"LIVE ID", "SESSION", "DATE", "LIVE", "CHATS", "MEMBERS", "FOLLOWS", "GIFTS", "SIZE", "SAVED AT"},
		}
		for _, info := range infos {
			savedAt := info.SavedAt
			if savedAt == "" {
				savedAt = "-"
			}
			table.AddRow(
				info.LiveID,
				strconv.Itoa(info.Session),
				info.Date,
				strconv.FormatBool(info.IsLive),
				strconv.Itoa(info.ChatMessages),
				strconv.Itoa(info.Members),
				strconv.Itoa(info.Follows),
				strconv.Itoa(info.GiftTypes),
				strconv.FormatInt(info.Size, 10),
				savedAt,
			)
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d sessions\n", len(infos))
		return nil
	}
}
