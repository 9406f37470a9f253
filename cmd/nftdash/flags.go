package main

import "github.com/urfave/cli/v2"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.json",
		Usage:   "load configuration from `file`",
	}
	ListenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "listen on `addr`, overrides the config",
	}

	FeedTypeFlag = &cli.StringFlag{
		Name:  "type",
		Value: "All",
		Usage: "show only events of `type` (All, Sale, Transfer, Mint, List)",
	}
	FeedFiltersFlag = &cli.BoolFlag{
		Name:  "filters",
		Usage: "print the filter row",
	}
	FeedFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "read events from JSON `file` instead of the event store",
	}
	FeedLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "load at most `n` events from the store",
	}
)
