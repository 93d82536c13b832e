package main

import (
	"fmt"
	"os"

	"github.com/CrymeFTW/1v1-games/config"
	"github.com/CrymeFTW/1v1-games/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "versus"
	app.Usage = "Play battleship over the LAN, one host, one challenger, one stream."
	app.Version = config.BuildVersion
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "the optional TOML configuration `FILE`",
		},
		&cli.IntFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Value:   logger.INFO,
			Usage:   "the log level",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "the RE2 regex pattern to filter log",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "host",
			Usage:  "Host a game and wait for the challenger",
			Action: hostGameCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "listener",
					Usage: "the address to listen on",
				},
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Value:   config.DefaultPort,
					Usage:   "the port to listen on",
				},
				&cli.StringFlag{
					Name:    "transport",
					Aliases: []string{"t"},
					Usage:   "the stream transport, tcp, quic, ws or unix",
				},
				&cli.IntFlag{
					Name:  "rpc",
					Usage: "the status RPC port, 0 disables it",
				},
				&cli.BoolFlag{
					Name:  "metric",
					Usage: "whether to count messages by type",
				},
			},
		},
		{
			Name:   "join",
			Usage:  "Join a hosted game at an address",
			Action: joinGameCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "address",
					Aliases: []string{"a"},
					Usage:   "the host address to connect to",
				},
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Value:   config.DefaultPort,
					Usage:   "the host port to connect to",
				},
				&cli.StringFlag{
					Name:    "transport",
					Aliases: []string{"t"},
					Usage:   "the stream transport, tcp, quic, ws or unix",
				},
				&cli.IntFlag{
					Name:  "rpc",
					Usage: "the status RPC port, 0 disables it",
				},
				&cli.BoolFlag{
					Name:  "metric",
					Usage: "whether to count messages by type",
				},
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
	}
}
