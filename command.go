package main

import (
	"context"
	"fmt"

	"github.com/CrymeFTW/1v1-games/config"
	"github.com/CrymeFTW/1v1-games/console"
	"github.com/CrymeFTW/1v1-games/logger"
	"github.com/CrymeFTW/1v1-games/network"
	"github.com/CrymeFTW/1v1-games/rpc"
	"github.com/CrymeFTW/1v1-games/session"
	"github.com/urfave/cli/v2"
)

func hostGameCmd(c *cli.Context) error {
	custom, err := setupEnvironment(c)
	if err != nil {
		return err
	}

	bind := custom.Network.Listener
	if c.IsSet("listener") || c.IsSet("port") {
		bind = fmt.Sprintf("%s:%d", c.String("listener"), c.Int("port"))
	}
	tname := transportName(c, custom)
	transport, err := network.NewTransport(tname, bind)
	if err != nil {
		return err
	}

	logger.Printf("hosting on %s over %s, waiting for the challenger\n", bind, tname)
	peer, err := network.HostPeer(context.Background(), transport, metricEnabled(c, custom))
	if err != nil {
		return err
	}
	logger.Printf("challenger connected from %s\n", peer.Address())
	return play(session.RoleHost, peer, rpcPort(c, custom))
}

func joinGameCmd(c *cli.Context) error {
	custom, err := setupEnvironment(c)
	if err != nil {
		return err
	}

	if c.String("address") == "" {
		return fmt.Errorf("the host address is required")
	}
	target := fmt.Sprintf("%s:%d", c.String("address"), c.Int("port"))
	tname := transportName(c, custom)
	transport, err := network.NewTransport(tname, target)
	if err != nil {
		return err
	}

	logger.Printf("joining %s over %s\n", target, tname)
	peer, err := network.JoinPeer(context.Background(), transport, metricEnabled(c, custom))
	if err != nil {
		return err
	}
	return play(session.RoleJoiner, peer, rpcPort(c, custom))
}

func play(role session.Role, peer *network.Peer, rpcPort int) error {
	s := session.NewSession(role, peer)
	peer.Run(s)

	if rpcPort > 0 {
		go func() {
			err := rpc.StartHTTP(s, peer, rpcPort)
			if err != nil {
				logger.Errorf("rpc server %s\n", err)
			}
		}()
	}

	console.Run(s)
	peer.Close()
	return nil
}

func setupEnvironment(c *cli.Context) (*config.Custom, error) {
	custom := config.Default()
	if file := c.String("config"); file != "" {
		var err error
		custom, err = config.Initialize(file)
		if err != nil {
			return nil, err
		}
	}

	level := custom.Log.Level
	if c.IsSet("log") {
		level = c.Int("log")
	}
	logger.SetLevel(level)

	filter := custom.Log.Filter
	if c.IsSet("filter") {
		filter = c.String("filter")
	}
	err := logger.SetFilter(filter)
	if err != nil {
		return nil, err
	}
	if custom.Log.Limiter > 0 {
		logger.SetLimiter(custom.Log.Limiter)
	}
	return custom, nil
}

func transportName(c *cli.Context, custom *config.Custom) string {
	if c.IsSet("transport") {
		return c.String("transport")
	}
	return custom.Network.Transport
}

func metricEnabled(c *cli.Context, custom *config.Custom) bool {
	return custom.Network.Metric || c.Bool("metric")
}

func rpcPort(c *cli.Context, custom *config.Custom) int {
	if c.IsSet("rpc") {
		return c.Int("rpc")
	}
	return custom.RPC.Port
}
