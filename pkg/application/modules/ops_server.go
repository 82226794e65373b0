package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"transfer_scanner/pkg/probe"
)

// OpsServer serves /healthz, /ready and /metrics on one address.
type OpsServer struct {
	Name          string
	Version       string
	ListenAddress string
	Ready         probe.ReadyFunc
}

func (o OpsServer) Run(ctx context.Context, g *errgroup.Group) {
	server := probe.NewServer(
		o.ListenAddress,
		probe.Options{
			Name:    o.Name,
			Version: o.Version,
			Ready:   o.Ready,
		},
	)

	g.Go(func() error {
		if err := server.Run(ctx); err != nil {
			return fmt.Errorf("opsServer.Run: %w", err)
		}

		return nil
	})
}
