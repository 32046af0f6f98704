package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/stubserver"
)

func newStubCmd(c *cli) *cobra.Command {
	var (
		seed bool
		port int
	)
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve an in-memory backend until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg.Stub
			if cmd.Flags().Changed("port") {
				if port < 1 || port > 65535 {
					return fmt.Errorf("invalid --port %d: must be between 1 and 65535", port)
				}
				cfg.Port = port
			}
			srv, err := stubserver.New(&cfg, c.logger)
			if err != nil {
				return err
			}
			if seed {
				srv.Store().Seed(time.Now())
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "start with a demo catalog")
	cmd.Flags().IntVar(&port, "port", 0, "listen port, overrides stub.port")
	return cmd
}
