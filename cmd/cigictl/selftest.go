package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/cigi/internal/config"
	"github.com/danmuck/cigi/internal/logging"
	"github.com/danmuck/cigi/internal/node"
	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/danmuck/cigi/internal/transport"
	"github.com/spf13/cobra"
)

func selftestCmd() *cobra.Command {
	var (
		duration time.Duration
		rate     float64
	)

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run a host and an IG against each other in memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()
			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()

			hs, gs, err := loopbackPair()
			if err != nil {
				return err
			}
			defer hs.Close()
			defer gs.Close()

			def := config.DefaultConfig()
			h := node.NewHost(hs, def.Host)
			def.IG.FrameRate = rate
			g := node.NewIG(gs, def.IG)

			errs := make(chan error, 2)
			for _, n := range []node.Node{h, g} {
				go func(n node.Node) { errs <- n.Run(ctx) }(n)
			}
			var runErr error
			for i := 0; i < 2; i++ {
				runErr = errors.Join(runErr, <-errs)
			}
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ig frames:   %d\n", g.Frames())
			fmt.Fprintf(out, "host frames: %d (missed %d)\n", h.Frames(), h.Missed())
			fmt.Fprintf(out, "host stats:  %+v\n", hs.Stats())
			fmt.Fprintf(out, "ig stats:    %+v\n", gs.Stats())
			if h.Frames() == 0 {
				return errors.New("selftest: host answered no frames")
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", time.Second, "how long to run")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 60, "IG frame rate in Hz")

	return cmd
}

// loopbackPair returns a host session and an IG session wired to each other.
func loopbackPair() (*session.Session, *session.Session, error) {
	toIG := transport.NewLoopback(64)
	toHost := transport.NewLoopback(64)
	hostTx, err := transport.NewDatagramSender(toIG, transport.DefaultMTU)
	if err != nil {
		return nil, nil, err
	}
	igTx, err := transport.NewDatagramSender(toHost, transport.DefaultMTU)
	if err != nil {
		return nil, nil, err
	}
	hs, err := session.New(hostTx, toHost, session.Config{})
	if err != nil {
		return nil, nil, err
	}
	gs, err := session.New(igTx, toIG, session.Config{})
	if err != nil {
		_ = hs.Close()
		return nil, nil, err
	}
	return hs, gs, nil
}
