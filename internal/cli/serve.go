package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/rpc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		flags  attachFlags
		listen string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the oracle over JSON-RPC",
		Long: `Start a local JSON-RPC server that a UI drives the oracle through:
- oracle_info, oracle_get_price and wallet methods for any local client
- oracle_instantiate and oracle_update_price for admin clients only
- Health check endpoint at /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.newProvider()
			if err != nil {
				return err
			}
			svc, err := provider.GetOracleService()
			if err != nil {
				return err
			}
			if err := flags.attach(cmd.Context(), svc); err != nil {
				return err
			}
			rpcServer, err := provider.GetRPCServer()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.RPC.Listen
			}

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, newMux(rpcServer), a)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default: rpc.listen from config)")
	return cmd
}

func newMux(rpcServer *rpc.Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", rpcServer)
	mux.Handle("/rpc", rpcServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"oraclectl"}`))
	})
	return mux
}

// serve runs the HTTP server on ln until ctx is done, then shuts it down.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, a *app) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("rpc server listening", "addr", ln.Addr().String(), "network", a.cfg.Network.Name)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("rpc server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
