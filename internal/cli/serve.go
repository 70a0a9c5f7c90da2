package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okislab/placemat/internal/server"
	"github.com/okislab/placemat/pkg/store"
)

// defaultListenAddr is used when neither the flag nor the config set one.
const defaultListenAddr = ":8080"

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the board HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		dataDir   string
		mongoURI  string
		mongoDB   string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board HTTP API",
		Long: `Serve the board HTTP API: board CRUD, collapse/expand, region tree,
and rendering. Boards persist in the selected store backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			spin := newSpinner(ctx, "Connecting to "+storeKind+" store")
			spin.Start()
			st, err := c.openStore(ctx, storeKind, dataDir, mongoURI, mongoDB)
			if err != nil {
				spin.StopWithError(err.Error())
				return err
			}
			spin.Stop()
			defer st.Close(context.Background())

			runner := c.newRunner(noCache)
			defer runner.Close()

			srv := &http.Server{
				Addr:              c.listenAddr(addr),
				Handler:           server.New(st, runner, logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", srv.Addr, "store", storeKind)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or "+defaultListenAddr+")")
	cmd.Flags().StringVar(&storeKind, "store", "file", "board store backend: file, memory, mongo")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "board directory for the file store")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongo connection URI (default from config)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "mongo database name (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render artifact cache")

	return cmd
}

// openStore builds the board store for the requested backend.
func (c *CLI) openStore(ctx context.Context, kind, dataDir, mongoURI, mongoDB string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(dataDir)
	case "mongo":
		if mongoURI == "" {
			mongoURI = c.Config.Mongo.URI
		}
		if mongoDB == "" {
			mongoDB = c.Config.Mongo.Database
		}
		if mongoURI == "" {
			return nil, fmt.Errorf("mongo store requires --mongo-uri or a [mongo] config section")
		}
		if mongoDB == "" {
			mongoDB = appName
		}
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be 'file', 'memory', or 'mongo')", kind)
	}
}

// listenAddr returns the effective listen address: the flag when set, else
// the config value, else the built-in default.
func (c *CLI) listenAddr(flag string) string {
	if flag != "" {
		return flag
	}
	if c.Config.Listen != "" {
		return c.Config.Listen
	}
	return defaultListenAddr
}
