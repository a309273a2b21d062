package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/phenrril/customseal/internal/app"
)

func newServeCmd(st *rootState) *cobra.Command {
	var (
		port string
		noDB bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP del wizard",
		Example: `  customseal serve
  customseal serve --port 3000 --no-db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := st.cfg
			if port != "" {
				cfg.Port = port
			}

			var db *gorm.DB
			if !noDB {
				var err error
				db, err = app.OpenDB(cfg)
				if err != nil {
					return err
				}
			}
			application, err := app.NewApp(cfg, db)
			if err != nil {
				return err
			}
			if err := application.Migrate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go application.RunJanitor(ctx)

			server := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           application.HTTPHandler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			serverErr := make(chan error, 1)
			go func() {
				zlog.Info().Str("addr", server.Addr).Str("flow", string(application.WizardUC.Flow())).Msg("servidor iniciado")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				zlog.Info().Msg("apagando servidor")
				shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				return server.Shutdown(shutdownCtx)
			case err := <-serverErr:
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Puerto (default PORT)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "No persistir diseños")
	return cmd
}
