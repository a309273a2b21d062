package cli

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/customseal/internal/config"
)

type rootState struct {
	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	st := &rootState{}
	cmd := &cobra.Command{
		Use:   "customseal",
		Short: "Wizard de sellos de cámara húmeda a medida",
		Long: `customseal sirve el wizard de diseño (marco, alineación, scan o medidas)
y las herramientas de administración de los diseños confirmados.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st.cfg = cfg
			setupLogging(cfg.LogLevel)
			return nil
		},
	}

	cmd.AddCommand(newServeCmd(st), newExportCmd(st), newFramesCmd(st))
	return cmd
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
