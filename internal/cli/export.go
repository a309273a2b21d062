package cli

import (
	"fmt"
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/customseal/internal/adapters/export/xlsx"
	"github.com/phenrril/customseal/internal/adapters/repo/postgres"
	"github.com/phenrril/customseal/internal/app"
	"github.com/phenrril/customseal/internal/domain"
	"github.com/phenrril/customseal/internal/usecase"
)

func newExportCmd(st *rootState) *cobra.Command {
	var (
		out   string
		kind  string
		frame string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta los diseños confirmados a XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenDB(st.cfg)
			if err != nil {
				return err
			}
			uc := &usecase.DesignUC{Designs: postgres.NewDesignRepo(db), Exporter: xlsx.New()}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			n, err := uc.Export(cmd.Context(), f, domain.DesignFilter{Kind: domain.SubmissionKind(kind), FrameID: frame})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return fmt.Errorf("exportar: %w", err)
			}
			zlog.Info().Int("diseños", n).Str("archivo", out).Msg("export listo")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "designs.xlsx", "Archivo de salida")
	cmd.Flags().StringVar(&kind, "kind", "", "Filtrar por tipo (measurements|scan)")
	cmd.Flags().StringVar(&frame, "frame", "", "Filtrar por id de marco")
	return cmd
}
