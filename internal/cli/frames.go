package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phenrril/customseal/internal/adapters/catalog"
)

func newFramesCmd(st *rootState) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Valida y lista el catálogo de marcos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = st.cfg.FrameCatalog
			}
			c, err := catalog.Load(path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, f := range c.List() {
				mark := ""
				if f.Popular {
					mark = " *"
				}
				fmt.Fprintf(w, "%-12s %s%s\n", f.ID, f.Name, mark)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "Archivo YAML (default FRAME_CATALOG o el embebido)")
	return cmd
}
