package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"groupmap/internal/checkpoint"
	"groupmap/internal/logging"
	"groupmap/internal/store"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var againstCatalog bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show checkpoint progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			cp, err := checkpoint.Open(cfg.Checkpoint.Path)
			if err != nil {
				return fmt.Errorf("open checkpoint: %w", err)
			}
			defer cp.Close()

			rows := [][]string{
				{"Checkpoint", cp.Path()},
				{"Processed groups", strconv.Itoa(cp.Count())},
			}

			if againstCatalog {
				st, err := store.Open(cfg.Database, logging.NewNop())
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer st.Close()

				groupIDs, err := st.GroupIDs(cmd.Context())
				if err != nil {
					return fmt.Errorf("list groups: %w", err)
				}
				remaining := 0
				for _, id := range groupIDs {
					if !cp.IsProcessed(id) {
						remaining++
					}
				}
				rows = append(rows,
					[]string{"Catalog groups", strconv.Itoa(len(groupIDs))},
					[]string{"Remaining", strconv.Itoa(remaining)},
				)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&againstCatalog, "against-catalog", false, "Compare the checkpoint against the group catalog in the store")
	return cmd
}
