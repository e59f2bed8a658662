package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair the blotter archive",
	Long: `Removes active blotters that already have an archive row and archives
active blotters whose status is settled or closed.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, db, err := session()
	if err != nil {
		return err
	}
	events := services.NewBlotterEventService(cfg)
	defer events.Disconnect()

	blotters := services.NewBlotterService(db, cfg, events, metrics.Default())
	report, err := blotters.ReconcileArchive(context.Background(), services.SystemActor)
	if err != nil {
		return err
	}

	cmd.Printf("Duplicates removed: %d\n", len(report.DuplicatesRemoved))
	cmd.Printf("Archived: %d\n", len(report.Archived))
	for _, e := range report.Errors {
		cmd.PrintErrf("error: %s\n", e)
	}
	return nil
}
