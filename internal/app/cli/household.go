package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
)

var nextHouseholdCmd = &cobra.Command{
	Use:   "next-household",
	Short: "Print the number the next household would get",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := session()
		if err != nil {
			return err
		}
		number, err := services.NewHouseholdService(db, cfg).NextHouseholdNumber(context.Background())
		if err != nil {
			return err
		}
		cmd.Println(number)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextHouseholdCmd)
}
