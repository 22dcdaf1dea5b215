package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	vacationUntil string
	vacationClear bool
)

var vacationCmd = &cobra.Command{
	Use:   "vacation <user>",
	Short: "Set or clear a user's vacation window (forces all connectors read-only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if vacationClear {
			if err := store.SetVacationUntil(userID, nil); err != nil {
				return err
			}
			fmt.Printf("Cleared vacation mode for user %s\n", userID)
			return nil
		}

		if vacationUntil == "" {
			until, err := store.VacationUntil(userID)
			if err != nil {
				return err
			}
			if until == nil {
				fmt.Printf("No vacation window set for user %s\n", userID)
			} else {
				fmt.Printf("Vacation mode for user %s until %s\n", userID, until.Format(time.RFC3339))
			}
			return nil
		}

		until, err := time.Parse(time.RFC3339, vacationUntil)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
		if err := store.SetVacationUntil(userID, &until); err != nil {
			return err
		}
		log.Infow("vacation mode set", "user", userID, "until", until)
		fmt.Printf("Vacation mode for user %s until %s\n", userID, until.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	vacationCmd.Flags().StringVar(&vacationUntil, "until", "", "RFC3339 end of the vacation window")
	vacationCmd.Flags().BoolVar(&vacationClear, "clear", false, "Clear the vacation window")
	rootCmd.AddCommand(vacationCmd)
}
