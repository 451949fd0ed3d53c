package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load topics, lessons and quiz questions from a YAML catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("--file is required")
		}
		migrate, _ := cmd.Flags().GetBool("migrate")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if migrate {
			if err := a.Migrate(); err != nil {
				return err
			}
		}
		res, err := a.Seed(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d topics, %d lessons, %d questions\n", res.Topics, res.Lessons, res.Questions)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "Path to the catalog YAML file")
	seedCmd.Flags().Bool("migrate", true, "Run migrations before seeding")
}
