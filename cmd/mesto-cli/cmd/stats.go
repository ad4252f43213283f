package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nfrund/mesto/internal/gallery"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show gallery statistics",
	Long: `Fetch the current card list and show the same statistics as the
gallery's statistics dialog: participants, total likes, the most active
liker and the most liked cards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cards, err := client.GetCardList(cmd.Context())
		if err != nil {
			return err
		}
		st := gallery.ComputeStats(cards)

		if outputFormat == "json" {
			return displayStatsJSON(cmd.OutOrStdout(), st)
		}
		return displayStatsTable(cmd.OutOrStdout(), st)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
