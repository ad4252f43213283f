package cmd

import (
	"github.com/spf13/cobra"
)

var cardsOwner string

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards of the gallery",
	Long: `List the cards of the gallery, newest first.

Examples:
  mesto-cli cards                      # all cards as a table
  mesto-cli cards --owner cousteau     # only cards of one user
  mesto-cli cards --format json        # machine-readable output`,
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
		if cardsOwner != "" {
			kept := cards[:0]
			for _, c := range cards {
				if c.Owner.ID == cardsOwner {
					kept = append(kept, c)
				}
			}
			cards = kept
		}

		if outputFormat == "json" {
			return displayCardsJSON(cmd.OutOrStdout(), cards)
		}
		return displayCardsTable(cmd.OutOrStdout(), cards)
	},
}

func init() {
	cardsCmd.Flags().StringVar(&cardsOwner, "owner", "", "only show cards of this user id")
	rootCmd.AddCommand(cardsCmd)
}
