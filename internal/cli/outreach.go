package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/dealflow/internal/model"
)

// lemlistCmd groups outreach commands
var lemlistCmd = &cobra.Command{
	Use:   "lemlist",
	Short: "Push leads to the outreach campaign",
}

var lemlistPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Add every sheet row with a company and email to the campaign",
	Long: `Add sheet rows to lemlist.campaign_id. Rows without a company are
skipped, rows without an email are listed, and leads already in the
campaign are counted as existing. The icebreaker column is forwarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedLemlist, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.LemlistPush(cmd.Context())
		return err
	},
}

// sheetCmd groups spreadsheet maintenance
var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Spreadsheet maintenance",
}

var sheetCleanNamesCmd = &cobra.Command{
	Use:   "clean-names",
	Short: "Tidy the companyName column",
	Long:  `Drop parenthetical tags such as "(YC W24)", emoji and a trailing ", Inc." from company names. Only changed cells are written.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.CleanNames(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(lemlistCmd, sheetCmd)
	lemlistCmd.AddCommand(lemlistPushCmd)
	sheetCmd.AddCommand(sheetCleanNamesCmd)
}
