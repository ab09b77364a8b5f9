package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/dealflow/internal/model"
)

var ceosCmd = &cobra.Command{
	Use:   "ceos",
	Short: "Export watchlist CEOs to the leads CSV",
	Long: `Find the CEO (or failing that a founder) of every company on the
configured watchlist and write companyName, firstName, email, companyUrn
and ceoName to sheet.leads_csv. A company address is used when no
candidate has a personal email.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedHarmonic, model.NeedWatchlist)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.CEOs(cmd.Context())
		return err
	},
}

// leadsCmd groups leads file maintenance
var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Maintain the leads CSV",
}

var leadsFillEmailsCmd = &cobra.Command{
	Use:   "fill-emails",
	Short: "Look up emails for leads that have none",
	Long: `For every leads row with a companyUrn and no email, try current CEOs and
founders, then any current employee, then the company address.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedHarmonic)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.FillEmails(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(ceosCmd, leadsCmd)
	leadsCmd.AddCommand(leadsFillEmailsCmd)
}
