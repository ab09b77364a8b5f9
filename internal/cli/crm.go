package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/dealflow/internal/jobs"
	"github.com/ppiankov/dealflow/internal/model"
)

var (
	analyzeFromSheet bool
	ycMark           bool
)

// crmCmd groups the CRM workflows
var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "Cross-check the spreadsheet against the CRM",
}

var crmAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add sheet companies to the target list",
	Long: `Resolve every sheet company in the CRM, create the organization when it
is unknown and add it to the target list unless it is already there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedAffinity, model.NeedTargetList, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.CRMAdd(cmd.Context())
		return err
	},
}

var crmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Annotate sheet rows with CRM presence",
	Long: `Add or refresh the In Affinity, Affinity List Name, Affinity Org ID,
Contacted, Contacted Evidence and Last Checked columns of every row,
keeping the existing columns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedAffinity, model.NeedTargetList, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.CRMCheck(cmd.Context())
		return err
	},
}

var crmAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Write a relationship report for every lead",
	Long: `Look up every lead in the CRM and write its list memberships, target list
status fields, notes timeline and a relationship summary to the sheet.
Leads come from the leads CSV unless --from-sheet is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedAffinity, model.NeedTargetList, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.Analyze(cmd.Context(), jobs.AnalyzeOptions{FromSheet: analyzeFromSheet})
		return err
	},
}

var crmYCCheckCmd = &cobra.Command{
	Use:   "yc-check",
	Short: "Flag sheet companies on accelerator batch lists",
	Long: `Report sheet companies that sit on any CRM list marked yc: true in
affinity.lists. With --mark the list names are written to a YC Lists column.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{}, model.NeedAffinity, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.YCCheck(cmd.Context(), ycMark)
		return err
	},
}

var crmRaisingLaterCmd = &cobra.Command{
	Use:   "raising-later",
	Short: "List target list companies marked raising later",
	Long: `Check the status field of every target list entry in parallel
(concurrency.status_workers) and write the companies whose status is one of
affinity.fields.raising_later_options, with their latest note.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, done, err := newEnv(cmd.Context(), envOptions{},
			model.NeedAffinity, model.NeedTargetList, model.NeedStatusFields, model.NeedSheet)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.RaisingLater(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(crmCmd)
	crmCmd.AddCommand(crmAddCmd, crmCheckCmd, crmAnalyzeCmd, crmYCCheckCmd, crmRaisingLaterCmd)

	crmAnalyzeCmd.Flags().BoolVar(&analyzeFromSheet, "from-sheet", false, "read leads from the sheet instead of the leads CSV")
	crmYCCheckCmd.Flags().BoolVar(&ycMark, "mark", false, "write matching list names to a YC Lists column")
}
