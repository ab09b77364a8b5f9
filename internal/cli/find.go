package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/dealflow/internal/jobs"
	"github.com/ppiankov/dealflow/internal/model"
)

var (
	findMaxURNs       int
	findCandidates    int
	findTop           int
	findMinHighlights int
	findExcludeFile   string
	findIcebreakers   bool

	portfolioNamesFile string
	portfolioLabel     string
)

var sourcingReqs = []model.Requirement{model.NeedHarmonic, model.NeedAffinity, model.NeedTargetList, model.NeedSheet}

// findCmd groups the sourcing searches
var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Source net-new companies into the spreadsheet",
	Long: `Search the intelligence API, rank and filter the results, find a CEO
with an email for each company and drop every company with history in the
CRM. The spreadsheet is replaced with the results in one write.`,
}

var findTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Early-stage startups most likely to raise soon",
	Long: `Rank pre-seed and seed companies by traction (headcount, web traffic and
follower growth, highlights, stealth emergence, capital efficiency) and
write the top net-new ones.

Example:
  dealflow find top
  dealflow find top --top 50 --exclude-file known.txt --icebreakers`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := findOptions()
		if err != nil {
			return err
		}
		env, done, err := newEnv(cmd.Context(), envOptions{icebreakers: findIcebreakers}, sourcingReqs...)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.FindTop(cmd.Context(), opts)
		return err
	},
}

var findRaisingCmd = &cobra.Command{
	Use:   "raising",
	Short: "Startups raising now, ranked with founder quality",
	Long: `Rank companies by raise likelihood plus founder quality (prior exits,
accelerator backing, elite employers and schools) and write the top
net-new ones with their founder signals.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := findOptions()
		if err != nil {
			return err
		}
		env, done, err := newEnv(cmd.Context(), envOptions{icebreakers: findIcebreakers}, sourcingReqs...)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.FindRaising(cmd.Context(), opts)
		return err
	},
}

var findPortfolioCmd = &cobra.Command{
	Use:   "portfolio [investor]",
	Short: "Early-stage portfolio companies of an investor",
	Long: `Collect the companies an investor backed (from the person's INVESTOR
experience and/or a names file), keep the early-stage ones, find their
CEOs and report each company's CRM status. CRM history is shown, not
filtered out.

Example:
  dealflow find portfolio "Jane Investor"
  dealflow find portfolio --names-file portfolio.txt --label "Angel list"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := jobs.PortfolioOptions{Label: portfolioLabel}
		if len(args) == 1 {
			opts.Investor = args[0]
		}
		if portfolioNamesFile != "" {
			names, err := jobs.ReadLines(portfolioNamesFile)
			if err != nil {
				return err
			}
			opts.Names = names
		}
		if opts.Investor == "" && len(opts.Names) == 0 {
			return cmd.Usage()
		}
		if findExcludeFile != "" {
			names, err := jobs.ReadLines(findExcludeFile)
			if err != nil {
				return err
			}
			opts.Exclude = names
		}

		env, done, err := newEnv(cmd.Context(), envOptions{}, sourcingReqs...)
		if err != nil {
			return err
		}
		defer done()
		_, err = env.FindPortfolio(cmd.Context(), opts)
		return err
	},
}

func findOptions() (jobs.FindOptions, error) {
	opts := jobs.FindOptions{
		MaxURNs:       findMaxURNs,
		Candidates:    findCandidates,
		TopN:          findTop,
		MinHighlights: findMinHighlights,
		Icebreakers:   findIcebreakers,
	}
	if findExcludeFile != "" {
		names, err := jobs.ReadLines(findExcludeFile)
		if err != nil {
			return opts, err
		}
		opts.Exclude = names
	}
	return opts, nil
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.AddCommand(findTopCmd, findRaisingCmd, findPortfolioCmd)

	for _, c := range []*cobra.Command{findTopCmd, findRaisingCmd} {
		c.Flags().IntVar(&findMaxURNs, "max-urns", 0, "search results to collect (default from config)")
		c.Flags().IntVar(&findCandidates, "candidates", 0, "ranked candidates to check against the CRM (default from config)")
		c.Flags().IntVar(&findTop, "top", 0, "rows to write (default from config)")
		c.Flags().IntVar(&findMinHighlights, "min-highlights", 0, "minimum company and employee highlights")
		c.Flags().BoolVar(&findIcebreakers, "icebreakers", false, "generate an icebreaker column with the configured LLM")
	}
	for _, c := range []*cobra.Command{findTopCmd, findRaisingCmd, findPortfolioCmd} {
		c.Flags().StringVar(&findExcludeFile, "exclude-file", "", "file of company names to skip, one per line")
	}
	findPortfolioCmd.Flags().StringVar(&portfolioNamesFile, "names-file", "", "file of portfolio company names, one per line")
	findPortfolioCmd.Flags().StringVar(&portfolioLabel, "label", "", "Investor column text (default: the investor name)")
}
