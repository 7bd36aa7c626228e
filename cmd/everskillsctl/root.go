package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"everskills/coaching-app/internal/config"
	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/plan"
	"everskills/coaching-app/internal/repository"
	"everskills/coaching-app/internal/repository/jsonfile"
)

// options are the flags shared by every command.
type options struct {
	configDir  string
	dataDir    string
	vocabulary string
	dryRun     bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "everskillsctl",
		Short: "Maintenance tool for EVERSKILLS campaign data.",
		Long: `everskillsctl works on the JSON store of the coaching app: it repairs
weekly plans, fills them from program texts and reports progress.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if !cmd.Flags().Changed("data-dir") {
				opts.dataDir = cfg.Store.DataDir
			}
			if !cmd.Flags().Changed("vocabulary") {
				opts.vocabulary = cfg.Plan.Vocabulary
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config", ".", "Directory holding config.yaml.")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "./data", "Directory of the JSON store (campaigns.json, users.json, ...).")
	root.PersistentFlags().StringVar(&opts.vocabulary, "vocabulary", string(domain.DefaultVocabulary), "Action status vocabulary: difficulty or tracking.")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without writing.")

	root.AddCommand(
		newNormalizeCmd(opts),
		newSyncCmd(opts),
		newProgressCmd(opts),
		newUserCmd(opts),
	)
	return root
}

func (o *options) vocab() domain.Vocabulary {
	return domain.ParseVocabulary(o.vocabulary)
}

func (o *options) store() (*jsonfile.Store, error) {
	return jsonfile.Open(o.dataDir, slog.Default())
}

func (o *options) campaigns() (repository.CampaignRepository, error) {
	store, err := o.store()
	if err != nil {
		return nil, err
	}
	return jsonfile.NewCampaignRepository(store), nil
}

// rewrite applies fn to every stored campaign and saves the result unless
// dry-run is set. It returns how many campaigns fn changed.
func (o *options) rewrite(ctx context.Context, fn func(domain.Campaign) domain.Campaign) (total, changed int, err error) {
	repo, err := o.campaigns()
	if err != nil {
		return 0, 0, err
	}
	all, err := repo.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	out := make([]domain.Campaign, len(all))
	for i, c := range all {
		out[i] = fn(c)
		if !sameJSON(c, out[i]) {
			changed++
		}
	}
	if o.dryRun || changed == 0 {
		return len(all), changed, nil
	}
	return len(all), changed, repo.SaveAll(ctx, out)
}

func sameJSON(a, b domain.Campaign) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

func newNormalizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Bring every weekly plan into canonical shape.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := plan.NewNormalizer(opts.vocab())
			if opts.cfg.Plan.DefaultWeeks > 0 {
				n.DefaultWeeks = opts.cfg.Plan.DefaultWeeks
			}
			total, changed, err := opts.rewrite(cmd.Context(), n.Normalize)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "normalized %d campaigns, %d changed%s\n", total, changed, dryRunSuffix(opts))
			return nil
		},
	}
}

func newSyncCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fill empty weeks from each campaign's program text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := plan.NewSyncEngine(opts.vocab())
			filled := 0
			total, changed, err := opts.rewrite(cmd.Context(), func(c domain.Campaign) domain.Campaign {
				out, ok := engine.Sync(engine.Normalizer.Normalize(c))
				if ok {
					filled++
				}
				return out
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d campaigns, %d plans filled, %d changed%s\n", total, filled, changed, dryRunSuffix(opts))
			return nil
		},
	}
}

func dryRunSuffix(opts *options) string {
	if opts.dryRun {
		return " (dry run, nothing written)"
	}
	return ""
}
