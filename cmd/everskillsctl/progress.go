package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/plan"
)

// WeekReport is the progress of one week.
type WeekReport struct {
	Week      int           `json:"week" yaml:"week"`
	Objective string        `json:"objective,omitempty" yaml:"objective,omitempty"`
	Closed    bool          `json:"closed" yaml:"closed"`
	Progress  plan.Progress `json:"progress" yaml:"progress"`
}

// CampaignReport is the progress of one campaign.
type CampaignReport struct {
	ID          string        `json:"id" yaml:"id"`
	Learner     string        `json:"learner" yaml:"learner"`
	Coach       string        `json:"coach" yaml:"coach"`
	Status      string        `json:"status" yaml:"status"`
	CurrentWeek int           `json:"current_week" yaml:"current_week"`
	Global      plan.Progress `json:"global" yaml:"global"`
	Weeks       []WeekReport  `json:"weeks" yaml:"weeks"`
}

func newProgressCmd(opts *options) *cobra.Command {
	var (
		format     string
		campaignID string
	)
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Report completion per campaign and per week.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (yaml or json)", format)
			}
			repo, err := opts.campaigns()
			if err != nil {
				return err
			}
			all, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			vocab := opts.vocab()
			engine := plan.NewSyncEngine(vocab)
			calc := plan.NewCalculator(vocab, opts.cfg.Plan.DoneStatuses)
			now := time.Now()

			reports := []CampaignReport{}
			for _, c := range all {
				if campaignID != "" && c.ID != campaignID {
					continue
				}
				c, _ = engine.Sync(engine.Normalizer.Normalize(c))
				reports = append(reports, buildReport(c, calc, now))
			}
			if campaignID != "" && len(reports) == 0 {
				return fmt.Errorf("campaign %q not found", campaignID)
			}
			return writeReports(cmd.OutOrStdout(), format, reports)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json.")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Only report this campaign.")
	return cmd
}

func buildReport(c domain.Campaign, calc plan.Calculator, now time.Time) CampaignReport {
	r := CampaignReport{
		ID:          c.ID,
		Learner:     c.LearnerEmail,
		Coach:       c.CoachEmail,
		Status:      string(c.Status),
		CurrentWeek: plan.CurrentWeek(c, now),
		Global:      calc.GlobalProgress(c),
	}
	for _, w := range c.WeeklyPlan {
		r.Weeks = append(r.Weeks, WeekReport{
			Week:      w.Week,
			Objective: w.ObjectiveWeek,
			Closed:    w.Closed,
			Progress:  calc.WeekProgress(w),
		})
	}
	return r
}

func writeReports(w io.Writer, format string, reports []CampaignReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}
