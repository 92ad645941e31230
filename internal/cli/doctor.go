package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/app/doctor"
)

func newDoctorCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check git, gh and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getApp().runDoctor()
		},
	}
}

func (a *app) runDoctor() error {
	result, err := doctor.Check(a.ctx, a.dir, a.cfgDir)
	if err != nil {
		return err
	}
	r := a.renderer
	r.Section("Environment")
	for _, detail := range result.Details {
		r.Bullet(detail)
	}
	if len(result.Warnings) > 0 {
		r.Blank()
		r.Section("Warnings")
		for _, warning := range result.Warnings {
			r.Bullet(warning)
		}
	}
	r.Blank()
	if len(result.Issues) == 0 {
		r.Success("no issues found")
		return nil
	}
	r.Section("Issues")
	for _, issue := range result.Issues {
		text := fmt.Sprintf("%s: %s", issue.Kind, issue.Message)
		if issue.Path != "" {
			text = fmt.Sprintf("%s (%s)", text, issue.Path)
		}
		r.BulletError(text)
	}
	return fmt.Errorf("doctor found %d issue(s)", len(result.Issues))
}
