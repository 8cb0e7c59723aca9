package cmd

import (
	"context"
	"fmt"

	"recruiter-allocation/internal/app"
	"recruiter-allocation/internal/common/logger"
	cce "recruiter-allocation/internal/workers/allocation/check-candidate-eligibility"
	fec "recruiter-allocation/internal/workers/allocation/find-eligible-candidates"
	rac "recruiter-allocation/internal/workers/allocation/reset-allocation-cursor"

	"github.com/spf13/cobra"
)

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List eligible candidates for a role, best first, without allocating",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		input := &fec.Input{
			ProjectID:   flagString(cmd, "project"),
			RoleID:      flagString(cmd, "role"),
			CandidateID: flagString(cmd, "candidate"),
			Limit:       limit,
		}
		return withApp(cmd, func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error) {
			return fec.NewHandler(fec.LoadConfig(), core.Orchestrator, core.Validator, log).Execute(ctx, input)
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Score one candidate against a role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := &cce.Input{
			ProjectID:   flagString(cmd, "project"),
			RoleID:      flagString(cmd, "role"),
			CandidateID: flagString(cmd, "candidate"),
		}
		return withApp(cmd, func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error) {
			return cce.NewHandler(cce.LoadConfig(), core.Orchestrator, core.Validator, log).Execute(ctx, input)
		})
	},
}

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Manage round-robin cursors",
}

var cursorResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart round-robin for a role at the first recruiter",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := &rac.Input{
			ProjectID: flagString(cmd, "project"),
			RoleID:    flagString(cmd, "role"),
		}
		return withApp(cmd, func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error) {
			return rac.NewHandler(rac.LoadConfig(), core.Orchestrator, core.Validator, log).Execute(ctx, input)
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the role requirement cache",
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop a cached role so the next run reloads its requirements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		projectID, roleID := flagString(cmd, "project"), flagString(cmd, "role")
		return withApp(cmd, func(ctx context.Context, core *app.App, _ logger.Logger) (interface{}, error) {
			if core.Roles == nil {
				return nil, fmt.Errorf("role cache is disabled (allocation.role_cache_ttl is 0)")
			}
			if err := core.Roles.Invalidate(ctx, projectID, roleID); err != nil {
				return nil, err
			}
			return map[string]interface{}{"projectId": projectID, "roleId": roleID, "invalidated": true}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(eligibleCmd, checkCmd, cursorCmd, cacheCmd)
	cursorCmd.AddCommand(cursorResetCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)

	for _, c := range []*cobra.Command{eligibleCmd, checkCmd, cursorResetCmd, cacheInvalidateCmd} {
		c.Flags().String("project", "", "project id")
		c.Flags().String("role", "", "role id")
		c.MarkFlagRequired("project")
		c.MarkFlagRequired("role")
	}

	eligibleCmd.Flags().String("candidate", "", "rank only this candidate")
	eligibleCmd.Flags().Int("limit", 0, "return at most this many candidates")

	checkCmd.Flags().String("candidate", "", "candidate id")
	checkCmd.MarkFlagRequired("candidate")
}
