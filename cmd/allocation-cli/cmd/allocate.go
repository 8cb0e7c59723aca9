package cmd

import (
	"context"

	"recruiter-allocation/internal/app"
	"recruiter-allocation/internal/common/logger"
	afp "recruiter-allocation/internal/workers/allocation/allocate-candidates-for-project"
	afr "recruiter-allocation/internal/workers/allocation/allocate-candidates-for-role"

	"github.com/spf13/cobra"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Assign eligible candidates to recruiters in round-robin order",
}

var allocateRoleCmd = &cobra.Command{
	Use:   "role",
	Short: "Allocate candidates for one role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := &afr.Input{
			ProjectID:   flagString(cmd, "project"),
			RoleID:      flagString(cmd, "role"),
			CandidateID: flagString(cmd, "candidate"),
			BatchSize:   optionalInt(cmd, "batch-size"),
		}
		return withApp(cmd, func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error) {
			cfg := afr.LoadConfig()
			cfg.DefaultBatchSize = core.Config.Allocation.DefaultBatchSize
			h := afr.NewHandler(cfg, core.Orchestrator, core.Recruiters, core.Validator, log)
			return h.Execute(ctx, input)
		})
	},
}

var allocateProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Allocate candidates for every open role of a project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := &afp.Input{
			ProjectID: flagString(cmd, "project"),
			BatchSize: optionalInt(cmd, "batch-size"),
		}
		return withApp(cmd, func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error) {
			cfg := afp.LoadConfig()
			cfg.DefaultBatchSize = core.Config.Allocation.DefaultBatchSize
			h := afp.NewHandler(cfg, core.Orchestrator, core.Recruiters, core.Validator, log)
			return h.Execute(ctx, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)
	allocateCmd.AddCommand(allocateRoleCmd, allocateProjectCmd)

	allocateRoleCmd.Flags().String("project", "", "project id")
	allocateRoleCmd.Flags().String("role", "", "role id")
	allocateRoleCmd.Flags().String("candidate", "", "allocate only this candidate")
	allocateRoleCmd.Flags().Int("batch-size", 0, "assign at most this many candidates (0 means no limit)")
	allocateRoleCmd.MarkFlagRequired("project")
	allocateRoleCmd.MarkFlagRequired("role")

	allocateProjectCmd.Flags().String("project", "", "project id")
	allocateProjectCmd.Flags().Int("batch-size", 0, "per-role assignment cap (0 means no limit)")
	allocateProjectCmd.MarkFlagRequired("project")
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// optionalInt returns nil unless the flag was set explicitly.
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
