package cmd

import (
	"fmt"

	apperrors "recruiter-allocation/internal/common/errors"
	"recruiter-allocation/internal/common/validation"
	"recruiter-allocation/pkg/registry"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every activity parses and its input schema compiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry(flagString(cmd, "file"))
		if err != nil {
			return err
		}
		if _, err := validation.NewValidator(reg); err != nil {
			return err
		}
		for _, a := range reg.Activities {
			// Handlers reject variables failing the schema with INVALID_INPUT.
			if len(a.InputSchema) > 0 && !a.Declares(string(apperrors.ErrCodeInvalidInput)) {
				return fmt.Errorf("activity %q has an input schema but does not declare %s",
					a.TaskType, apperrors.ErrCodeInvalidInput)
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"valid":     true,
			"version":   reg.Version,
			"taskTypes": reg.TaskTypes(),
		})
	},
}

var registryCheckInputCmd = &cobra.Command{
	Use:   "check-input TASK_TYPE JSON",
	Short: "Validate job variables against a task type's input schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(flagString(cmd, "file"))
		if err != nil {
			return err
		}
		if _, ok := reg.Find(args[0]); !ok {
			return fmt.Errorf("unknown task type %q", args[0])
		}
		v, err := validation.NewValidator(reg)
		if err != nil {
			return err
		}
		_, result := v.ValidateJSON(args[0], args[1])
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("invalid input: %s", result.Summary())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryValidateCmd, registryCheckInputCmd)
	registryCmd.PersistentFlags().String("file", "", "registry file (default is the built-in registry)")
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}
