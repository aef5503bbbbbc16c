package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/askai/internal/config"
	"github.com/diogo/askai/internal/logging"
	"github.com/diogo/askai/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long:  `Show or change the settings stored in ~/.askai/config.json.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a single setting",
		Long:      "Change a single setting. Keys: " + fmt.Sprint(config.Keys()),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateSetting(key, value); err != nil {
				return err
			}

			// Env overrides must not end up in the file
			cfg, err := config.ReadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			fmt.Fprintf(deps.Stdout, "✓ %s = %s\n", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	return cmd
}

// validateSetting checks values whose valid set lives outside the config package
func validateSetting(key, value string) error {
	switch key {
	case "markdown.style":
		return render.ValidateStyle(value)
	case "tui_theme":
		if _, ok := render.TUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui theme %q (available: %v)", value, render.TUIThemeNames())
		}
	case "log_level":
		_, err := logging.ParseLevel(value)
		return err
	}
	return nil
}
