package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/infra/config"
)

func newConfigCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return getApp().configShow()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := getApp()
				fmt.Fprintln(a.out, config.Path(a.cfgDir))
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := getApp()
				value, err := a.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return getApp().configSet(args[0], args[1])
			},
		},
	)
	return cmd
}

func (a *app) configShow() error {
	a.renderer.Section("Config")
	for _, key := range config.Keys() {
		value, err := a.cfg.Get(key)
		if err != nil {
			return err
		}
		a.renderer.KeyValue(key, value)
	}
	apiKey := "not set"
	if _, ok := config.APIKey(a.cfgDir); ok {
		apiKey = "set"
	}
	a.renderer.KeyValue("api_key", apiKey)
	return nil
}

func (a *app) configSet(key, value string) error {
	cfg := a.cfg
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(a.cfgDir, cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.renderer.Success(fmt.Sprintf("%s = %s", key, value))
	return nil
}
