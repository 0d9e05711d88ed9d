package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Long:  "Print the settings after applying the config file, LX_* environment variables and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}
}

func runConfigShow(w io.Writer) error {
	if err := checkFormat(); err != nil {
		return err
	}
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(w, map[string]interface{}{
			"data_path":     s.DataPath,
			"db_path":       s.DBPath,
			"sidebar_image": s.SidebarImage,
			"port":          s.Port,
			"dev":           s.Dev,
		})
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(Config(s)); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return enc.Close()
}

// configSetters update one config key from its string form.
var configSetters = map[string]func(*Config, string) error{
	"data_path":     func(c *Config, v string) error { c.DataPath = v; return nil },
	"db_path":       func(c *Config, v string) error { c.DBPath = v; return nil },
	"sidebar_image": func(c *Config, v string) error { c.SidebarImage = v; return nil },
	"port": func(c *Config, v string) error {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %q", v)
		}
		c.Port = p
		return nil
	},
	"dev": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid bool %q", v)
		}
		c.Dev = b
		return nil
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Save a setting to the config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func runConfigSet(w io.Writer, key, value string) error {
	set, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (want one of %v)", key, configKeys())
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := set(&cfg, value); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return err
}
