package main

import (
	"errors"
	"fmt"

	"github.com/dynamicsector/dynamicsector/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  dsector config                      # Show all config
  dsector config mode                 # Get specific value
  dsector config mode 2d              # Set value
  dsector config session-ttl 12h      # Dashed spellings work too

Keys:
  addr              Dashboard listen address
  db_path           Session database path
  title             Page title
  sun_image         Image URL drawn for Sun systems
  mode              Default render mode (3d or 2d)
  seed              Fixed random seed (0 = random per render)
  max_upload_bytes  Largest accepted upload
  upload_rate       Uploads per second per session
  upload_burst      Upload burst per session
  session_ttl       Idle time before a session is purged

Values are stored in ~/.config/dsector/config.yml and can be overridden
with DSECTOR_<KEY> environment variables or a .env file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, k := range config.Keys() {
				v, _ := cfg.Get(k)
				outputHuman("%-17s %s\n", k+":", v)
			}
			return nil
		}
		return outputJSON(cfg.Values())
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
			return nil
		}
		return outputJSON(map[string]string{key: v})
	}

	// Two args: set value
	value, err := setConfigValue(key, args[1])
	if err != nil {
		code := ExitConfigError
		if errors.Is(err, config.ErrUnknownKey) {
			code = ExitError
		}
		exitWithError(code, "%v", err)
	}
	if humanOutput {
		outputHuman("Set %s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

// setConfigValue edits the config file alone, so defaults and DSECTOR_*
// overrides in effect are not written back. It returns the stored value.
func setConfigValue(key, value string) (string, error) {
	cfg, err := config.LoadFile()
	if err != nil {
		return "", err
	}
	if err := cfg.Set(key, value); err != nil {
		return "", err
	}
	if err := cfg.Save(); err != nil {
		return "", fmt.Errorf("saving config: %w", err)
	}
	return cfg.Get(key)
}
