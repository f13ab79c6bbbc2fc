package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battpanel/pkg/client"
	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/format"
)

// loadConfig returns the daemon's preferences, or the config file when the
// daemon is not running.
func loadConfig() (config.Config, error) {
	raw, err := apiClient.GetConfig()
	if err == nil {
		return config.NewFileFromConfig(raw, ""), nil
	}
	if !errors.Is(err, client.ErrDaemonNotRunning) {
		return nil, err
	}

	logrus.Debug("daemon is not running, reading config file")
	return config.NewFile(configPath)
}

// setConfig sends key=value to the daemon, or writes it to the config file
// when the daemon is not running.
func setConfig(key, value string) (string, error) {
	ret, err := apiClient.SetConfig(key, value)
	if err == nil {
		return ret, nil
	}
	if !errors.Is(err, client.ErrDaemonNotRunning) {
		return "", err
	}

	logrus.WithField("path", configPath).Info("daemon is not running, writing config file")
	f, err := config.NewFile(configPath)
	if err != nil {
		return "", err
	}
	if err := config.Set(f, key, value); err != nil {
		return "", err
	}
	return "", f.Save()
}

// preferenceValues renders p the way config.Get does, keyed by store key.
func preferenceValues(p config.Preferences) map[string]string {
	return map[string]string{
		config.KeyProcesses:       strconv.Itoa(p.ProcessRowCount),
		config.KeyTimeFormat:      p.TimeFormat,
		config.KeyColor:           strconv.FormatBool(p.ColorEnabled),
		config.KeyTemperatureUnit: p.TemperatureUnit,
		config.KeyLanguage:        p.Language,
	}
}

// preferenceEdits returns the keys that differ between before and after,
// in config.Keys order, with their new values.
func preferenceEdits(before, after map[string]string) [][2]string {
	var edits [][2]string
	for _, key := range config.Keys() {
		if before[key] != after[key] {
			edits = append(edits, [2]string{key, after[key]})
		}
	}
	return edits
}

func validateProcessCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 0 || n > config.MaxProcessRowCount {
		return fmt.Errorf("must be between 0 and %d", config.MaxProcessRowCount)
	}
	return nil
}

func editPreferences(p config.Preferences) (map[string]string, error) {
	values := preferenceValues(p)
	processes := values[config.KeyProcesses]
	timeFormat := p.TimeFormat
	colored := p.ColorEnabled
	unit := p.TemperatureUnit
	lang := p.Language

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Processes shown").
				Description(fmt.Sprintf("0 hides the table, at most %d", config.MaxProcessRowCount)).
				Value(&processes).
				Validate(validateProcessCount),
			huh.NewSelect[string]().
				Title("Time format").
				Options(huh.NewOptions(config.TimeFormatShort, config.TimeFormatLong)...).
				Value(&timeFormat),
			huh.NewConfirm().
				Title("Colored gauge").
				Value(&colored),
			huh.NewSelect[string]().
				Title("Temperature unit").
				Options(huh.NewOptions(config.TemperatureCelsius, config.TemperatureFahrenheit)...).
				Value(&unit),
			huh.NewSelect[string]().
				Title("Language").
				Options(huh.NewOptions(format.Languages()...)...).
				Value(&lang),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	values[config.KeyProcesses] = processes
	values[config.KeyTimeFormat] = timeFormat
	values[config.KeyColor] = strconv.FormatBool(colored)
	values[config.KeyTemperatureUnit] = unit
	values[config.KeyLanguage] = lang
	return values, nil
}

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Get and set preferences",
		GroupID: gAdvanced,
		Long: fmt.Sprintf(`Get and set preferences.

Known keys: %s.`, strings.Join(config.Keys(), ", ")),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := loadConfig()
				if err != nil {
					return fmt.Errorf("failed to get config: %v", err)
				}
				for _, key := range config.Keys() {
					v, err := config.Get(c, key)
					if err != nil {
						return err
					}
					cmd.Printf("%s=%s\n", key, v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get [key]",
			Short: "Print one preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := loadConfig()
				if err != nil {
					return fmt.Errorf("failed to get config: %v", err)
				}
				v, err := config.Get(c, args[0])
				if err != nil {
					return err
				}
				cmd.Println(v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set [key] [value]",
			Short: "Change one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				ret, err := setConfig(args[0], args[1])
				if err != nil {
					return fmt.Errorf("failed to set %s: %v", args[0], err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully set %s to %s", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Change preferences in an interactive form",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				c, err := loadConfig()
				if err != nil {
					return fmt.Errorf("failed to get config: %v", err)
				}
				before := c.Preferences()

				after, err := editPreferences(before)
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				if err != nil {
					return err
				}

				edits := preferenceEdits(preferenceValues(before), after)
				if len(edits) == 0 {
					logrus.Info("nothing changed")
					return nil
				}
				for _, e := range edits {
					if _, err := setConfig(e[0], e[1]); err != nil {
						return fmt.Errorf("failed to set %s: %v", e[0], err)
					}
					logrus.Infof("successfully set %s to %s", e[0], e[1])
				}
				return nil
			},
		},
	)

	return cmd
}
