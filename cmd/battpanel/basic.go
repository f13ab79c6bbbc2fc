package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/version"
)

func getVersion() (clientVersion, daemonVersion string, err error) {
	daemonVersion, err = apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewProcessesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "processes [count]",
		Short:       "Set how many top processes are shown",
		GroupID:     gBasic,
		Annotations: daemonAnnotation,
		Long: fmt.Sprintf(`Set how many top processes are shown.

This is a number from 0 to %d. Setting it to 0 hides the process table.`, config.MaxProcessRowCount),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := parseIntArg(args, "process count")
			if err != nil {
				return err
			}
			if n < 0 || n > config.MaxProcessRowCount {
				return fmt.Errorf("process count must be between 0 and %d", config.MaxProcessRowCount)
			}

			ret, err := apiClient.SetProcessCount(n)
			if err != nil {
				return fmt.Errorf("failed to set process count: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set process count to %d", n)

			return nil
		},
	}
}

func NewColorCommand() *cobra.Command {
	cmd := newEnableDisableCommand(
		"color",
		"battery gauge colors",
		`Color the battery gauge by charge level.

When disabled the gauge is monochrome, except that a critically low battery
is still shown in red.`,
		func() (string, error) { return apiClient.SetColor(true) },
		func() (string, error) { return apiClient.SetColor(false) },
	)
	cmd.GroupID = gBasic
	return cmd
}
