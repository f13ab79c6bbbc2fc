package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/panel"
	"github.com/charlie0129/battpanel/pkg/source"
)

// localState samples the battery and the processes once and runs them
// through a panel of its own.
func localState(ctx context.Context) (*panel.State, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, err
	}

	s := panel.NewSynchronizer(panel.Options{Settings: conf})

	snap, err := source.NewBatteryReader().Read()
	if err != nil {
		return nil, err
	}
	s.ApplyMeasurement(snap)

	if n := conf.ProcessRowCount(); n > 0 {
		list, err := source.NewProcessSampler().Top(ctx, n)
		if err != nil {
			logrus.WithError(err).Warn("failed to sample processes")
		} else {
			s.ApplyProcessList(list)
		}
	}

	st := s.State()
	return &st, nil
}

func encodeState(st *panel.State, pretty bool) ([]byte, error) {
	if pretty {
		return prettyjson.Marshal(st)
	}
	return json.MarshalIndent(st, "", "  ")
}

func NewStatusCommand() *cobra.Command {
	var asJSON, local bool

	cmd := &cobra.Command{
		Use:         "status",
		GroupID:     gBasic,
		Short:       "Print the panel once",
		Long:        `Print every mounted section of the panel, the top processes and the preferences.`,
		Annotations: daemonAnnotation,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var st *panel.State
			var err error
			if local {
				st, err = localState(cmd.Context())
			} else {
				st, err = apiClient.GetState()
			}
			if err != nil {
				return fmt.Errorf("failed to get panel state: %w", err)
			}

			if asJSON {
				b, err := encodeState(st, term.IsTerminal(int(os.Stdout.Fd())))
				if err != nil {
					return fmt.Errorf("failed to encode panel state: %w", err)
				}
				cmd.Println(string(b))
				return nil
			}

			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw panel state as JSON")
	cmd.Flags().BoolVar(&local, "local", false, "Sample once in this process instead of asking the daemon")

	return cmd
}

func printStatus(w io.Writer, st *panel.State) {
	l := format.NewLocalizer(st.Preferences.Language)

	summary := []string{bold("%s", st.Portal.Level)}
	if st.Portal.Charging != "" {
		summary = append(summary, color.New(color.FgGreen).Sprint(st.Portal.Charging))
	}
	if st.Portal.Time != "" {
		summary = append(summary, st.Portal.Time)
	}
	fmt.Fprintf(w, "%s %s\n", gaugeText(st.Gauge), strings.Join(summary, "  "))

	for _, sec := range st.Sections {
		switch sec.Kind {
		case panel.SectionDashboard:
			continue
		case panel.SectionProcesses:
			fmt.Fprintln(w)
			fmt.Fprintln(w, bold("%s:", l.String(sec.Kind.Title())))
			printProcesses(w, st.Rows)
			continue
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("%s:", l.String(sec.Kind.Title())))
		for _, info := range panel.FieldsIn(sec.Kind) {
			label := l.String(info.Label)
			if info.ID == panel.FieldTime {
				label = st.Fields[panel.FieldTimeLabel].Text
			}
			fmt.Fprintf(w, "  %s: %s\n", label, bold("%s", st.Fields[info.ID].Text))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Preferences:"))
	fmt.Fprintf(w, "  Processes shown: %s\n", bold("%d", st.Preferences.ProcessRowCount))
	fmt.Fprintf(w, "  Short time format: %s\n", bool2Text(st.Preferences.ShortTime()))
	fmt.Fprintf(w, "  Colored gauge: %s\n", bool2Text(st.Preferences.ColorEnabled))
	fmt.Fprintf(w, "  Temperature unit: %s\n", bold("%s", st.Preferences.TemperatureUnit))
	fmt.Fprintf(w, "  Language: %s\n", bold("%s", l.Language()))
}

func printProcesses(w io.Writer, rows []panel.ProcessRow) {
	printed := false
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		usage := ""
		if len(r.Columns) > 0 {
			usage = r.Columns[len(r.Columns)-1]
		}
		fmt.Fprintf(w, "  %-24s %8s\n", r.Name, bold("%s", usage))
		printed = true
	}
	if !printed {
		fmt.Fprintln(w, "  -")
	}
}

// gaugeText renders the battery gauge as a ten cell bar in the gauge's
// fill color.
func gaugeText(g panel.GaugeState) string {
	cells := int(g.Level*10 + 0.5)
	cells = max(0, min(cells, 10))
	bar := "[" + strings.Repeat("#", cells) + strings.Repeat(" ", 10-cells) + "]"

	switch g.Fill {
	case panel.FillRed:
		return color.RedString(bar)
	case panel.FillOrange:
		return color.New(color.FgHiRed).Sprint(bar)
	case panel.FillYellow:
		return color.YellowString(bar)
	case panel.FillGreen:
		return color.GreenString(bar)
	default:
		return bar
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
