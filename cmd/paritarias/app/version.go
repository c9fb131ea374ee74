package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/syncra/paritarias/internal/output"
)

// versionInfo is the build information printed by the version command.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

func (v versionInfo) Value() any { return v }

func (v versionInfo) Table() output.Data {
	return output.Data{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Version", v.Version},
			{"Commit", v.Commit},
			{"Date", v.Date},
			{"Built by", v.BuiltBy},
			{"Go", v.GoVersion},
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.formatter().Format(cmd.OutOrStdout(), versionInfo{
				Version:   a.version,
				Commit:    a.commit,
				Date:      a.date,
				BuiltBy:   a.builtBy,
				GoVersion: runtime.Version(),
			})
		},
	}
}
