package app

import (
	"time"

	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/internal/output"
	"github.com/syncra/paritarias/pkg/wages"
)

// NewJurisdictionsCommand creates the jurisdictions command.
func (a *App) NewJurisdictionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "jurisdictions",
		Aliases: []string{"provincias"},
		Short:   "List jurisdictions and the default scale created for each",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheme, err := paritarias.ParseScheme(a.config.Scheme)
			if err != nil {
				return err
			}
			var view output.Tabular = jurisdictionsView{list: wages.Jurisdictions()}
			if scheme == paritarias.SchemeSanidad {
				view = newDefaultsView(wages.Jurisdictions(), time.Now().UTC())
			}
			return a.formatter().Format(cmd.OutOrStdout(), view)
		},
	}
}

// jurisdictionsView lists jurisdictions without amounts.
type jurisdictionsView struct {
	list []wages.Jurisdiction
}

func (v jurisdictionsView) Value() any { return v.list }

func (v jurisdictionsView) Table() output.Data {
	d := output.Data{
		Headers:         []string{"Key", "Name", "Patagonian"},
		ColumnAlignment: []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignCenter},
	}
	for _, j := range v.list {
		d.Rows = append(d.Rows, []string{j.Key, j.Name, boolText(j.Patagonian)})
	}
	return d
}

// defaultsView lists the sanidad record that would be created per jurisdiction.
type defaultsView struct {
	records []wages.SanidadRecord
}

func newDefaultsView(js []wages.Jurisdiction, now time.Time) defaultsView {
	records := make([]wages.SanidadRecord, len(js))
	for i, j := range js {
		records[i] = wages.NewSanidadRecord(j, "", now)
	}
	return defaultsView{records: records}
}

func (v defaultsView) Value() any { return v.records }

func (v defaultsView) Table() output.Data { return output.SanidadTable(v.records) }
