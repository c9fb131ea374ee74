package output

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/syncra/paritarias/pkg/reconcile"
	"github.com/syncra/paritarias/pkg/wages"
)

// Money renders whole pesos with es-AR grouping: 850000 -> "$ 850.000".
func Money(a wages.Amount) string {
	return "$ " + humanize.FormatInteger("#.###,", int(a))
}

// Percent renders a percentage in its shortest form.
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// SanidadTable lists the five basics per jurisdiction.
func SanidadTable(records []wages.SanidadRecord) Data {
	cols := []string{"jurisdiccion", "basico_profesional", "basico_tecnico", "basico_servicios", "basico_administrativo", "basico_maestranza", "zona_patagonica_pct", "tipo_ajuste"}
	d := Data{
		Headers:         headers(cols),
		ColumnAlignment: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft},
	}
	for _, r := range records {
		d.Rows = append(d.Rows, []string{
			r.DisplayName,
			Money(r.Professional),
			Money(r.Technical),
			Money(r.Service),
			Money(r.Administrative),
			Money(r.Support),
			Percent(r.PatagonianZonePct),
			string(r.Metadata.AdjustmentMode),
		})
	}
	return d
}

// FederalTable lists the index value per jurisdiction.
func FederalTable(records []wages.FederalRecord) Data {
	d := Data{
		Headers:         headers([]string{"jurisdiccion", "valor_indice", "tipo_ajuste", "fuente_legal"}),
		ColumnAlignment: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignLeft},
	}
	for _, r := range records {
		name := r.DisplayName
		if name == "" {
			name = r.Jurisdiction
		}
		d.Rows = append(d.Rows, []string{
			name,
			strconv.FormatFloat(r.IndexValue, 'f', 2, 64),
			string(r.Metadata.AdjustmentMode),
			r.LegalSource,
		})
	}
	return d
}

// OutcomeTable lists the action taken per jurisdiction.
func OutcomeTable(outcomes []reconcile.Outcome) Data {
	d := Data{Headers: headers([]string{"jurisdiccion", "accion"})}
	for _, o := range outcomes {
		d.Rows = append(d.Rows, []string{o.Jurisdiction.Name, string(o.Action)})
	}
	return d
}

func headers(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = Header(c)
	}
	return out
}
