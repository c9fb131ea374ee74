package wages

import (
	"time"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
)

// FederalMetadata is the metadata column of a federal record.
type FederalMetadata struct {
	AdjustmentMode AdjustmentMode `json:"tipo_ajuste" yaml:"tipo_ajuste"`
}

// FederalRecord is one jurisdiction's row of the generic wage master,
// carrying a single index value that follows the official IPC.
type FederalRecord struct {
	Jurisdiction string          `json:"jurisdiccion" yaml:"jurisdiccion"`
	DisplayName  string          `json:"nombre_mostrar" yaml:"nombre_mostrar"`
	IndexValue   float64         `json:"valor_indice" yaml:"valor_indice"`
	LegalSource  string          `json:"fuente_legal" yaml:"fuente_legal"`
	UpdatedAt    time.Time       `json:"updated_at" yaml:"updated_at"`
	Metadata     FederalMetadata `json:"metadata" yaml:"metadata"`
}

// Federal binds the federal record type to its storage and reconciliation
// rules. Federal rows are maintained by hand and never synthesized.
type Federal struct{}

// Schema implements store.Codec.
func (Federal) Schema() store.Schema {
	return store.Schema{
		Table:     constants.FederalTable,
		KeyColumn: constants.JurisdictionColumn,
		Columns: []store.Column{
			{Name: "jurisdiccion", Type: store.ColumnText},
			{Name: "nombre_mostrar", Type: store.ColumnText},
			{Name: "valor_indice", Type: store.ColumnReal},
			{Name: "fuente_legal", Type: store.ColumnText},
			{Name: "updated_at", Type: store.ColumnTimestamp},
			{Name: "metadata", Type: store.ColumnJSON},
		},
	}
}

// Key returns the jurisdiction key.
func (Federal) Key(r FederalRecord) string { return r.Jurisdiction }

// Touch refreshes the timestamp and nothing else.
func (Federal) Touch(r FederalRecord, now time.Time) FederalRecord {
	r.UpdatedAt = now
	return r
}

// IndexLinked reports whether r follows the index.
func (Federal) IndexLinked(r FederalRecord) bool {
	return r.Metadata.AdjustmentMode == AdjustmentIPC
}

// Scale multiplies the index value by factor. The product is stored
// unrounded so repeated adjustments compound exactly.
func (Federal) Scale(r FederalRecord, factor float64, legalSource string, now time.Time) FederalRecord {
	r.IndexValue *= factor
	r.LegalSource = legalSource
	r.UpdatedAt = now
	return r
}

// Default never synthesizes: a missing federal row is reported, not created.
func (Federal) Default(Jurisdiction, string, time.Time) (FederalRecord, bool) {
	return FederalRecord{}, false
}

// CarriesUnlisted reports that federal runs write back every stored row,
// listed or not.
func (Federal) CarriesUnlisted() bool { return true }

// ScalesNegative reports that federal values follow a negative delta too.
func (Federal) ScalesNegative() bool { return true }

// DefaultLegalSource returns "" because federal rows are never created here.
func (Federal) DefaultLegalSource() string { return "" }
