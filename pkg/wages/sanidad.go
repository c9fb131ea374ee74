package wages

import (
	"time"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
)

// BaseAmounts are the five role-specific monthly basics.
type BaseAmounts struct {
	Professional   Amount `json:"basico_profesional" yaml:"basico_profesional"`
	Technical      Amount `json:"basico_tecnico" yaml:"basico_tecnico"`
	Service        Amount `json:"basico_servicios" yaml:"basico_servicios"`
	Administrative Amount `json:"basico_administrativo" yaml:"basico_administrativo"`
	Support        Amount `json:"basico_maestranza" yaml:"basico_maestranza"`
}

// Scale returns every basic multiplied by factor.
func (b BaseAmounts) Scale(factor float64) BaseAmounts {
	return BaseAmounts{
		Professional:   b.Professional.Scale(factor),
		Technical:      b.Technical.Scale(factor),
		Service:        b.Service.Scale(factor),
		Administrative: b.Administrative.Scale(factor),
		Support:        b.Support.Scale(factor),
	}
}

// Default base tables for the health sector.
var (
	SanidadBasics = BaseAmounts{
		Professional:   850000,
		Technical:      680000,
		Service:        580000,
		Administrative: 520000,
		Support:        480000,
	}

	SanidadPatagonianBasics = BaseAmounts{
		Professional:   1020000,
		Technical:      816000,
		Service:        696000,
		Administrative: 624000,
		Support:        576000,
	}
)

// SanidadMetadata is the metadata column of a sanidad record.
type SanidadMetadata struct {
	AdjustmentMode AdjustmentMode `json:"tipo_ajuste" yaml:"tipo_ajuste"`
	Patagonian     bool           `json:"es_patagonica" yaml:"es_patagonica"`
}

// SanidadRecord is one jurisdiction's health-sector wage scale
// (FATSA CCT 122/75 and 108/75).
type SanidadRecord struct {
	Jurisdiction string `json:"jurisdiccion" yaml:"jurisdiccion"`
	DisplayName  string `json:"nombre_mostrar" yaml:"nombre_mostrar"`

	BaseAmounts `yaml:",inline"`

	SeniorityPct       float64 `json:"antiguedad_pct_por_ano" yaml:"antiguedad_pct_por_ano"`
	AuxiliaryTitlePct  float64 `json:"titulo_auxiliar_pct" yaml:"titulo_auxiliar_pct"`
	TechnicalTitlePct  float64 `json:"titulo_tecnico_pct" yaml:"titulo_tecnico_pct"`
	UniversityTitlePct float64 `json:"titulo_universitario_pct" yaml:"titulo_universitario_pct"`
	CriticalRiskPct    float64 `json:"tarea_critica_riesgo_pct" yaml:"tarea_critica_riesgo_pct"`
	PatagonianZonePct  float64 `json:"zona_patagonica_pct" yaml:"zona_patagonica_pct"`
	NightShiftPct      float64 `json:"nocturnas_pct" yaml:"nocturnas_pct"`
	CashShortageAmount Amount  `json:"monto_fallo_caja" yaml:"monto_fallo_caja"`

	RetirementPct      float64 `json:"jubilacion_pct" yaml:"jubilacion_pct"`
	Law19032Pct        float64 `json:"ley_19032_pct" yaml:"ley_19032_pct"`
	HealthInsurancePct float64 `json:"obra_social_pct" yaml:"obra_social_pct"`
	UnionDuesPct       float64 `json:"cuota_sindical_atsa_pct" yaml:"cuota_sindical_atsa_pct"`
	BurialInsurancePct float64 `json:"seguro_sepelio_pct" yaml:"seguro_sepelio_pct"`
	SolidarityPct      float64 `json:"aporte_solidario_fatsa_pct" yaml:"aporte_solidario_fatsa_pct"`
	PensionCeiling     Amount  `json:"tope_base_previsional" yaml:"tope_base_previsional"`

	LegalSource string          `json:"fuente_legal" yaml:"fuente_legal"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"updated_at"`
	Metadata    SanidadMetadata `json:"metadata" yaml:"metadata"`
}

// NewSanidadRecord builds the default record for j.
func NewSanidadRecord(j Jurisdiction, legalSource string, now time.Time) SanidadRecord {
	basics, zone := SanidadBasics, 0.0
	if j.Patagonian {
		basics, zone = SanidadPatagonianBasics, 20.0
	}
	if legalSource == "" {
		legalSource = constants.SanidadLegalSource
	}
	return SanidadRecord{
		Jurisdiction:       j.Key,
		DisplayName:        j.Name,
		BaseAmounts:        basics,
		SeniorityPct:       2.0,
		AuxiliaryTitlePct:  5.0,
		TechnicalTitlePct:  7.0,
		UniversityTitlePct: 10.0,
		CriticalRiskPct:    10.0,
		PatagonianZonePct:  zone,
		NightShiftPct:      15.0,
		CashShortageAmount: 20000,
		RetirementPct:      11.0,
		Law19032Pct:        3.0,
		HealthInsurancePct: 3.0,
		UnionDuesPct:       2.0,
		BurialInsurancePct: 1.0,
		SolidarityPct:      1.0,
		PensionCeiling:     2500000,
		LegalSource:        legalSource,
		UpdatedAt:          now,
		Metadata: SanidadMetadata{
			AdjustmentMode: AdjustmentIPC,
			Patagonian:     j.Patagonian,
		},
	}
}

// Sanidad binds the health-sector record type to its storage and
// reconciliation rules. The zero value is ready to use.
type Sanidad struct{}

// Schema implements store.Codec.
func (Sanidad) Schema() store.Schema {
	return store.Schema{
		Table:     constants.SanidadTable,
		KeyColumn: constants.JurisdictionColumn,
		Columns: []store.Column{
			{Name: "jurisdiccion", Type: store.ColumnText},
			{Name: "nombre_mostrar", Type: store.ColumnText},
			{Name: "basico_profesional", Type: store.ColumnInteger},
			{Name: "basico_tecnico", Type: store.ColumnInteger},
			{Name: "basico_servicios", Type: store.ColumnInteger},
			{Name: "basico_administrativo", Type: store.ColumnInteger},
			{Name: "basico_maestranza", Type: store.ColumnInteger},
			{Name: "antiguedad_pct_por_ano", Type: store.ColumnReal},
			{Name: "titulo_auxiliar_pct", Type: store.ColumnReal},
			{Name: "titulo_tecnico_pct", Type: store.ColumnReal},
			{Name: "titulo_universitario_pct", Type: store.ColumnReal},
			{Name: "tarea_critica_riesgo_pct", Type: store.ColumnReal},
			{Name: "zona_patagonica_pct", Type: store.ColumnReal},
			{Name: "nocturnas_pct", Type: store.ColumnReal},
			{Name: "monto_fallo_caja", Type: store.ColumnInteger},
			{Name: "jubilacion_pct", Type: store.ColumnReal},
			{Name: "ley_19032_pct", Type: store.ColumnReal},
			{Name: "obra_social_pct", Type: store.ColumnReal},
			{Name: "cuota_sindical_atsa_pct", Type: store.ColumnReal},
			{Name: "seguro_sepelio_pct", Type: store.ColumnReal},
			{Name: "aporte_solidario_fatsa_pct", Type: store.ColumnReal},
			{Name: "tope_base_previsional", Type: store.ColumnInteger},
			{Name: "fuente_legal", Type: store.ColumnText},
			{Name: "updated_at", Type: store.ColumnTimestamp},
			{Name: "metadata", Type: store.ColumnJSON},
		},
	}
}

// Key returns the jurisdiction key.
func (Sanidad) Key(r SanidadRecord) string { return r.Jurisdiction }

// Touch refreshes the timestamp and nothing else.
func (Sanidad) Touch(r SanidadRecord, now time.Time) SanidadRecord {
	r.UpdatedAt = now
	return r
}

// IndexLinked reports whether r follows the index.
func (Sanidad) IndexLinked(r SanidadRecord) bool {
	return r.Metadata.AdjustmentMode == AdjustmentIPC
}

// Scale multiplies the five basics and the two monetary thresholds by factor.
// Percentages are never scaled.
func (Sanidad) Scale(r SanidadRecord, factor float64, legalSource string, now time.Time) SanidadRecord {
	r.BaseAmounts = r.BaseAmounts.Scale(factor)
	r.CashShortageAmount = r.CashShortageAmount.Scale(factor)
	r.PensionCeiling = r.PensionCeiling.Scale(factor)
	r.LegalSource = legalSource
	r.UpdatedAt = now
	return r
}

// Default synthesizes the record for a jurisdiction absent from the store.
func (Sanidad) Default(j Jurisdiction, legalSource string, now time.Time) (SanidadRecord, bool) {
	return NewSanidadRecord(j, legalSource, now), true
}

// DefaultLegalSource is stamped on created records when no description exists.
func (Sanidad) DefaultLegalSource() string { return constants.SanidadLegalSource }
