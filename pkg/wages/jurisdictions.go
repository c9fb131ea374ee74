// Package wages defines the wage-scale record types of each paritaria scheme,
// the fixed list of 24 Argentine jurisdictions and the default profile each
// scheme synthesizes for a jurisdiction it has never stored.
package wages

// Jurisdiction is one of the 24 first-level administrative regions.
type Jurisdiction struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
	// Patagonian selects the regionally uplifted base table at creation time.
	Patagonian bool `json:"patagonica" yaml:"patagonica"`
}

var jurisdictions = []Jurisdiction{
	{Key: "buenosAires", Name: "Buenos Aires"},
	{Key: "caba", Name: "Ciudad Autónoma de Buenos Aires"},
	{Key: "catamarca", Name: "Catamarca"},
	{Key: "chaco", Name: "Chaco"},
	{Key: "chubut", Name: "Chubut", Patagonian: true},
	{Key: "cordoba", Name: "Córdoba"},
	{Key: "corrientes", Name: "Corrientes"},
	{Key: "entreRios", Name: "Entre Ríos"},
	{Key: "formosa", Name: "Formosa"},
	{Key: "jujuy", Name: "Jujuy"},
	{Key: "laPampa", Name: "La Pampa", Patagonian: true},
	{Key: "laRioja", Name: "La Rioja"},
	{Key: "mendoza", Name: "Mendoza"},
	{Key: "misiones", Name: "Misiones"},
	{Key: "neuquen", Name: "Neuquén", Patagonian: true},
	{Key: "rioNegro", Name: "Río Negro", Patagonian: true},
	{Key: "salta", Name: "Salta"},
	{Key: "sanJuan", Name: "San Juan"},
	{Key: "sanLuis", Name: "San Luis"},
	{Key: "santaCruz", Name: "Santa Cruz", Patagonian: true},
	{Key: "santaFe", Name: "Santa Fe"},
	{Key: "santiagoDelEstero", Name: "Santiago del Estero"},
	{Key: "tierraDelFuego", Name: "Tierra del Fuego", Patagonian: true},
	{Key: "tucuman", Name: "Tucumán"},
}

// Jurisdictions returns the authoritative ordered list. The slice is a copy.
func Jurisdictions() []Jurisdiction {
	out := make([]Jurisdiction, len(jurisdictions))
	copy(out, jurisdictions)
	return out
}

// LookupJurisdiction finds a jurisdiction by key.
func LookupJurisdiction(key string) (Jurisdiction, bool) {
	for _, j := range jurisdictions {
		if j.Key == key {
			return j, true
		}
	}
	return Jurisdiction{}, false
}
