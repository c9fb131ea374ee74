// Package constants provides shared constants used throughout the paritarias
// codebase. This includes timeouts, upstream endpoints, storage identifiers and
// the literal strings persisted into wage-scale records.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultIPCTimeout bounds the single request made to the series API
	DefaultIPCTimeout = 15 * time.Second

	// DefaultHTTPTimeout is the standard timeout for record store requests
	DefaultHTTPTimeout = 30 * time.Second

	// SyncTimeout is the default upper bound for a whole sync pass
	SyncTimeout = 5 * time.Minute

	// ShutdownTimeout is the time given to flush metrics after a failed run
	ShutdownTimeout = 5 * time.Second

	// MinRunInterval is the shortest accepted interval for the in-process scheduler
	MinRunInterval = 1 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
)

// Index API constants
const (
	// IPCSeriesURL is the time-series endpoint of datos.gob.ar
	IPCSeriesURL = "https://apis.datos.gob.ar/series/api/series/"

	// IPCSeriesID is the national general CPI series (base 2016)
	IPCSeriesID = "101.1_I2NG_2016_M_22"

	// IPCObservationLimit is the number of observations requested per run
	IPCObservationLimit = 2
)

// Storage constants
const (
	// EntitiesTable is the generic key/value entity table used as fallback storage
	EntitiesTable = "syncra_entities"

	// EntityKey is the key under which a whole record collection is stored
	EntityKey = ""

	// SanidadTable is the dedicated table for the health-sector scheme
	SanidadTable = "maestro_paritarias_sanidad"

	// FederalTable is the dedicated table for the federal index scheme
	FederalTable = "maestro_paritarias"

	// JurisdictionColumn is the unique key column of every dedicated table
	JurisdictionColumn = "jurisdiccion"

	// DefaultSQLitePath is the database file used by the sqlite driver
	DefaultSQLitePath = "paritarias.db"
)

// Persisted strings
const (
	// SanidadLegalSource is the citation stamped on freshly created sanidad records
	SanidadLegalSource = "FATSA CCT 122/75 - Paritarias 2026"

	// NoAdjustmentLegalSource is the description used when no index could be applied
	NoAdjustmentLegalSource = "Sin ajuste IPC - Valores base"

	// SanidadDescriptionTemplate renders the legal source of an adjusted sanidad record
	SanidadDescriptionTemplate = "Ajuste automático IPC INDEC: %s%% (Mes: %s)"

	// FederalDescriptionTemplate renders the legal source of an adjusted federal record
	FederalDescriptionTemplate = "Ajuste automático IPC INDEC (Oficial): %s%% (Mes: %s)"
)

// Metrics constants
const (
	// MetricsNamespace prefixes every exported metric
	MetricsNamespace = "paritarias"

	// MetricsJob is the Pushgateway job name
	MetricsJob = "paritarias_sync"
)

// Format constants
const (
	// TimeFormatArchive is the layout used in archive object keys
	TimeFormatArchive = "20060102T150405Z"
)
