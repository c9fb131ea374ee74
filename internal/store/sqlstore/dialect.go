package sqlstore

import (
	"strconv"
	"strings"

	"github.com/syncra/paritarias/internal/store"
)

// dialect captures the differences between Postgres and sqlite that matter here.
type dialect struct {
	name   string
	driver string
	types  map[store.ColumnType]string
	// nativeTime is true when the driver binds time.Time to timestamp columns.
	nativeTime bool
	numbered   bool
}

var (
	postgresDialect = dialect{
		name:   "postgres",
		driver: "pgx",
		types: map[store.ColumnType]string{
			store.ColumnText:      "TEXT",
			store.ColumnInteger:   "BIGINT",
			store.ColumnReal:      "DOUBLE PRECISION",
			store.ColumnJSON:      "JSONB",
			store.ColumnTimestamp: "TIMESTAMPTZ",
		},
		nativeTime: true,
		numbered:   true,
	}

	sqliteDialect = dialect{
		name:   "sqlite",
		driver: "sqlite",
		types: map[store.ColumnType]string{
			store.ColumnText:      "TEXT",
			store.ColumnInteger:   "INTEGER",
			store.ColumnReal:      "REAL",
			store.ColumnJSON:      "TEXT",
			store.ColumnTimestamp: "TEXT",
		},
	}
)

func (d dialect) placeholder(i int) string {
	if d.numbered {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

func (d dialect) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return strings.Join(ph, ", ")
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteAll(idents []string) string {
	q := make([]string, len(idents))
	for i, id := range idents {
		q[i] = quote(id)
	}
	return strings.Join(q, ", ")
}

// tableDDL renders CREATE TABLE IF NOT EXISTS for a dedicated table.
func (d dialect) tableDDL(schema store.Schema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(schema.Table))
	b.WriteString(" (\n")
	for i, c := range schema.Columns {
		b.WriteString("\t")
		b.WriteString(quote(c.Name))
		b.WriteString(" ")
		b.WriteString(d.types[c.Type])
		if c.Name == schema.KeyColumn {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(schema.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// entitiesDDL renders the generic (type, key) entity table.
func (d dialect) ddl(entitiesTable string, schemas ...store.Schema) []string {
	stmts := []string{d.entitiesDDL(entitiesTable)}
	for _, schema := range schemas {
		stmts = append(stmts, d.tableDDL(schema))
	}
	return stmts
}

func (d dialect) entitiesDDL(table string) string {
	return "CREATE TABLE IF NOT EXISTS " + quote(table) + " (\n" +
		"\t\"type\" TEXT NOT NULL,\n" +
		"\t\"key\" TEXT NOT NULL,\n" +
		"\t\"data\" " + d.types[store.ColumnJSON] + " NOT NULL,\n" +
		"\t\"updated_at\" " + d.types[store.ColumnTimestamp] + " NOT NULL,\n" +
		"\tPRIMARY KEY (\"type\", \"key\")\n" +
		")"
}

func (d dialect) upsertRowSQL(schema store.Schema) string {
	names := schema.ColumnNames()
	sets := make([]string, 0, len(names))
	for _, n := range names {
		if n == schema.KeyColumn {
			continue
		}
		sets = append(sets, quote(n)+" = EXCLUDED."+quote(n))
	}
	return "INSERT INTO " + quote(schema.Table) + " (" + quoteAll(names) + ") VALUES (" + d.placeholders(len(names)) + ")" +
		" ON CONFLICT (" + quote(schema.KeyColumn) + ") DO UPDATE SET " + strings.Join(sets, ", ")
}

func (d dialect) upsertEntitySQL(table string) string {
	return "INSERT INTO " + quote(table) + ` ("type", "key", "data", "updated_at") VALUES (` + d.placeholders(4) + ")" +
		` ON CONFLICT ("type", "key") DO UPDATE SET "data" = EXCLUDED."data", "updated_at" = EXCLUDED."updated_at"`
}

func (d dialect) selectEntitySQL(table string) string {
	return `SELECT "data" FROM ` + quote(table) + ` WHERE "type" = ` + d.placeholder(1) + ` AND "key" = ` + d.placeholder(2)
}
