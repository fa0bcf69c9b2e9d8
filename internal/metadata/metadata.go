// Package metadata queries MySQL's information_schema and maps the rows into
// typed records. Nothing outside this package sees driver row shapes.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
)

// TableMeta identifies a table within the selected schema.
type TableMeta struct {
	Name string `json:"name"`
}

// ColumnRef is one column covered by an index, with its position in the key.
type ColumnRef struct {
	Name            string `json:"name"`
	Index           string `json:"index"`
	OrdinalPosition int    `json:"ordinal_position"`
}

// IndexMeta is one index on a table together with its statistics. Columns is
// ordered by OrdinalPosition.
type IndexMeta struct {
	Name        string      `json:"name"`
	Table       string      `json:"table"`
	Type        string      `json:"type"`
	Unique      bool        `json:"unique"`
	Cardinality int64       `json:"cardinality"`
	SizeMB      float64     `json:"size_mb"`
	Columns     []ColumnRef `json:"columns"`
}

// ListSchemas returns the user schemas on the server, sorted by name.
func ListSchemas(ctx context.Context, dbConn *sql.DB) ([]string, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT SCHEMA_NAME
        FROM information_schema.SCHEMATA
        WHERE SCHEMA_NAME NOT IN ('mysql','information_schema','performance_schema','sys')
        ORDER BY SCHEMA_NAME`)
	if err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan schema row: %w", err)
		}
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}

// ListTables returns the base tables of schema, sorted by name.
func ListTables(ctx context.Context, dbConn *sql.DB, schema string) ([]TableMeta, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT TABLE_NAME
        FROM information_schema.TABLES
        WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
        ORDER BY TABLE_NAME`, schema)
	if err != nil {
		return nil, fmt.Errorf("query tables for %s: %w", schema, err)
	}
	defer rows.Close()

	var tables []TableMeta
	for rows.Next() {
		var t TableMeta
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// SchemaExists reports whether schema is known to the server.
func SchemaExists(ctx context.Context, dbConn *sql.DB, schema string) (bool, error) {
	var n int
	err := dbConn.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM information_schema.SCHEMATA
        WHERE SCHEMA_NAME = ?`, schema).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query schema existence for %s: %w", schema, err)
	}
	return n > 0, nil
}

// TableExists reports whether schema.table is a known base table.
func TableExists(ctx context.Context, dbConn *sql.DB, schema, table string) (bool, error) {
	var n int
	err := dbConn.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM information_schema.TABLES
        WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`, schema, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query table existence for %s.%s: %w", schema, table, err)
	}
	return n > 0, nil
}

// TableIndexes returns the indexes of schema.table with their covered columns
// and statistics. Index size is derived from cardinality and the InnoDB page
// size, the same estimate information_schema exposes for key storage.
//
// STATISTICS reports NULL cardinality for some index types; those render as 0.
func TableIndexes(ctx context.Context, dbConn *sql.DB, schema, table string) ([]IndexMeta, error) {
	rows, err := dbConn.QueryContext(ctx, `
        SELECT s.INDEX_NAME, s.SEQ_IN_INDEX, s.COLUMN_NAME, s.NON_UNIQUE, s.INDEX_TYPE,
               s.CARDINALITY,
               ROUND(s.CARDINALITY * @@innodb_page_size / 1024 / 1024, 2) AS INDEX_SIZE_MB
        FROM information_schema.STATISTICS s
        WHERE s.TABLE_SCHEMA = ? AND s.TABLE_NAME = ?
        ORDER BY s.INDEX_NAME, s.SEQ_IN_INDEX`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query indexes for %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var indexes []IndexMeta
	for rows.Next() {
		var (
			indexName   string
			seq         int
			columnName  string
			nonUnique   int64
			indexType   string
			cardinality sql.NullInt64
			sizeMB      sql.NullFloat64
		)
		if err := rows.Scan(&indexName, &seq, &columnName, &nonUnique, &indexType, &cardinality, &sizeMB); err != nil {
			return nil, fmt.Errorf("scan index row for %s.%s: %w", schema, table, err)
		}

		// Rows arrive ordered by (INDEX_NAME, SEQ_IN_INDEX), so a name change
		// starts a new index and later rows only append columns.
		if len(indexes) == 0 || indexes[len(indexes)-1].Name != indexName {
			indexes = append(indexes, IndexMeta{
				Name:        indexName,
				Table:       table,
				Type:        indexType,
				Unique:      nonUnique == 0,
				Cardinality: cardinality.Int64,
				SizeMB:      sizeMB.Float64,
			})
		}
		idx := &indexes[len(indexes)-1]
		idx.Columns = append(idx.Columns, ColumnRef{
			Name:            columnName,
			Index:           indexName,
			OrdinalPosition: seq,
		})
		// Cardinality and size are reported per key part; keep the last
		// (full-key) value so multi-column indexes show their total.
		idx.Cardinality = cardinality.Int64
		idx.SizeMB = sizeMB.Float64
	}
	return indexes, rows.Err()
}
