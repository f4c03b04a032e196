// Package schema normalizes raw catalog rows into a table/column model and
// renders the schema text consumed by the schema viewer and the AI prompt
// builder. It is engine-agnostic: every adapter maps its catalog query output
// to Row before folding.
package schema

import (
	"fmt"
	"strings"
)

// Row is one catalog row in the shape shared by all engines:
// one column of one table, in catalog query order
// (schema, table, ordinal position).
type Row struct {
	Schema   string
	Table    string
	Column   string
	DataType string
	Nullable bool
	Default  string
}

// Column is one normalized column description.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
}

// Table is a normalized catalog description of one table, keyed by
// (schema, table name), holding columns in catalog order.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Key returns the "schema.table" identity of the table.
func (t *Table) Key() string {
	return t.Schema + "." + t.Name
}

// Catalog holds folded tables in first-seen order. It is rebuilt on every
// FetchSchema call and never mutated in place.
type Catalog struct {
	keys   []string
	tables map[string]*Table
}

// Fold groups catalog rows into tables keyed by "schema.table".
// Input order is preserved for both tables and columns; the formatter never
// re-sorts what the catalog query ordered.
func Fold(rows []Row) *Catalog {
	c := &Catalog{tables: make(map[string]*Table)}
	for _, r := range rows {
		key := r.Schema + "." + r.Table
		t, ok := c.tables[key]
		if !ok {
			t = &Table{Schema: r.Schema, Name: r.Table}
			c.tables[key] = t
			c.keys = append(c.keys, key)
		}
		t.Columns = append(t.Columns, Column{
			Name:     r.Column,
			Type:     r.DataType,
			Nullable: r.Nullable,
			Default:  r.Default,
		})
	}
	return c
}

// Len returns the number of tables in the catalog.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Table returns the table for a "schema.table" key, or nil.
func (c *Catalog) Table(key string) *Table {
	return c.tables[key]
}

// Tables returns the tables in first-seen order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.keys))
	for _, key := range c.keys {
		out = append(out, c.tables[key])
	}
	return out
}

// Render produces the fixed text layout both the schema viewer and the AI
// prompt builder parse:
//
//	Table: schema.table
//	  - column (type, nullable)
//	  - column (type)
//	<blank line>
//
// The layout is pattern-matched downstream, so the header line, two-space
// indentation, nullable annotation and blank-line separator must not change.
func Render(c *Catalog) string {
	var b strings.Builder
	for _, key := range c.keys {
		t := c.tables[key]
		fmt.Fprintf(&b, "Table: %s.%s\n", t.Schema, t.Name)
		for _, col := range t.Columns {
			if col.Nullable {
				fmt.Fprintf(&b, "  - %s (%s, nullable)\n", col.Name, col.Type)
			} else {
				fmt.Fprintf(&b, "  - %s (%s)\n", col.Name, col.Type)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
