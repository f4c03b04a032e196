package schema

import (
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{Schema: "public", Table: "users", Column: "id", DataType: "integer", Nullable: false},
		{Schema: "public", Table: "users", Column: "email", DataType: "text", Nullable: false},
		{Schema: "public", Table: "users", Column: "nickname", DataType: "text", Nullable: true},
		{Schema: "public", Table: "orders", Column: "id", DataType: "integer", Nullable: false},
		{Schema: "public", Table: "orders", Column: "placed_at", DataType: "timestamp with time zone", Nullable: true},
		{Schema: "audit", Table: "events", Column: "payload", DataType: "jsonb", Nullable: true},
	}
}

func TestFold_GroupsByQualifiedName(t *testing.T) {
	c := Fold(sampleRows())

	if c.Len() != 3 {
		t.Fatalf("expected 3 tables, got %d", c.Len())
	}

	users := c.Table("public.users")
	if users == nil {
		t.Fatal("public.users missing from catalog")
	}
	if len(users.Columns) != 3 {
		t.Errorf("public.users should have 3 columns, got %d", len(users.Columns))
	}
	if users.Key() != "public.users" {
		t.Errorf("Key() = %q", users.Key())
	}
}

func TestFold_PreservesInputOrder(t *testing.T) {
	c := Fold(sampleRows())

	wantTables := []string{"public.users", "public.orders", "audit.events"}
	tables := c.Tables()
	if len(tables) != len(wantTables) {
		t.Fatalf("expected %d tables, got %d", len(wantTables), len(tables))
	}
	for i, want := range wantTables {
		if got := tables[i].Key(); got != want {
			t.Errorf("table %d = %q, want %q", i, got, want)
		}
	}

	wantColumns := []string{"id", "email", "nickname"}
	for i, want := range wantColumns {
		if got := tables[0].Columns[i].Name; got != want {
			t.Errorf("users column %d = %q, want %q", i, got, want)
		}
	}
}

func TestFold_SameTableNameDifferentSchemas(t *testing.T) {
	rows := []Row{
		{Schema: "public", Table: "items", Column: "id", DataType: "integer"},
		{Schema: "archive", Table: "items", Column: "id", DataType: "integer"},
	}
	c := Fold(rows)
	if c.Len() != 2 {
		t.Fatalf("tables in different schemas must not merge, got %d tables", c.Len())
	}
}

func TestRender_Layout(t *testing.T) {
	rows := []Row{
		{Schema: "public", Table: "users", Column: "id", DataType: "integer", Nullable: false},
		{Schema: "public", Table: "users", Column: "nickname", DataType: "text", Nullable: true},
		{Schema: "audit", Table: "events", Column: "payload", DataType: "jsonb", Nullable: true},
	}

	want := "Table: public.users\n" +
		"  - id (integer)\n" +
		"  - nickname (text, nullable)\n" +
		"\n" +
		"Table: audit.events\n" +
		"  - payload (jsonb, nullable)\n" +
		"\n"

	if got := Render(Fold(rows)); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(Fold(nil)); got != "" {
		t.Errorf("empty catalog should render to empty string, got %q", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	rows := sampleRows()
	first := Render(Fold(rows))
	for i := 0; i < 10; i++ {
		if got := Render(Fold(rows)); got != first {
			t.Fatalf("render is not deterministic on iteration %d", i)
		}
	}
}
