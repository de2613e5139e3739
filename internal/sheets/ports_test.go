package sheets

import "testing"

func TestNewTable(t *testing.T) {
	tbl := NewTable([][]string{
		{"", " "},
		{" Data ", "Valor"},
		{"2024-03-01", "10"},
		{"", ""},
		{"2024-03-02"},
	})

	if len(tbl.Header) != 2 || tbl.Header[0] != "Data" {
		t.Fatalf("unexpected header: %q", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if tbl.Line(0) != 3 || tbl.Line(1) != 5 {
		t.Errorf("lines = %v, want [3 5]", tbl.Lines)
	}
	if got := Cell(tbl.Rows[1], 1); got != "" {
		t.Errorf("Cell past end = %q, want empty", got)
	}
}

func TestTableColumn(t *testing.T) {
	tbl := Table{Header: []string{"Data", "Descrição", " VALOR "}}

	tests := []struct {
		name string
		want int
	}{
		{"data", 0},
		{"Descrição", 1},
		{"valor", 2},
		{"Tipo", -1},
	}
	for _, tt := range tests {
		if got := tbl.Column(tt.name); got != tt.want {
			t.Errorf("Column(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNewTableAt(t *testing.T) {
	tbl := NewTableAt([][]string{{"Data"}, {"2024-03-01"}, {"2024-03-02"}}, []int{1, 4, 7})

	if got := tbl.Line(1); got != 7 {
		t.Errorf("Line(1) = %d, want 7", got)
	}
	if got := (Table{Rows: [][]string{{"x"}}}).Line(0); got != 2 {
		t.Errorf("Line without positions = %d, want 2", got)
	}
}
