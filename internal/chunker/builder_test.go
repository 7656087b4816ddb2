package chunker

import (
	"strings"
	"testing"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

func testSchema() *domain.Schema {
	return &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-main": {
				Alias:         "Main",
				CardTypeID:    "11111111-1111-1111-1111-111111111111",
				CardTypeAlias: "Contract",
				Fields: []*domain.Field{
					{Alias: "Name", Type: 10, Max: 200},
					{Alias: "State", Type: 7},
				},
			},
			"sec-terms": {
				Alias:         "Terms",
				CardTypeID:    "11111111-1111-1111-1111-111111111111",
				CardTypeAlias: "Contract",
				Fields: []*domain.Field{
					{Alias: "Amount", Type: 20},
				},
			},
		},
	}
}

func TestBuild_EmptySchema(t *testing.T) {
	if got := Build(nil); len(got) != 0 {
		t.Errorf("expected no chunks for nil schema, got %d", len(got))
	}
	if got := Build(&domain.Schema{}); len(got) != 0 {
		t.Errorf("expected no chunks for empty schema, got %d", len(got))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	schema := testSchema()

	first := Build(schema)
	second := Build(schema)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs:\n%q\nvs\n%q", i, first[i], second[i])
		}
	}
}

func TestBuild_ChunkKeys(t *testing.T) {
	chunks := Build(testSchema())

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Key != "Contract::Main" {
		t.Errorf("expected first key Contract::Main, got %q", chunks[0].Key)
	}
	if chunks[1].Key != "Contract::Terms" {
		t.Errorf("expected second key Contract::Terms, got %q", chunks[1].Key)
	}
}

func TestBuild_InstanceIDExactlyOnce(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-1": {
				Alias:         "Props",
				CardTypeAlias: "Card",
				Fields: []*domain.Field{
					// Explicit InstanceID must not duplicate the synthetic one,
					// regardless of casing.
					{Alias: "instanceid", Type: 7},
					{Alias: "Name", Type: 10, Max: 50},
				},
			},
		},
	}

	chunks := Build(schema)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	count := strings.Count(chunks[0].Text, "- InstanceID GUID")
	if count != 1 {
		t.Errorf("expected exactly one InstanceID column, got %d in:\n%s", count, chunks[0].Text)
	}
}

func TestBuild_SectionWithNoFields(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-empty": {Alias: "Bare", CardTypeAlias: "Card"},
		},
	}

	chunks := Build(schema)
	if len(chunks) != 1 {
		t.Fatalf("expected the identity column to carry an empty section, got %d chunks", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "- InstanceID GUID") {
		t.Errorf("expected synthetic InstanceID column in:\n%s", chunks[0].Text)
	}
}

func TestBuild_FallbackLiterals(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-x": {Fields: []*domain.Field{{Alias: "Notes", Type: 10}}},
		},
	}

	chunks := Build(schema)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Key != "UnknownCardType::UnknownSection" {
		t.Errorf("expected fallback key, got %q", chunks[0].Key)
	}
	if !strings.Contains(chunks[0].Text, "CARD_TYPE_ID: "+zeroGUID) {
		t.Errorf("expected zero GUID fallback in:\n%s", chunks[0].Text)
	}
}

func TestBuild_ColumnOrdering(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-1": {
				Alias:         "Main",
				CardTypeAlias: "Card",
				Fields: []*domain.Field{
					{Alias: "Zeta", Type: 10, Max: 10},
					{Alias: "Created", Type: 2},
					{Alias: "alpha", Type: 10, Max: 10},
					{Alias: "State", Type: 7},
				},
			},
		},
	}

	text := Build(schema)[0].Text
	order := []string{"- InstanceID", "- State", "- Created", "- alpha", "- Zeta"}
	last := -1
	for _, col := range order {
		idx := strings.Index(text, col)
		if idx < 0 {
			t.Fatalf("column %q missing in:\n%s", col, text)
		}
		if idx < last {
			t.Errorf("column %q out of order in:\n%s", col, text)
		}
		last = idx
	}
}

func TestBuild_QueryGating(t *testing.T) {
	tests := []struct {
		name    string
		fields  []*domain.Field
		want    []string
		notWant []string
	}{
		{
			name:    "identity only",
			fields:  nil,
			want:    []string{"- GetById:"},
			notWant: []string{"- GetByState:", "- FindByName:", "- RecentCreated:"},
		},
		{
			name:    "state and name",
			fields:  []*domain.Field{{Alias: "State", Type: 7}, {Alias: "Name", Type: 10, Max: 100}},
			want:    []string{"- GetById:", "- GetByState:", "- FindByName:"},
			notWant: []string{"- RecentCreated:"},
		},
		{
			name:    "created",
			fields:  []*domain.Field{{Alias: "Created", Type: 2}},
			want:    []string{"- RecentCreated:"},
			notWant: []string{"- GetByState:", "- FindByName:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := &domain.Schema{
				Sections: map[string]*domain.Section{
					"sec-1": {Alias: "S", CardTypeAlias: "C", Fields: tt.fields},
				},
			}
			text := Build(schema)[0].Text
			for _, q := range tt.want {
				if !strings.Contains(text, q) {
					t.Errorf("expected query %q in:\n%s", q, text)
				}
			}
			for _, q := range tt.notWant {
				if strings.Contains(text, q) {
					t.Errorf("unexpected query %q in:\n%s", q, text)
				}
			}
		})
	}
}

func TestBuild_TableName(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"ab12cd34": {Alias: "S", CardTypeAlias: "C"},
		},
	}
	text := Build(schema)[0].Text
	if !strings.Contains(text, "TABLE: dvtable_{ab12cd34}") {
		t.Errorf("expected dvtable naming in:\n%s", text)
	}
	if !strings.Contains(text, "SELECT * FROM dvtable_{ab12cd34} WHERE InstanceID = @id;") {
		t.Errorf("expected GetById over dvtable in:\n%s", text)
	}
}

func TestFormatType(t *testing.T) {
	tests := []struct {
		alias    string
		typeCode int
		max      int
		want     string
	}{
		{"Count", 0, 0, "INT"},
		{"IsActive", 1, 0, "BIT"},
		{"Created", 2, 0, "DATETIME"},
		{"Kind", 5, 0, "ENUM"},
		{"InstanceID", 7, 0, "GUID"},
		{"Rate", 9, 0, "NUMERIC"},
		{"Name", 10, 200, "NVARCHAR(200)"},
		{"Body", 10, 0, "NVARCHAR(MAX)"},
		{"Title", 16, 64, "NVARCHAR(64)"},
		{"Amount", 12, 0, "DECIMAL(38,10)"},
		{"Amount", 20, 0, "DECIMAL(38,10)"},
		{"Author", 13, 0, "REF"},
		{"Author", 14, 0, "REF"},
		{"Payload", 15, 0, "XML"},
		// Unknown codes fall back on the alias heuristic.
		{"CreatedBy", 99, 0, "GUID"},
		{"PartnerId", 99, 0, "GUID"},
		{"State", 99, 0, "GUID"},
		{"Notes", 99, 0, "NVARCHAR(MAX)"},
		{"Notes", 99, 40, "NVARCHAR(40)"},
	}

	for _, tt := range tests {
		if got := FormatType(tt.alias, tt.typeCode, tt.max); got != tt.want {
			t.Errorf("FormatType(%q, %d, %d) = %q, want %q", tt.alias, tt.typeCode, tt.max, got, tt.want)
		}
	}
}

func TestBuild_ReferenceTarget(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"sec-1": {
				Alias:         "Main",
				CardTypeAlias: "Contract",
				Fields: []*domain.Field{
					{Alias: "Partner", Type: 13, References: &domain.Reference{Target: "RefPartners.Companies"}},
					{Alias: "Manager", Type: 14, References: &domain.Reference{CardTypeAlias: "RefStaff", SectionAlias: "Employees"}},
					{Alias: "Orphan", Type: 13},
				},
			},
		},
	}

	text := Build(schema)[0].Text
	if !strings.Contains(text, "- Partner REF → RefPartners.Companies") {
		t.Errorf("expected pre-rendered target in:\n%s", text)
	}
	if !strings.Contains(text, "- Manager REF → RefStaff.Employees (JOIN Employees.RowID)") {
		t.Errorf("expected staff join hint in:\n%s", text)
	}
	if !strings.Contains(text, "- Orphan REF\n") {
		t.Errorf("expected bare REF without target in:\n%s", text)
	}
}

func TestJoinHint(t *testing.T) {
	tests := []struct {
		name string
		ref  *domain.Reference
		want string
	}{
		{"staff by card alias", &domain.Reference{CardTypeAlias: "RefStaff", SectionAlias: "Units"}, " (JOIN Units.RowID)"},
		{"staff by target prefix", &domain.Reference{Target: "RefStaff.Employees"}, " (JOIN Employees.RowID)"},
		{"staff no section", &domain.Reference{CardTypeAlias: "RefStaff", Target: "RefStaff"}, " (JOIN Employees.RowID)"},
		{"other lookup", &domain.Reference{CardTypeAlias: "RefPartners", SectionAlias: "Companies"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinHint(tt.ref); got != tt.want {
				t.Errorf("joinHint = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_GroupAndSectionSorting(t *testing.T) {
	schema := &domain.Schema{
		Sections: map[string]*domain.Section{
			"s-3": {Alias: "Zed", CardTypeAlias: "beta"},
			"s-1": {Alias: "Apple", CardTypeAlias: "Beta"},
			"s-2": {Alias: "Main", CardTypeAlias: "Alpha"},
		},
	}

	chunks := Build(schema)
	keys := make([]string, len(chunks))
	for i, c := range chunks {
		keys[i] = c.Key
	}

	// Alpha group first, then the case-insensitively merged Beta group with
	// sections in alias order.
	want := []string{"Alpha::Main", "Beta::Apple", "Beta::Zed"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected key order %v, got %v", want, keys)
		}
	}
}
