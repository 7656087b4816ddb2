// Package chunker flattens a card/section schema into self-contained
// text chunks suitable for vector indexing.
package chunker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// Fallback literals used when the export carries blank identifiers.
const (
	UnknownCardType = "UnknownCardType"
	UnknownSection  = "UnknownSection"
	zeroGUID        = "00000000-0000-0000-0000-000000000000"
)

// columnPriority lists the well-known columns rendered ahead of the
// alphabetical remainder, in this order. This is a domain convention of
// the schema export, not an inference.
var columnPriority = []string{"InstanceID", "State", "Name", "RegNumber", "Created", "CreatedBy"}

// Build flattens the schema into an ordered chunk list.
//
// The transformation is deterministic and total: card type groups are
// sorted case-insensitively, sections within a group likewise (section id
// breaks ties), and all missing data degrades to fallback literals. An
// empty schema yields an empty result. Build never fails.
func Build(schema *domain.Schema) []domain.Chunk {
	if schema.IsEmpty() {
		return nil
	}

	groups := groupByCardType(schema)

	var chunks []domain.Chunk
	for _, g := range groups {
		for _, entry := range g.sections {
			sectionAlias := safeStr(entry.sec.Alias, UnknownSection)
			fields := collectColumns(entry.sec)

			chunks = append(chunks, domain.Chunk{
				Key:  g.alias + "::" + sectionAlias,
				Text: renderSection(entry.id, g.alias, g.cardTypeID, sectionAlias, fields),
			})
		}
	}
	return chunks
}

// sectionEntry pairs a section with its stable export id.
type sectionEntry struct {
	id  string
	sec *domain.Section
}

// cardGroup holds all sections of one card type, sorted by section alias.
type cardGroup struct {
	alias      string
	cardTypeID string
	sections   []sectionEntry
}

func groupByCardType(schema *domain.Schema) []cardGroup {
	byKey := make(map[string][]sectionEntry)
	for id, sec := range schema.Sections {
		if sec == nil {
			continue
		}
		key := strings.ToLower(safeStr(sec.CardTypeAlias, UnknownCardType))
		byKey[key] = append(byKey[key], sectionEntry{id: id, sec: sec})
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]cardGroup, 0, len(keys))
	for _, k := range keys {
		entries := byKey[k]
		sort.Slice(entries, func(i, j int) bool {
			a := strings.ToLower(safeStr(entries[i].sec.Alias, ""))
			b := strings.ToLower(safeStr(entries[j].sec.Alias, ""))
			if a != b {
				return a < b
			}
			return entries[i].id < entries[j].id
		})

		first := entries[0].sec
		groups = append(groups, cardGroup{
			alias:      safeStr(first.CardTypeAlias, UnknownCardType),
			cardTypeID: safeStr(first.CardTypeID, zeroGUID),
			sections:   entries,
		})
	}
	return groups
}

// collectColumns returns the section's own fields plus the synthetic
// leading InstanceID identity column, deduplicated case-insensitively.
// Fields are never merged across sections of the same card type.
func collectColumns(sec *domain.Section) []*domain.Field {
	cols := []*domain.Field{{Alias: "InstanceID", Type: 7}}
	seen := map[string]bool{"instanceid": true}

	for _, f := range sec.Fields {
		if f == nil || strings.TrimSpace(f.Alias) == "" {
			continue
		}
		key := strings.ToLower(f.Alias)
		if seen[key] {
			continue
		}
		seen[key] = true
		cols = append(cols, f)
	}
	return cols
}

// orderColumns puts the priority columns first, in priority order, then
// the remainder alphabetically (case-insensitive, stable).
func orderColumns(cols []*domain.Field) []*domain.Field {
	priorityIndex := func(alias string) int {
		for i, k := range columnPriority {
			if strings.EqualFold(k, alias) {
				return i
			}
		}
		return -1
	}

	var head, tail []*domain.Field
	for _, c := range cols {
		if priorityIndex(c.Alias) >= 0 {
			head = append(head, c)
		} else {
			tail = append(tail, c)
		}
	}
	sort.SliceStable(head, func(i, j int) bool {
		return priorityIndex(head[i].Alias) < priorityIndex(head[j].Alias)
	})
	sort.SliceStable(tail, func(i, j int) bool {
		return strings.ToLower(tail[i].Alias) < strings.ToLower(tail[j].Alias)
	})
	return append(head, tail...)
}

func renderSection(sectionID, cardTypeAlias, cardTypeID, sectionAlias string, fields []*domain.Field) string {
	var sb strings.Builder
	table := "dvtable_{" + sectionID + "}"

	sb.WriteString("TABLE: " + table + "\n")
	sb.WriteString("CARD_TYPE: " + cardTypeAlias + "\n")
	sb.WriteString("CARD_TYPE_ID: " + cardTypeID + "\n")
	sb.WriteString("SECTION: " + sectionAlias + "\n")
	sb.WriteString("SECTION_ID: " + sectionID + "\n")
	sb.WriteString("PRIMARY_KEY: InstanceID GUID\n")
	sb.WriteString("COLUMNS:\n")

	for _, f := range orderColumns(fields) {
		sb.WriteString(formatColumnLine(f) + "\n")
	}

	// Example queries are gated on columns this section actually has.
	sb.WriteString("QUERIES:\n")
	sb.WriteString("- GetById: SELECT * FROM " + table + " WHERE InstanceID = @id;\n")
	if hasField(fields, "State") {
		sb.WriteString("- GetByState: SELECT InstanceID FROM " + table + " WHERE State = @state;\n")
	}
	if hasField(fields, "Name") {
		sb.WriteString("- FindByName: SELECT TOP 50 InstanceID, Name FROM " + table + " WHERE Name LIKE @name;\n")
	}
	if hasField(fields, "Created") {
		sb.WriteString("- RecentCreated: SELECT TOP 100 * FROM " + table + " WHERE Created >= @fromDate ORDER BY Created DESC;\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func hasField(fields []*domain.Field, alias string) bool {
	for _, f := range fields {
		if strings.EqualFold(f.Alias, alias) {
			return true
		}
	}
	return false
}

// FormatType renders the export's integer type code as a SQL-ish label.
// The code table is a fixed convention of the export format. Unknown codes
// fall back on a name heuristic: identity-like aliases become GUID,
// everything else NVARCHAR.
func FormatType(alias string, typeCode, max int) string {
	switch typeCode {
	case 0:
		return "INT"
	case 1:
		return "BIT"
	case 2:
		return "DATETIME"
	case 5:
		return "ENUM"
	case 7:
		return "GUID"
	case 9:
		return "NUMERIC"
	case 10, 16:
		return nvarchar(max)
	case 12, 20:
		return "DECIMAL(38,10)"
	case 13, 14:
		return "REF"
	case 15:
		return "XML"
	default:
		if alias != "" {
			if strings.EqualFold(alias, "InstanceID") ||
				strings.EqualFold(alias, "State") ||
				hasSuffixFold(alias, "Id") {
				return "GUID"
			}
		}
		return nvarchar(max)
	}
}

func nvarchar(max int) string {
	if max > 0 {
		return fmt.Sprintf("NVARCHAR(%d)", max)
	}
	return "NVARCHAR(MAX)"
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// formatColumnLine renders one COLUMNS entry. REF columns gain a target
// hint and, for references into the RefStaff lookup family, a join hint
// naming the target section's row-identifier column.
func formatColumnLine(f *domain.Field) string {
	typed := FormatType(f.Alias, f.Type, f.Max)

	if (f.Type == 13 || f.Type == 14) && f.References != nil {
		if target := referenceTarget(f.References); target != "" {
			return "- " + f.Alias + " " + typed + " → " + target + joinHint(f.References)
		}
	}
	return "- " + f.Alias + " " + typed
}

// referenceTarget prefers the export's pre-rendered target, then
// CardTypeAlias.SectionAlias, then the bare section alias.
func referenceTarget(r *domain.Reference) string {
	if t := strings.TrimSpace(r.Target); t != "" {
		return t
	}
	card := strings.TrimSpace(r.CardTypeAlias)
	sec := strings.TrimSpace(r.SectionAlias)

	switch {
	case card != "" && sec != "":
		return card + "." + sec
	case sec != "":
		return sec
	default:
		return ""
	}
}

// joinHint returns " (JOIN <Section>.RowID)" for references into the
// RefStaff lookup family, empty otherwise.
func joinHint(r *domain.Reference) string {
	card := strings.TrimSpace(r.CardTypeAlias)
	sec := strings.TrimSpace(r.SectionAlias)
	target := strings.TrimSpace(r.Target)

	isRefStaff := strings.EqualFold(card, "RefStaff") ||
		len(target) >= len("RefStaff.") && strings.EqualFold(target[:len("RefStaff.")], "RefStaff.")
	if !isRefStaff {
		return ""
	}

	joinSection := sec
	if joinSection == "" {
		if i := strings.Index(target, "."); i >= 0 {
			joinSection = target[i+1:]
		} else {
			joinSection = "Employees"
		}
	}
	return fmt.Sprintf(" (JOIN %s.RowID)", joinSection)
}

func safeStr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
