package domain

// Schema is the typed representation of a card/section schema export.
// Keys are section IDs (opaque GUIDs), which are unique and stable
// across exports and therefore used to derive table and chunk identity.
type Schema struct {
	Sections map[string]*Section `json:"sections"`
}

// Section is one logical record group within a card type.
type Section struct {
	// Alias is the human-readable section name.
	Alias string `json:"alias"`

	// CardTypeID is the GUID of the owning card type.
	CardTypeID string `json:"card_type_id"`

	// CardTypeAlias is the human-readable card type name.
	CardTypeAlias string `json:"card_type_alias"`

	// Fields are the section's columns, in export order.
	Fields []*Field `json:"fields"`
}

// Field is a single column within a section.
type Field struct {
	// FieldID is the GUID of the field in the export.
	FieldID string `json:"field_id,omitempty"`

	// Alias is the column name. Uniqueness is enforced per section,
	// case-insensitively, when columns are collected for chunking.
	Alias string `json:"alias"`

	// SectionAlias names the owning section in older export revisions.
	SectionAlias string `json:"section_alias,omitempty"`

	// Type is the export's small integer type code. See chunker.FormatType
	// for the code table.
	Type int `json:"type"`

	// Max is a length/precision hint for string types.
	Max int `json:"max"`

	// References describes a foreign-key-like pointer to another
	// section or card type. Only meaningful for REF-typed fields.
	References *Reference `json:"references,omitempty"`

	IsDynamic  bool `json:"is_dynamic,omitempty"`
	IsExtended bool `json:"is_extended,omitempty"`
	IsNew      bool `json:"is_new,omitempty"`
}

// Reference points a field at another section or card type.
type Reference struct {
	// Target is a pre-rendered "CardType.Section" style target, when the
	// export provides one.
	Target string `json:"target,omitempty"`

	// CardTypeAlias and SectionAlias identify the target when Target
	// is absent.
	CardTypeAlias string `json:"card_type_alias,omitempty"`
	SectionAlias  string `json:"section_alias,omitempty"`
}

// IsEmpty reports whether the schema carries no sections at all.
func (s *Schema) IsEmpty() bool {
	return s == nil || len(s.Sections) == 0
}
