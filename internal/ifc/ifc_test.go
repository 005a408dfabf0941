package ifc

import "testing"

const fixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
ENDSEC;
DATA;
#1=IFCPROJECT('0aXqx93PL1buGzRRFQ0001',$,'Project',$,$,$,$,(#2),$);
#10=IFCBUILDINGSTOREY('1bYrz04QM2cvHzSSGR0010',$,'003',$,$,$,$,$,.ELEMENT.,9.0);
#12=IFCSPACE('2O2Fr$t4X7Zf8NOew3FLOH',$,'001',$,'Ufficio',$,$,'Director''s Office',.ELEMENT.,.INTERNAL.,$);
#13=IFCSPACE('3kQxT0aaj2IeGvMu9Vmcv2',$,'002',$,$,$,$,'Open Space',.ELEMENT.,.INTERNAL.,$);
#20=IFCRELCONTAINEDINSPATIALSTRUCTURE('4a',$,$,$,(#12),#10);
#21=IFCRELAGGREGATES('4b',$,$,$,#10,(#13));
#30=IFCPROPERTYSET('5a',$,'Pset_SpaceCommon',$,(#31,#32));
#31=IFCPROPERTYSINGLEVALUE('GrossPlannedArea',$,IFCAREAMEASURE(24.5),$);
#32=IFCPROPERTYSINGLEVALUE('IsExternal',$,IFCBOOLEAN(.F.),$);
#33=IFCRELDEFINESBYPROPERTIES('5b',$,$,$,(#12),#30);
#40=IFCPROPERTYSET('6a',$,'IFC_Locali',$,(#41,#42));
#41=IFCPROPERTYSINGLEVALUE('PBSs_III_PIANO',$,IFCLABEL('003'),$);
#42=IFCPROPERTYSINGLEVALUE('SBSm_CATEGORIA_DESCRIZIONE',$,IFCLABEL('UFFICI DOCENTI'),$);
#43=IFCRELDEFINESBYPROPERTIES('6b',$,$,$,(#12),#40);
ENDSEC;
END-ISO-10303-21;
`

func TestParse(t *testing.T) {
	model, err := Parse(fixture)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	spaces := model.Spaces()
	if len(spaces) != 2 {
		t.Fatalf("spaces = %d, want 2", len(spaces))
	}

	office := spaces[0]
	if office.GlobalID != "2O2Fr$t4X7Zf8NOew3FLOH" {
		t.Errorf("GlobalID = %q", office.GlobalID)
	}
	if office.Name != "001" {
		t.Errorf("Name = %q", office.Name)
	}
	if office.LongName != "Director's Office" {
		t.Errorf("LongName = %q, escaped quote should decode", office.LongName)
	}
	if office.ObjectType != "Ufficio" {
		t.Errorf("ObjectType = %q", office.ObjectType)
	}
	if office.Storey != "003" {
		t.Errorf("Storey = %q, containment relationship should resolve", office.Storey)
	}

	common := office.Psets["Pset_SpaceCommon"]
	if common == nil {
		t.Fatal("Pset_SpaceCommon missing")
	}
	if v, ok := common["GrossPlannedArea"].(float64); !ok || v != 24.5 {
		t.Errorf("GrossPlannedArea = %v", common["GrossPlannedArea"])
	}
	if v, ok := common["IsExternal"].(bool); !ok || v != false {
		t.Errorf("IsExternal = %v", common["IsExternal"])
	}

	locali := office.Psets["IFC_Locali"]
	if locali == nil {
		t.Fatal("IFC_Locali missing")
	}
	if locali["PBSs_III_PIANO"] != "003" {
		t.Errorf("PBSs_III_PIANO = %v", locali["PBSs_III_PIANO"])
	}
	if locali["SBSm_CATEGORIA_DESCRIZIONE"] != "UFFICI DOCENTI" {
		t.Errorf("category = %v", locali["SBSm_CATEGORIA_DESCRIZIONE"])
	}

	open := spaces[1]
	if open.Name != "002" || open.LongName != "Open Space" {
		t.Errorf("second space = %+v", open)
	}
	if open.Storey != "003" {
		t.Errorf("Storey = %q, aggregation relationship should resolve", open.Storey)
	}
	if open.ObjectType != "" {
		t.Errorf("ObjectType = %q, want empty for $", open.ObjectType)
	}
	if len(open.Psets) != 0 {
		t.Errorf("Psets = %v, want none", open.Psets)
	}
}

func TestParseWithoutDataSection(t *testing.T) {
	snippet := `#12=IFCSPACE('2O2Fr$t4X7Zf8NOew3FLOH',$,'001',$,$,$,$,'Office',.ELEMENT.,.INTERNAL.,$);`
	model, err := Parse(snippet)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Spaces()) != 1 {
		t.Fatalf("spaces = %d", len(model.Spaces()))
	}
}

func TestParseIgnoresUnknownEntities(t *testing.T) {
	contents := `DATA;
#1=IFCWALL('aaa',$,'W1',$,$,$,$,$);
#2=IFCSPACE('bbb',$,'001',$,$,$,$,$,.ELEMENT.,.INTERNAL.,$);
ENDSEC;`
	model, err := Parse(contents)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Spaces()) != 1 {
		t.Errorf("spaces = %d, want 1", len(model.Spaces()))
	}
}

func TestParseSemicolonInsideString(t *testing.T) {
	contents := `DATA;
#2=IFCSPACE('ccc',$,'00;1',$,$,$,$,'A; B',.ELEMENT.,.INTERNAL.,$);
ENDSEC;`
	model, err := Parse(contents)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	spaces := model.Spaces()
	if len(spaces) != 1 {
		t.Fatalf("spaces = %d", len(spaces))
	}
	if spaces[0].Name != "00;1" || spaces[0].LongName != "A; B" {
		t.Errorf("space = %+v", spaces[0])
	}
}

func TestArgValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"typed label", "IFCLABEL('x')", "x"},
		{"typed measure", "IFCAREAMEASURE(23.5)", 23.5},
		{"typed boolean true", "IFCBOOLEAN(.T.)", true},
		{"typed boolean false", "IFCBOOLEAN(.F.)", false},
		{"bare string", "'hello'", "hello"},
		{"bare float", "9.75", 9.75},
		{"enum", ".ELEMENT.", "ELEMENT"},
		{"unset", "$", nil},
		{"derived", "*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argValue(tt.input)
			if got != tt.expected {
				t.Errorf("argValue(%q) = %v (%T), want %v", tt.input, got, got, tt.expected)
			}
		})
	}
}
