package validation

import "testing"

type bookInput struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10"`
	Subtitle    *string `json:"subtitle" validate:"omitnil,notblank"`
}

func TestStruct(t *testing.T) {
	long := "much too long"
	blank := " \t "
	empty := ""
	sub := "Part one"
	tests := []struct {
		name  string
		input bookInput
		want  Violations
	}{
		{"valid", bookInput{Title: "Dune"}, Violations{}},
		{"missing title", bookInput{}, Violations{"title": "required"}},
		{"long description", bookInput{Title: "Dune", Description: &long}, Violations{"description": "max"}},
		{"blank title", bookInput{Title: "   "}, Violations{"title": "notblank"}},
		{"blank subtitle", bookInput{Title: "Dune", Subtitle: &blank}, Violations{"subtitle": "notblank"}},
		{"empty subtitle", bookInput{Title: "Dune", Subtitle: &empty}, Violations{"subtitle": "notblank"}},
		{"subtitle", bookInput{Title: "Dune", Subtitle: &sub}, Violations{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Struct(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Struct() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Struct()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestBasicValidators(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	OneOf("sort", "UP", []string{"ASC", "DESC"}, v)
	RangeInt("size", 51, 1, 50, v)
	OneOf("order", "ASC", []string{"ASC", "DESC"}, v)

	if v.Empty() {
		t.Fatal("expected violations")
	}
	if v["name"] != "required" || v["sort"] != "oneof" || v["size"] != "out_of_range" {
		t.Errorf("unexpected violations %v", v)
	}
	if _, ok := v["order"]; ok {
		t.Error("valid value should not be reported")
	}
}
