package common

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQualitySpecificationAliases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want QualitySpecification
	}{
		{
			name: "current fields",
			in:   `{"aspect":"Texture","specification":"Crisp","checkMethod":"Bite"}`,
			want: QualitySpecification{Aspect: "Texture", Parameter: "Texture", Specification: "Crisp", CheckMethod: "Bite"},
		},
		{
			name: "legacy name and taste profile",
			in:   `{"name":"Flavor","tasteAromaProfile":"Smoky"}`,
			want: QualitySpecification{Aspect: "Flavor", Parameter: "Flavor", Specification: "Smoky", TasteFlavorProfile: "Smoky"},
		},
		{
			name: "parameter only",
			in:   `{"parameter":"Color","appearance":"Golden"}`,
			want: QualitySpecification{Aspect: "Color", Parameter: "Color", Specification: "Golden", Appearance: "Golden"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got QualitySpecification
			if err := ParseJSON(tt.in, &got); err != nil {
				t.Fatalf("ParseJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"a":1} {"b":2}`, &v); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("save: %w", NewFieldValidationError("recipeId", "recipeId is required"))
	if !IsValidationError(err) {
		t.Fatal("wrapped validation error not detected")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "recipeId" {
		t.Errorf("field = %+v", ve)
	}
	if IsValidationError(errors.New("boom")) {
		t.Error("plain error reported as validation error")
	}
}

func TestLogRedactsPastedText(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	prev := Logger
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	LogInfo("匯入完成", zap.String("raw_text", "Recipe Name\tSecret"), zap.Int("rows", 12))

	entries := observed.FilterMessage("匯入完成").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if _, ok := fields["raw_text"]; ok {
		t.Error("raw_text should be redacted")
	}
	if fields["rows"] != int64(12) {
		t.Errorf("rows = %v", fields["rows"])
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Errorf("got %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("got %q", got)
	}
}
