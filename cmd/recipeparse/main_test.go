package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipe-importer/internal/core/parser"
)

const sheet = "Recipe Name\tPasta Pomodoro\n" +
	"2B. Ingredients - Sauce Tomato 1 KG\n" +
	"Tomato\t800\tG\n" +
	"4. Step-by-Step Preparation\n" +
	"A. Sub-Recipe: Sauce Tomato\tStep 1 - Chop. Step 2 - Simmer.\n" +
	"B. Final Recipe Assembly:\tBoil pasta"

const namelessSheet = "Recipe Name\t\nStation\tCold\n\n4. Step-by-Step\n1\tMix"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootReadsStdinAndWritesJSON(t *testing.T) {
	out, err := run(t, sheet, "--placeholder-base-url", "https://img.example")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var resp struct {
		Recipe struct {
			RecipeID     string `json:"recipeId"`
			Presentation struct {
				Images []string `json:"images"`
			} `json:"presentation"`
		} `json:"recipe"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.Recipe.RecipeID != "pasta-pomodoro" {
		t.Errorf("recipeId = %q", resp.Recipe.RecipeID)
	}
	if len(resp.Recipe.Presentation.Images) == 0 || !strings.HasPrefix(resp.Recipe.Presentation.Images[0], "https://img.example/") {
		t.Errorf("images = %v", resp.Recipe.Presentation.Images)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v", resp.Warnings)
	}
}

func TestRootStrictFailsOnWarnings(t *testing.T) {
	if _, err := run(t, namelessSheet); err != nil {
		t.Fatalf("non-strict run failed: %v", err)
	}
	out, err := run(t, namelessSheet, "--strict")
	if !errors.Is(err, errStrict) {
		t.Fatalf("err = %v, want errStrict", err)
	}
	// 嚴格模式仍輸出結果供檢查
	if !strings.Contains(out, `"incomplete": true`) {
		t.Errorf("output = %s", out)
	}
}

func TestRootRejectsShortAndOversizedInput(t *testing.T) {
	if _, err := run(t, "Recipe Name\tX"); !errors.Is(err, parser.ErrTooShortInput) {
		t.Errorf("short input err = %v", err)
	}
	if _, err := run(t, sheet, "--max-rows", "3"); !errors.Is(err, parser.ErrInputTooLarge) {
		t.Errorf("max-rows err = %v", err)
	}
}

func TestRootParsesSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tsv")
	short := filepath.Join(dir, "short.tsv")
	if err := os.WriteFile(good, []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(short, []byte("only one row"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", good, short, filepath.Join(dir, "missing.tsv"))
	if err == nil || !strings.Contains(err.Error(), "2 of 3") {
		t.Fatalf("err = %v", err)
	}

	var results []fileResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 3 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Result == nil || results[0].Result.Recipe.RecipeID != "pasta-pomodoro" {
		t.Errorf("good = %+v", results[0])
	}
	if results[1].Error == "" || results[2].Error == "" {
		t.Errorf("failures not reported: %+v", results[1:])
	}
}

func TestPrintResultRendersTables(t *testing.T) {
	res, err := parser.Parse(sheet)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	printResult(&out, res)

	for _, want := range []string{"pasta-pomodoro", "Sub-recipe Sauce Tomato (1 KG)", "Chop.", "Boil pasta", "Tomato"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	got := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(got, "only") || !strings.Contains(got, "A") {
		t.Errorf("table = %s", got)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("empty headers should render nothing")
	}
}
