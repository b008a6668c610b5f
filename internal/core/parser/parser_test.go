package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"recipe-importer/internal/pkg/common"
)

// sheet 以 tab 與換行組合測試輸入
func sheet(rows ...[]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, "\t")
	}
	return strings.Join(lines, "\n")
}

func fullSheet() string {
	return sheet(
		[]string{"Recipe Name", "Pasta Pomodoro"},
		[]string{"Station", "", "Hot Kitchen"},
		[]string{"Recipe Code", "HK-001"},
		[]string{"Yield", "10 portions"},
		[]string{""},
		[]string{"2A. Main Ingredients"},
		[]string{"Ingredient", "Quantity", "Unit", "Notes"},
		[]string{"Spaghetti", "1,5", "KG", "dry"},
		[]string{"Basil", "", "bunch"},
		[]string{"Parmesan"},
		[]string{"2B. Ingredients - Sauce Tomato 1 KG"},
		[]string{"Item", "Quantity", "Unit", "Specification"},
		[]string{"Tomato", "800", "G", "ripe"},
		[]string{"Garlic", "2-3", "cloves"},
		[]string{"Notes", "Keep warm"},
		[]string{"2C. Ingredients – Pesto (Sub-Recipe)"},
		[]string{"Pine nuts", "50", "G"},
		[]string{"3. Required Machines & Tools"},
		[]string{"Machine", "Setting", "Purpose", "Notes"},
		[]string{"Stove", "High", "Boiling", "gas"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"Step", "Instruction", "Time", "Hint"},
		[]string{"A. Sub-Recipe: Sauce Tomato", "Step 1 – Chop tomatoes. Step 2 – Simmer.", "25 min", "stir often"},
		[]string{"5", "Season to taste"},
		[]string{"B. Sub-Recipe:", "Blend pine nuts"},
		[]string{"C. Final Recipe Assembly:", "Step 4 - Boil pasta. Step 4 - Combine with sauce.", "15 min"},
		[]string{"9", "Plate and garnish"},
		[]string{"5. Quality Specifications"},
		[]string{"Aspect", "Specification", "Check Method"},
		[]string{"Texture", "Al dente", "Bite test"},
		[]string{"6. Packing & Labeling"},
		[]string{"Packing Type", "Tray"},
		[]string{"Service Items", "Fork, napkin"},
		[]string{"Storage Condition", "Chilled"},
		[]string{"Shelf Life", "2 days"},
		[]string{"Label Requirements", "Date, allergens"},
	)
}

func TestParseFullSheet(t *testing.T) {
	res, err := Parse(fullSheet())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	r := res.Recipe

	if r.Name != "Pasta Pomodoro" || r.RecipeID != "pasta-pomodoro" {
		t.Fatalf("name/id = %q/%q", r.Name, r.RecipeID)
	}
	if r.Station != "Hot Kitchen" {
		t.Errorf("station = %q, want fallback to third cell", r.Station)
	}
	if r.Code != "HK-001" || r.Yield != "10 portions" {
		t.Errorf("code/yield = %q/%q", r.Code, r.Yield)
	}

	if len(r.MainIngredients) != 2 {
		t.Fatalf("main ingredients = %+v", r.MainIngredients)
	}
	if r.MainIngredients[0].Quantity != 1.5 || r.MainIngredients[0].Unit != "KG" {
		t.Errorf("spaghetti = %+v", r.MainIngredients[0])
	}
	if r.MainIngredients[1].Name != "Basil" || r.MainIngredients[1].Quantity != 0 {
		t.Errorf("basil = %+v", r.MainIngredients[1])
	}

	if len(r.SubRecipes) != 2 {
		t.Fatalf("sub-recipes = %+v", r.SubRecipes)
	}
	sauce, pesto := r.SubRecipes[0], r.SubRecipes[1]
	if sauce.Name != "Sauce Tomato" || sauce.Yield != "1 KG" || sauce.ID != "sub-1-sauce-tomato" {
		t.Errorf("sauce = %q %q %q", sauce.Name, sauce.Yield, sauce.ID)
	}
	if len(sauce.Ingredients) != 2 || sauce.Ingredients[1].Quantity != "2-3" {
		t.Errorf("sauce ingredients = %+v", sauce.Ingredients)
	}
	if sauce.Notes != "Keep warm" {
		t.Errorf("sauce notes = %q", sauce.Notes)
	}
	if pesto.Name != "Pesto" {
		t.Errorf("pesto name = %q", pesto.Name)
	}

	wantSauce := []string{"Chop tomatoes.", "Simmer.", "Season to taste"}
	assertInstructions(t, "sauce", sauce.Preparation, wantSauce)
	if sauce.Preparation[0].Time != "25 min" || sauce.Preparation[0].Hint != "stir often" {
		t.Errorf("sauce step 1 = %+v", sauce.Preparation[0])
	}
	assertInstructions(t, "pesto", pesto.Preparation, []string{"Blend pine nuts"})
	assertInstructions(t, "main", r.Preparation, []string{"Boil pasta.", "Combine with sauce.", "Plate and garnish"})

	if len(r.MachinesTools) != 1 || r.MachinesTools[0].Purpose != "Boiling" || r.MachinesTools[0].Notes != "gas" {
		t.Errorf("machines = %+v", r.MachinesTools)
	}

	if len(r.QualitySpecifications) != 1 {
		t.Fatalf("quality = %+v", r.QualitySpecifications)
	}
	q := r.QualitySpecifications[0]
	if q.Aspect != "Texture" || q.Parameter != "Texture" || q.Specification != "Al dente" ||
		q.Texture != "Al dente" || q.TasteFlavorProfile != "Al dente" || q.Aroma != "Al dente" || q.CheckMethod != "Bite test" {
		t.Errorf("quality mirror = %+v", q)
	}

	p := r.PackingLabeling
	if p.PackingType != "Tray" || p.StorageCondition != "Chilled" || p.ShelfLife != "2 days" || p.LabelRequirements != "Date, allergens" {
		t.Errorf("packing = %+v", p)
	}
	if !reflect.DeepEqual(p.ServiceItems, []string{"Fork", "napkin"}) {
		t.Errorf("service items = %v", p.ServiceItems)
	}

	if len(r.Presentation.Images) != 3 || r.Presentation.Images[0] != "placeholder://recipes/pasta-pomodoro/cover.png" {
		t.Errorf("images = %v", r.Presentation.Images)
	}
	if len(res.Warnings) != 0 || res.Incomplete {
		t.Errorf("unexpected warnings %v incomplete=%v", res.Messages(), res.Incomplete)
	}
	if !res.Stats.FinalAssembly || res.Stats.AutoMain {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func assertInstructions(t *testing.T, owner string, steps []common.PreparationStep, want []string) {
	t.Helper()
	if len(steps) != len(want) {
		t.Fatalf("%s: got %d steps %+v, want %d", owner, len(steps), steps, len(want))
	}
	for i, s := range steps {
		if s.Step != i+1 {
			t.Errorf("%s: step %d numbered %d", owner, i, s.Step)
		}
		if s.Instruction != want[i] {
			t.Errorf("%s: step %d = %q, want %q", owner, i+1, s.Instruction, want[i])
		}
		if s.Critical {
			t.Errorf("%s: step %d marked critical", owner, i+1)
		}
	}
}

func TestParseTooShortInput(t *testing.T) {
	tests := []string{
		"",
		"   \n\n",
		sheet([]string{"Recipe Name", "Pasta"}, []string{"1", "Boil"}),
		"a\nb\nc\nd\n\n\n\n",
	}
	for _, input := range tests {
		res, err := Parse(input)
		if !errors.Is(err, ErrTooShortInput) {
			t.Errorf("Parse(%q) error = %v, want ErrTooShortInput", input, err)
		}
		if res != nil {
			t.Errorf("Parse(%q) returned partial result", input)
		}
	}
}

func TestParseRowBudget(t *testing.T) {
	p := New(Options{MaxRows: 5})
	input := strings.Repeat("x\n", 6) + "x"
	if _, err := p.Parse(input); !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestParseMinimalRecipe(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Garlic Bread"},
		[]string{""},
		[]string{""},
		[]string{"1", "Slice the bread", "2 min"},
		[]string{"2", "Spread garlic butter"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if res.Recipe.RecipeID != "garlic-bread" {
		t.Errorf("recipeId = %q", res.Recipe.RecipeID)
	}
	if len(res.Recipe.SubRecipes) != 0 {
		t.Errorf("sub-recipes = %+v", res.Recipe.SubRecipes)
	}
	assertInstructions(t, "main", res.Recipe.Preparation, []string{"Slice the bread", "Spread garlic butter"})
	if res.Recipe.Preparation[0].Time != "2 min" {
		t.Errorf("time = %q", res.Recipe.Preparation[0].Time)
	}
	if !res.Stats.AutoMain {
		t.Error("expected main context to be auto-detected")
	}
}

func TestParseUnresolvedSubRecipeReference(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Soup"},
		[]string{"2B. Ingredients - Broth 1 KG"},
		[]string{"Water", "1", "L"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"Sub-Recipe: Mystery Sauce", "Step 1 - Mix. Step 2 - Heat."},
		[]string{"3", "Reduce"},
		[]string{"5. Quality"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if n := res.StepCount(); n != 0 {
		t.Errorf("expected no steps, got %d", n)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v", res.Messages())
	}
	w := res.Warnings[0]
	if w.Kind != WarnUnmatchedSubRecipeReference || w.Row != 5 {
		t.Errorf("warning = %+v", w)
	}
	if !strings.Contains(w.Message, "Mystery Sauce") || !strings.Contains(w.Message, "skipped 3") {
		t.Errorf("message = %q", w.Message)
	}
	if res.Stats.SkippedSteps != 3 {
		t.Errorf("skipped = %d", res.Stats.SkippedSteps)
	}
}

func TestParseSubPreparationIsAmbiguous(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Soup"},
		[]string{""},
		[]string{"4. Step-by-Step"},
		[]string{"A. Sub-Preparation:", "Toast spices"},
		[]string{"B. Main Recipe:", "Serve"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	assertInstructions(t, "main", res.Recipe.Preparation, []string{"Serve"})
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnAmbiguousStepSkipped {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

func TestParsePositionalFallback(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Platter"},
		[]string{"2B. Ingredients - Hummus"},
		[]string{"Chickpeas", "500", "G"},
		[]string{"2C. Ingredients - Flatbread"},
		[]string{"Flour", "1", "KG"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"B. Sub-Recipe:", "Knead dough"},
		[]string{"A. Sub-Recipe:", "Blend chickpeas"},
		[]string{"D. Sub-Recipe:", "Nothing here"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	subs := res.Recipe.SubRecipes
	assertInstructions(t, "hummus", subs[0].Preparation, []string{"Blend chickpeas"})
	assertInstructions(t, "flatbread", subs[1].Preparation, []string{"Knead dough"})
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnUnmatchedSubRecipeReference {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

func TestParseMissingName(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", ""},
		[]string{"Station", "Cold"},
		[]string{""},
		[]string{"4. Step-by-Step"},
		[]string{"1", "Mix"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !res.Incomplete || res.Recipe.RecipeID != "" {
		t.Errorf("incomplete=%v recipeId=%q", res.Incomplete, res.Recipe.RecipeID)
	}
	if len(res.Recipe.Presentation.Images) != 0 {
		t.Errorf("images = %v", res.Recipe.Presentation.Images)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnMissingRequiredField {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

func TestParseInvalidQuantityWarns(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Salad"},
		[]string{""},
		[]string{"2. Ingredients"},
		[]string{"Olive oil", "a splash", "ml"},
		[]string{"Salt", "1/2", "tsp"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	ings := res.Recipe.MainIngredients
	if len(ings) != 2 || ings[0].Quantity != 0 || ings[1].Quantity != 0.5 {
		t.Fatalf("ingredients = %+v", ings)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnInvalidQuantity || res.Warnings[0].Row != 4 {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

func TestParseSectionHeaderClearsSubRecipeContext(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Curry"},
		[]string{"2B. Ingredients - Paste"},
		[]string{"Chili", "5", "pcs"},
		[]string{"3. Required Machines"},
		[]string{"Blender", "Max"},
		[]string{""},
		[]string{""},
		[]string{"6. Packing"},
		[]string{"Packing Type", "Box"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(res.Recipe.SubRecipes[0].Ingredients) != 1 {
		t.Errorf("paste ingredients = %+v", res.Recipe.SubRecipes[0].Ingredients)
	}
	if len(res.Recipe.MachinesTools) != 1 || res.Recipe.MachinesTools[0].Name != "Blender" {
		t.Errorf("machines = %+v", res.Recipe.MachinesTools)
	}
	if res.Recipe.PackingLabeling.PackingType != "Box" || res.Recipe.SubRecipes[0].PackingLabeling != nil {
		t.Errorf("packing went to the wrong owner")
	}
}

func TestParsePackingOverrideForSubRecipe(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Sauce Kit"},
		[]string{"2B. Ingredients - Demi Glace (Sub-Recipe)"},
		[]string{"Stock", "2", "L"},
		[]string{"6. Packing & Labeling"},
		[]string{"Packing Type", "Vacuum bag"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	sub := res.Recipe.SubRecipes[0]
	if sub.PackingLabeling == nil || sub.PackingLabeling.PackingType != "Vacuum bag" {
		t.Fatalf("sub packing = %+v", sub.PackingLabeling)
	}
	if !res.Recipe.PackingLabeling.IsZero() {
		t.Errorf("main packing = %+v", res.Recipe.PackingLabeling)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	first, err := Parse(fullSheet())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second, err := Parse(fullSheet())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("parsing the same input twice produced different results")
	}
}

func TestParseNeverDuplicatesSteps(t *testing.T) {
	inputs := []string{
		fullSheet(),
		sheet(
			[]string{"Recipe Name", "Mixed"},
			[]string{"2B. Ingredients - Dough"},
			[]string{"Flour", "1", "KG"},
			[]string{"4. Step-by-Step"},
			[]string{"Step 1 - Preheat oven. Step 2 - Grease tray."},
			[]string{"A. Sub-Recipe: Dough", "Step 1 - Mix. Step 1 - Knead. Step 7 - Rest."},
			[]string{"B. Sub-Recipe: Glaze", "Step 1 - Whisk."},
			[]string{"", "Brush on top"},
			[]string{"C. Sub-Preparation:", "Prep garnish"},
			[]string{"D. Final Assembly:", "Bake"},
		),
	}
	for _, input := range inputs {
		res, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if res.StepCount()+res.Stats.SkippedSteps != res.Stats.StepSegments {
			t.Errorf("steps %d + skipped %d != segments %d", res.StepCount(), res.Stats.SkippedSteps, res.Stats.StepSegments)
		}
		lists := [][]common.PreparationStep{res.Recipe.Preparation}
		for _, sub := range res.Recipe.SubRecipes {
			lists = append(lists, sub.Preparation)
		}
		for _, steps := range lists {
			for i, s := range steps {
				if s.Step != i+1 {
					t.Errorf("step list not contiguous: %+v", steps)
					break
				}
			}
		}
	}
}

func TestParseInlineStepReferenceIsNotSplit(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Bread"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"B. Final Recipe Assembly:"},
		[]string{"1", "Knead and repeat step 2 - 3 times until smooth", "10 min"},
		[]string{"2", "Rest the dough"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	assertInstructions(t, "main", res.Recipe.Preparation, []string{
		"Knead and repeat step 2 - 3 times until smooth",
		"Rest the dough",
	})
	if res.Recipe.Preparation[0].Time != "10 min" {
		t.Errorf("time = %q", res.Recipe.Preparation[0].Time)
	}
}

func TestParseBareSubRecipeHeaderWarningNamesHeader(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Soup"},
		[]string{"2B. Ingredients - Broth 1 KG"},
		[]string{"Water", "1", "L"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"Sub-Recipe:", "Mix"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnUnmatchedSubRecipeReference {
		t.Fatalf("warnings = %v", res.Messages())
	}
	msg := res.Warnings[0].Message
	if !strings.Contains(msg, `"Sub-Recipe:"`) || strings.Contains(msg, `"."`) {
		t.Errorf("message = %q", msg)
	}
}

func TestParseQualityYieldRowStaysQualitySpec(t *testing.T) {
	input := sheet(
		[]string{"Recipe Name", "Stock"},
		[]string{"Yield", "5 L"},
		[]string{"4. Step-by-Step Preparation"},
		[]string{"1", "Simmer bones"},
		[]string{"5. Quality Specifications"},
		[]string{"Final yield", "4.5 L", "Measure"},
	)
	res, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if res.Recipe.Yield != "5 L" {
		t.Errorf("yield = %q", res.Recipe.Yield)
	}
	qs := res.Recipe.QualitySpecifications
	if len(qs) != 1 || qs[0].Aspect != "Final yield" || qs[0].Specification != "4.5 L" {
		t.Errorf("quality = %+v", qs)
	}
}
