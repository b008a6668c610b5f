package main

import (
	"fmt"
	"io"
	"strconv"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/pkg/common"
)

func printResult(out io.Writer, res *parser.Result) {
	r := res.Recipe

	fmt.Fprintln(out, renderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Recipe ID", r.RecipeID},
			{"Name", r.Name},
			{"Station", r.Station},
			{"Code", r.Code},
			{"Yield", r.Yield},
			{"Rows", itoa(res.Stats.Rows)},
			{"Steps", itoa(res.StepCount())},
			{"Incomplete", strconv.FormatBool(res.Incomplete)},
		},
		[]columnAlignment{alignLeft, alignLeft},
	))

	if len(r.MainIngredients) > 0 {
		rows := make([][]string, 0, len(r.MainIngredients))
		for _, ing := range r.MainIngredients {
			rows = append(rows, []string{ing.Name, strconv.FormatFloat(ing.Quantity, 'f', -1, 64), ing.Unit, ing.Notes})
		}
		fmt.Fprintln(out, "\nMain ingredients")
		fmt.Fprintln(out, renderTable(
			[]string{"Name", "Qty", "Unit", "Notes"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
		))
	}

	for _, sub := range r.SubRecipes {
		title := sub.Name
		if sub.Yield != "" {
			title += " (" + sub.Yield + ")"
		}
		fmt.Fprintf(out, "\nSub-recipe %s\n", title)
		if len(sub.Ingredients) > 0 {
			rows := make([][]string, 0, len(sub.Ingredients))
			for _, ing := range sub.Ingredients {
				rows = append(rows, []string{ing.Item, ing.Quantity, ing.Unit, ing.Specification})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Item", "Qty", "Unit", "Spec"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
		}
		printSteps(out, sub.Preparation)
	}

	if len(r.Preparation) > 0 {
		fmt.Fprintln(out, "\nPreparation")
		printSteps(out, r.Preparation)
	}

	if len(res.Warnings) > 0 {
		rows := make([][]string, 0, len(res.Warnings))
		for _, w := range res.Warnings {
			row := ""
			if w.Row > 0 {
				row = itoa(w.Row)
			}
			rows = append(rows, []string{row, string(w.Kind), w.Message})
		}
		fmt.Fprintln(out, "\nWarnings")
		fmt.Fprintln(out, renderTable(
			[]string{"Row", "Kind", "Message"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft},
		))
	}
}

func printSteps(out io.Writer, steps []common.PreparationStep) {
	if len(steps) == 0 {
		return
	}
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{itoa(s.Step), s.Instruction, s.Time, s.Hint})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Instruction", "Time", "Hint"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
}

func printSummary(out io.Writer, results []fileResult) {
	rows := make([][]string, 0, len(results))
	for _, fr := range results {
		if fr.Result == nil {
			rows = append(rows, []string{fr.File, "", "", "", fr.Error})
			continue
		}
		rows = append(rows, []string{
			fr.File,
			fr.Result.Recipe.RecipeID,
			itoa(fr.Result.Stats.StepSegments),
			itoa(len(fr.Result.Warnings)),
			"",
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Recipe ID", "Segments", "Warnings", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}
