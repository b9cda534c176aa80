package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const defaultTitle = "BioBoard Meal Plan"

// Generator renders meal plans as PDF or CSV documents
type Generator struct{}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders plan in the given format.
func (g *Generator) Generate(plan MealPlan, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(plan)
	case FormatCSV:
		return g.generateCSV(plan)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes a header and one row per meal
func (g *Generator) generateCSV(plan MealPlan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"slot", "name", "calories", "protein", "carbs", "fats"}); err != nil {
		return nil, err
	}
	for _, m := range plan.Meals {
		row := []string{
			m.Type,
			m.Name,
			strconv.Itoa(m.Calories),
			strconv.Itoa(m.Protein),
			strconv.Itoa(m.Carbs),
			strconv.Itoa(m.Fats),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var columnWidths = []float64{40, 70, 20, 20, 20, 20}

// generatePDF draws the plan with the core Helvetica font
func (g *Generator) generatePDF(plan MealPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(titleOf(plan), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(titleOf(plan)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Calorie goal: %d kcal", plan.CalorieGoal))
	pdf.Ln(6)
	prefs := "Omnivore"
	if len(plan.Preferences) > 0 {
		prefs = strings.Join(plan.Preferences, ", ")
	}
	pdf.Cell(0, 7, tr("Preferences: "+prefs))
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 236, 242)
	for i, h := range []string{"Slot", "Meal", "kcal", "Protein", "Carbs", "Fats"} {
		pdf.CellFormat(columnWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range plan.Meals {
		drawRow(pdf, []string{
			tr(m.Type),
			tr(truncate(m.Name, 40)),
			strconv.Itoa(m.Calories),
			fmt.Sprintf("%d g", m.Protein),
			fmt.Sprintf("%d g", m.Carbs),
			fmt.Sprintf("%d g", m.Fats),
		})
	}

	totals := plan.Totals()
	pdf.SetFont("Helvetica", "B", 9)
	drawRow(pdf, []string{
		"Total",
		"",
		strconv.Itoa(totals.Calories),
		fmt.Sprintf("%d g", totals.Protein),
		fmt.Sprintf("%d g", totals.Carbs),
		fmt.Sprintf("%d g", totals.Fats),
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, cells []string) {
	for i, c := range cells {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(columnWidths[i], 6, c, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func titleOf(plan MealPlan) string {
	if plan.Title != "" {
		return plan.Title
	}
	return defaultTitle
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
