package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
)

// sheetWordWrap is the column width crop sheets are wrapped at
const sheetWordWrap = 80

// CropMarkdown returns the crop information sheet as markdown.
func CropMarkdown(p crops.CropProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "**Scientific Name:** *%s*  \n", p.ScientificName)
	fmt.Fprintf(&b, "**Growing Season:** %s  \n", p.GrowingSeason)
	fmt.Fprintf(&b, "**Average Growing Period:** %s days\n\n", p.GrowingPeriod)

	if p.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(strings.TrimSpace(p.Description))
		b.WriteString("\n\n")
	}

	b.WriteString("## Optimal Growing Conditions\n\n")
	b.WriteString("| Condition | Optimal Range |\n|---|---|\n")
	fmt.Fprintf(&b, "| Temperature (°C) | %g - %g |\n", p.Temperature.Min, p.Temperature.Max)
	fmt.Fprintf(&b, "| Rainfall (mm) | %g - %g |\n", p.Rainfall.Min, p.Rainfall.Max)
	fmt.Fprintf(&b, "| Humidity (%%) | %g - %g |\n", p.Humidity.Min, p.Humidity.Max)
	fmt.Fprintf(&b, "| Soil pH | %g - %g |\n", p.PH.Min, p.PH.Max)
	fmt.Fprintf(&b, "| Soil Type | %s |\n\n", strings.Join(p.SuitableSoils, ", "))

	if len(p.Nutrition) > 0 {
		b.WriteString("## Nutritional Value (per 100g)\n\n")
		b.WriteString("| Nutrient | Amount |\n|---|---|\n")
		for _, n := range p.Nutrition {
			fmt.Fprintf(&b, "| %s | %g |\n", n.Name, n.Amount)
		}
		b.WriteString("\n")
	}

	if len(p.Tips) > 0 {
		b.WriteString("## Farming Tips\n\n")
		for _, tip := range p.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}

	return b.String()
}

// CropSheet renders the crop information sheet for the terminal.
func (pr *Printer) CropSheet(p crops.CropProfile) error {
	style := glamour.WithAutoStyle()
	if !pr.color {
		style = glamour.WithStandardStyle(styles.NoTTYStyle)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(sheetWordWrap))
	if err != nil {
		return errors.New(err).
			Component("report").
			Category(errors.CategoryRender).
			Context("operation", "create_markdown_renderer").
			Build()
	}

	out, err := r.Render(CropMarkdown(p))
	if err != nil {
		return errors.New(err).
			Component("report").
			Category(errors.CategoryRender).
			Context("crop", p.Name).
			Build()
	}

	pr.write(out)
	return pr.flush()
}
