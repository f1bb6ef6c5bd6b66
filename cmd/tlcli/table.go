package main

import (
	"fmt"
	"sort"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/layout"
	"github.com/pterm/pterm"
)

func printRuns(l *layout.Layout) {
	pterm.Printf("Layout has %d items\n", l.ItemCount())
	data := [][]string{
		{"Item", "Kind", "Range", "Level", "Font", "Size", "Glyphs", "Advance"},
	}
	for i := range l.ItemCount() {
		item, _ := l.Item(i)
		row := []string{fmt.Sprintf("%d", i), item.Kind.String()}
		if item.Kind == layout.TextRunItem {
			run, _ := l.Run(item.Index)
			row = append(row,
				run.TextRange.String(),
				fmt.Sprintf("%d", run.BidiLevel),
				runFont(run),
				fmt.Sprintf("%g", run.Size),
				fmt.Sprintf("%d", run.GlyphCount()),
				fmt.Sprintf("%.2f", run.Advance))
		} else {
			box, _ := l.InlineBox(item.Index)
			row = append(row,
				fmt.Sprintf("%d", box.Index),
				fmt.Sprintf("%d", item.BidiLevel),
				fmt.Sprintf("box #%d", box.ID),
				fmt.Sprintf("%gx%g", box.Width, box.Height),
				"",
				fmt.Sprintf("%.2f", item.Advance))
		}
		data = append(data, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printLines(l *layout.Layout) {
	pterm.Printf("Layout has %d lines, width %.2f, height %.2f\n", l.LineCount(), l.Width(), l.Height())
	data := [][]string{
		{"Line", "Range", "Break", "Offset", "Baseline", "Advance", "Ascent", "Descent", "Items"},
	}
	for i := range l.LineCount() {
		line, _ := l.Line(i)
		m := line.Metrics()
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			line.TextRange().String(),
			line.BreakReason().String(),
			fmt.Sprintf("%.2f", m.Offset),
			fmt.Sprintf("%.2f", m.Baseline),
			fmt.Sprintf("%.2f", m.Advance),
			fmt.Sprintf("%.2f", m.Ascent),
			fmt.Sprintf("%.2f", m.Descent),
			fmt.Sprintf("%d", line.Len()),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printFamilies(fonts *fontdb.Collection, family string) {
	if family != "" {
		members, ok := fonts.Family(family)
		if !ok {
			pterm.Error.Printf("family %q not found\n", family)
			return
		}
		data := [][]string{{"ID", "Index", "Weight", "Width", "Italic"}}
		for _, f := range members {
			data = append(data, []string{
				fmt.Sprintf("%d", f.ID),
				fmt.Sprintf("%d", f.Index),
				fmt.Sprintf("%g", f.Attributes.Weight),
				fmt.Sprintf("%g", f.Attributes.Width),
				fmt.Sprintf("%v", f.Attributes.Style == font.StyleItalic),
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}
	families := fonts.Families()
	sort.Strings(families)
	pterm.Printf("Collection has %d families\n", len(families))
	for _, fam := range families {
		pterm.Println("  " + fam)
	}
}

func runFont(run *layout.Run) string {
	if run.Font.Font == nil {
		return "<none>"
	}
	name := run.Font.Font.Family
	if run.Font.Synthesis.Embolden {
		name += " +bold"
	}
	if run.Font.Synthesis.Skew != 0 {
		name += " +skew"
	}
	return name
}
