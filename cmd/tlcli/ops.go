package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/layout"
	"github.com/pterm/pterm"
)

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func fontOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.loadFonts(op.arg); err != nil {
		return err, false
	}
	return intp.update()
}

func fontsOp(intp *Intp, op *Op) (error, bool) {
	printFamilies(intp.ctx.Fonts(), op.arg)
	return nil, false
}

func stackOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	var stack []string
	for _, name := range strings.Split(op.arg, ",") {
		if name = strings.TrimSpace(name); name != "" {
			stack = append(stack, name)
		}
	}
	intp.stack = stack
	return intp.update()
}

func sizeOp(intp *Intp, op *Op) (error, bool) {
	size, err := parsePositive(op.arg)
	if err != nil {
		return err, false
	}
	intp.base.FontSize = size
	return intp.update()
}

func weightOp(intp *Intp, op *Op) (error, bool) {
	w, err := parsePositive(op.arg)
	if err != nil {
		return err, false
	}
	intp.base.FontWeight = font.Weight(w)
	return intp.update()
}

func dirOp(intp *Intp, op *Op) (error, bool) {
	switch strings.ToLower(op.arg) {
	case "ltr":
		intp.dir = analysis.LeftToRight
	case "rtl":
		intp.dir = analysis.RightToLeft
	default:
		return fmt.Errorf("direction must be ltr or rtl, is %q", op.arg), false
	}
	return intp.update()
}

func widthOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "0" {
		intp.width = 0
		return intp.update()
	}
	w, err := parsePositive(op.arg)
	if err != nil {
		return err, false
	}
	intp.width = w
	return intp.update()
}

func alignOp(intp *Intp, op *Op) (error, bool) {
	switch strings.ToLower(op.arg) {
	case "start":
		intp.align = layout.AlignStart
	case "end":
		intp.align = layout.AlignEnd
	case "center":
		intp.align = layout.AlignCenter
	default:
		return fmt.Errorf("alignment must be start, end or center, is %q", op.arg), false
	}
	return intp.update()
}

func textOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	intp.text = op.arg
	if err := intp.relayout(); err != nil {
		return err, false
	}
	printRuns(intp.layout)
	return nil, false
}

func runsOp(intp *Intp, op *Op) (error, bool) {
	if intp.layout == nil {
		return errNoText, false
	}
	printRuns(intp.layout)
	return nil, false
}

func linesOp(intp *Intp, op *Op) (error, bool) {
	if intp.layout == nil {
		return errNoText, false
	}
	printLines(intp.layout)
	return nil, false
}

// update re-runs the layout if there is text to lay out.
func (intp *Intp) update() (error, bool) {
	if intp.text == "" {
		return nil, false
	}
	return intp.relayout(), false
}

func parsePositive(arg string) (float32, error) {
	if arg == "" {
		return 0, errNoArg
	}
	f, err := strconv.ParseFloat(arg, 32)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("expected a positive number, have %q", arg)
	}
	return float32(f), nil
}
