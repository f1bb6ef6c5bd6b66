package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textlayout"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/layout"
	"github.com/npillmayer/textlayout/style"
	"github.com/pterm/pterm"
)

// tracer traces with key 'textlayout.cli'
func tracer() tracing.Trace {
	return tracing.Select("textlayout.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.textlayout":          "Error",
		"trace.textlayout.analysis": "Error",
		"trace.textlayout.cli":      "Info",
		"trace.textlayout.fontdb":   "Error",
		"trace.textlayout.itemize":  "Error",
		"trace.textlayout.layout":   "Error",
		"trace.textlayout.shape":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontfile := flag.String("font", "", "Font file to load; system fonts if empty")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)
	pterm.Info.Println("Welcome to the text layout CLI")
	//
	// set up REPL
	repl, err := readline.New("tl > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := newIntp(repl)
	if err := intp.loadFonts(*fontfile); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. It holds the paragraph settings and the
// most recent layout.
type Intp struct {
	repl   *readline.Instance
	ctx    *textlayout.Context
	base   style.Style
	stack  []string
	dir    analysis.Direction
	width  float32
	align  layout.Alignment
	text   string
	layout *layout.Layout
}

func newIntp(repl *readline.Instance) *Intp {
	return &Intp{
		repl:  repl,
		base:  style.Default(),
		stack: []string{"sans-serif"},
	}
}

func (intp *Intp) String() string {
	if intp == nil || intp.ctx == nil {
		return "()"
	}
	dir := "ltr"
	if intp.dir == analysis.RightToLeft {
		dir = "rtl"
	}
	return fmt.Sprintf("( stack=%s size=%g width=%g %s )", strings.Join(intp.stack, ","),
		intp.base.FontSize, intp.width, dir)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		op := parseCommand(line)
		err, quit := intp.execute(op)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line: an op-code and the rest of the line.
type Op struct {
	code int
	arg  string
}

const (
	QUIT int = iota
	HELP
	FONT
	FONTS
	STACK
	SIZE
	WEIGHT
	DIR
	WIDTH
	ALIGN
	TEXT
	RUNS
	LINES
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"font":   FONT,
	"fonts":  FONTS,
	"stack":  STACK,
	"size":   SIZE,
	"weight": WEIGHT,
	"dir":    DIR,
	"width":  WIDTH,
	"align":  ALIGN,
	"text":   TEXT,
	"runs":   RUNS,
	"lines":  LINES,
}

// parseCommand splits a line into the command word and its argument.
// Unknown commands turn into a help request for the command word.
func parseCommand(line string) Op {
	word, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	code, ok := opMap[strings.ToLower(word)]
	if !ok {
		return Op{code: HELP, arg: word}
	}
	tracer().Debugf("parsed command: %s %q", word, arg)
	return Op{code: code, arg: strings.TrimSpace(arg)}
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	FONT:   fontOp,
	FONTS:  fontsOp,
	STACK:  stackOp,
	SIZE:   sizeOp,
	WEIGHT: weightOp,
	DIR:    dirOp,
	WIDTH:  widthOp,
	ALIGN:  alignOp,
	TEXT:   textOp,
	RUNS:   runsOp,
	LINES:  linesOp,
}

func (intp *Intp) execute(op Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	return f(intp, &op)
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFonts(path string) error {
	fonts := fontdb.NewCollection()
	if path == "" {
		n, err := fonts.LoadSystemFonts(os.TempDir())
		if err != nil {
			return err
		}
		fonts.UseDefaultGenerics()
		pterm.Printf("registered %d system fonts\n", n)
	} else {
		loaded, err := fonts.LoadFile(path)
		if err != nil {
			return fmt.Errorf("cannot load font %s: %w", path, err)
		}
		if len(loaded) > 0 {
			fonts.SetGenericFamily(fontdb.SansSerif, loaded[0].Family)
			pterm.Printf("loaded %d font(s) of family %s\n", len(loaded), loaded[0].Family)
		}
	}
	intp.ctx = textlayout.NewContext(fonts)
	intp.layout = nil
	return nil
}

// relayout lays out the current text with the current settings.
func (intp *Intp) relayout() error {
	if intp.text == "" {
		return errNoText
	}
	s := intp.base
	s.FontStack = intp.ctx.Stack(intp.stack...)
	intp.layout = intp.ctx.Layout(intp.text, nil, nil, textlayout.Options{
		BaseDirection: intp.dir,
		DefaultStyle:  &s,
	})
	intp.layout.BreakLines(intp.width)
	width := intp.width
	if width == 0 {
		width = intp.layout.Width()
	}
	intp.layout.Align(width, intp.align)
	tracer().Infof("layout: %d runs, %d lines", intp.layout.RunCount(), intp.layout.LineCount())
	return nil
}

var errNoText = errors.New("no text set, use 'text <string>'")
var errNoArg = errors.New("command needs an argument")
