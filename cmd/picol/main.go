package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/DarthVA28/picol"
)

const (
	appName     = "picol"
	historyFile = ".picol_history"
	promptMain  = "% "
	promptCont  = "> "
)

var banner = fmt.Sprintf("picol %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", picol.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "test":
		os.Exit(cmdTest(os.Args[2:]))
	case "version":
		fmt.Println(picol.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`picol %s

Usage:
  %s run [file.tcl]     Run a script (reads stdin when piped and no file given).
  %s repl               Start the REPL.
  %s test [dir] [-v]    Run *.test.yaml fixture manifests.
  %s version            Print the version.

`, picol.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	var src []byte
	var err error
	name := "<stdin>"

	switch {
	case len(args) >= 1:
		name = args[0]
		src, err = os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, name, err)
			return 1
		}
	case !term.IsTerminal(int(os.Stdin.Fd())):
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
			return 1
		}
	default:
		// Interactive stdin and no file: drop into the REPL.
		return cmdRepl(nil)
	}

	ip := picol.New()
	if _, err := ip.Run(string(src)); err != nil {
		err = picol.WrapErrorWithSource(err, string(src))
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := picol.New()

	for {
		code, ok := readBySyntaxProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		val, err := ip.Run(code)
		if err != nil {
			err = picol.WrapErrorWithSource(err, code)
			fmt.Fprintln(os.Stderr, red(err.Error()))
		} else if val != "" {
			fmt.Println(val)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readBySyntaxProbe keeps prompting for continuation lines while the input so
// far is syntactically incomplete (an open brace, bracket or quote). Complete
// or irrecoverably broken input is handed back for evaluation; evaluation
// reports the real error.
func readBySyntaxProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if serr := picol.Check(src); serr != nil && picol.IsIncomplete(serr) {
			continue
		}
		return src, true
	}
}
