package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/kolkov/sawk"
)

// runREPL evaluates the compiled program against one typed record at a
// time: BEGIN once up front, the main rules per line, END on exit. The
// context persists across lines, so variables accumulate as they would
// over a file.
func runREPL(prog *sawk.Program, config *sawk.Config) error {
	it := prog.NewInterp(config)
	if err := it.ExecuteBegin(); err != nil {
		return err
	}
	printed := flushNew(it, 0)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Piped input: behave like a plain filter, no prompt.
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if err := it.ExecuteLine(sc.Text()); err != nil {
				return err
			}
			printed = flushNew(it, printed)
			if it.ExitRequested() {
				break
			}
		}
		if err := it.ExecuteEnd(); err != nil {
			return err
		}
		flushNew(it, printed)
		return replExit(it)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sawk> ",
		HistoryFile:     historyFile(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("sawk interactive mode. Each line is one input record.")
	fmt.Println("Commands: :vars  :quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			goto done
		case ":vars":
			printVars(it)
			continue
		}

		if err := it.ExecuteLine(line); err != nil {
			if le, ok := sawk.IsLimitError(err); ok {
				if len(le.PartialOutput) > printed {
					fmt.Print(le.PartialOutput[printed:])
					printed = len(le.PartialOutput)
				}
				fmt.Fprintf(os.Stderr, "sawk: %v\n", err)
				continue
			}
			return err
		}
		printed = flushNew(it, printed)
		if it.ExitRequested() {
			break
		}
	}
done:
	if err := it.ExecuteEnd(); err != nil {
		return err
	}
	flushNew(it, printed)
	return replExit(it)
}

// flushNew prints the output appended since the last flush and returns
// the new high-water mark.
func flushNew(it *sawk.Interp, printed int) int {
	out := it.Output()
	if len(out) > printed {
		fmt.Print(out[printed:])
	}
	return len(out)
}

func printVars(it *sawk.Interp) {
	vars := it.Globals()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %q\n", name, vars[name])
	}
}

func replExit(it *sawk.Interp) error {
	if code := it.ExitCode(); code != 0 {
		return &sawk.ExitError{Code: code}
	}
	return nil
}

func historyFile() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return dir + "/.sawk_history"
}
