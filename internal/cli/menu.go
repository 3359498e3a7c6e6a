package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/edgevec/internal/pipeline"
)

// Runner is the part of the pipeline the menu drives.
type Runner interface {
	Test(paths pipeline.TestPaths) (*pipeline.Result, error)
	Convert(input string) (string, *pipeline.Result, error)
}

// Menu is the interactive session: it reads one choice per line and keeps
// offering operations until the user quits or input ends. A failed
// operation is reported and the session continues.
type Menu struct {
	runner Runner
	paths  pipeline.TestPaths
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

// NewMenu creates a menu reading choices from in, writing prompts and
// results to out and failures to errOut.
func NewMenu(runner Runner, paths pipeline.TestPaths, in io.Reader, out, errOut io.Writer) *Menu {
	scanner := bufio.NewScanner(in)
	// Allow long pasted paths
	scanner.Buffer(make([]byte, 0, 4*1024), 64*1024)

	return &Menu{
		runner: runner,
		paths:  paths,
		in:     scanner,
		out:    out,
		errOut: errOut,
	}
}

// Run loops until the user chooses quit or input is exhausted.
func (m *Menu) Run() error {
	for {
		m.printMenu()

		choice, ok := m.readLine()
		if !ok {
			break
		}

		switch choice {
		case "1", "t":
			m.runTest()
		case "2":
			m.runConvert()
		case "3", "q", "quit":
			fmt.Fprintln(m.out, "Byeee...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice, please select 1, 2, or 3.")
		}
	}

	if err := m.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "Menu Options:")
	fmt.Fprintln(m.out, "1. Test Png to Vector")
	fmt.Fprintln(m.out, "2. Convert PNG to Vector")
	fmt.Fprintln(m.out, "3. Quit")
	fmt.Fprint(m.out, "Enter your choice (1-3): ")
}

// readLine returns the next trimmed input line; ok is false at end of input.
func (m *Menu) readLine() (line string, ok bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) runTest() {
	if _, err := m.runner.Test(m.paths); err != nil {
		fmt.Fprintf(m.errOut, "Failed to process image: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Image processed successfully.")
}

func (m *Menu) runConvert() {
	fmt.Fprintln(m.out, "Enter the path of the image to process:")
	input, ok := m.readLine()
	if !ok {
		return
	}

	out, _, err := m.runner.Convert(input)
	if err != nil {
		fmt.Fprintf(m.errOut, "Failed to process image: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Image processed successfully.")
	fmt.Fprintf(m.out, "Vector image saved as: %q\n", out)
}
