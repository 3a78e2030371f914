// Package stlspec contains a CLI-driven workbench for reading STL requirement
// text and compiling it continuously until the user quits.
package stlspec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/stlspec/internal/input"
	"github.com/dekarrin/stlspec/internal/suite"
	"github.com/dekarrin/stlspec/stl"
	"github.com/dekarrin/stlspec/stl/trans"
)

// LineReader is the stream of requirement lines a Session reads from.
type LineReader interface {
	ReadLine() (string, error)
	AllowBlank(allow bool)
	Close() error
}

// Session contains the things needed to run an interactive STL workbench
// attached to an input stream and an output stream. Each line read is treated
// as a requirement formula and compiled against the loaded suite's signal
// declarations; dot-commands inspect the suite itself.
type Session struct {
	suite       suite.Suite
	hasSuite    bool
	in          LineReader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new session ready to operate on the given input and output
// streams. It will immediately open a buffered writer on the output stream.
// If suitePath is non-empty, the suite file at that path is loaded and its
// signal declarations are used for compiling entered formulas; with no suite,
// entered formulas are parsed and canonicalized but not translated.
//
// If nil is given for the input stream, stdin is used. If nil is given for
// the output stream, stdout is used.
func New(inputStream io.Reader, outputStream io.Writer, suitePath string, forceDirectInput bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sess := &Session{
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
	}

	if suitePath != "" {
		loaded, err := suite.LoadBundle(suitePath)
		if err != nil {
			return nil, err
		}
		sess.suite = loaded
		sess.hasSuite = true
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		sess.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = input.NewDirectReader(inputStream)
	}

	return sess, nil
}

// Close closes all resources associated with the Session, including any
// readline-related resources created for interactive mode.
func (sess *Session) Close() error {
	if sess.running {
		return fmt.Errorf("cannot close a running session")
	}

	err := sess.in.Close()
	if err != nil {
		return fmt.Errorf("close line reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading lines from the streams and compiling them until
// the .quit command is received or input hits EOF.
func (sess *Session) RunUntilQuit() error {
	introMsg := "STL Requirement Workbench\n"
	if sess.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "=========================\n"
	introMsg += "\n"
	if sess.hasSuite {
		introMsg += fmt.Sprintf("Loaded suite %q (%d signals, %d requirements, %s target)\n", sess.suite.Name, sess.suite.Decls.Len(), len(sess.suite.Requirements), sess.suite.Target)
	} else {
		introMsg += "No suite loaded; formulas will be parsed but not translated\n"
	}
	introMsg += "Enter a formula, or .help for commands\n"

	if err := sess.write(introMsg); err != nil {
		return err
	}

	sess.running = true
	// so we dont have to remember to do this on every returned error
	// condition
	defer func() {
		sess.running = false
	}()

	for sess.running {
		line, err := sess.in.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("get input line: %w", err)
		}

		if strings.HasPrefix(line, ".") {
			if line == ".quit" {
				sess.running = false
				break
			}
			if err := sess.execCommand(line); err != nil {
				return err
			}
			continue
		}

		if err := sess.execFormula(line); err != nil {
			return err
		}
	}

	return sess.write("Goodbye\n")
}

func (sess *Session) write(s string) error {
	if _, err := sess.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sess.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func (sess *Session) execCommand(line string) error {
	parts := strings.Fields(line)

	switch parts[0] {
	case ".help":
		return sess.write(helpText())
	case ".signals":
		return sess.write(sess.signalsTable())
	case ".reqs":
		return sess.write(sess.reqsTable())
	case ".compile":
		if len(parts) < 2 {
			return sess.write("Usage: .compile NAME\n")
		}
		return sess.execCompile(parts[1])
	default:
		return sess.write(fmt.Sprintf("Unknown command %q; try .help\n", parts[0]))
	}
}

// execFormula parses the entered formula, shows its canonical form and tree,
// and, when a suite is loaded, validates it against the suite's declarations.
func (sess *Session) execFormula(line string) error {
	ast, err := stl.Parse(line)
	if err != nil {
		return sess.writeCompileError(err)
	}

	out := "canonical: " + ast.STLString() + "\n"
	out += ast.String() + "\n"

	if sess.hasSuite {
		if err := trans.Validate(ast, sess.suite.Decls, sess.suite.Target); err != nil {
			out += "NOT VALID for suite:\n" + err.Error() + "\n"
		} else {
			out += fmt.Sprintf("valid for the %s target\n", sess.suite.Target)
		}
	}

	return sess.write(out)
}

// execCompile compiles the named suite requirement and prints the compiled
// artifact.
func (sess *Session) execCompile(name string) error {
	if !sess.hasSuite {
		return sess.write("No suite loaded\n")
	}

	var req suite.Requirement
	var found bool
	for _, r := range sess.suite.Requirements {
		if r.Name == name {
			req = r
			found = true
			break
		}
	}
	if !found {
		return sess.write(fmt.Sprintf("No requirement named %q in the suite\n", name))
	}

	switch sess.suite.Target {
	case trans.TargetLinear:
		spec, err := stl.CompileLinear(req.Formula, sess.suite.Decls)
		if err != nil {
			return sess.writeCompileError(err)
		}
		return sess.write(linearSpecTable(spec))
	default:
		spec, err := stl.CompileTree(req.Formula, sess.suite.Decls)
		if err != nil {
			return sess.writeCompileError(err)
		}
		return sess.write(fmt.Sprintf("compiled for the tree target; %d signals resolved\n", len(spec.Decls)))
	}
}

// writeCompileError prints a compilation error, wrapped for the console, with
// the source cursor line when the error carries one.
func (sess *Session) writeCompileError(err error) error {
	msg := err.Error()

	type cursored interface {
		FullMessage() string
	}
	if fm, ok := err.(cursored); ok {
		msg = fm.FullMessage()
	} else {
		msg = rosed.Edit(msg).Wrap(consoleOutputWidth).String()
	}

	return sess.write(msg + "\n")
}

func (sess *Session) signalsTable() string {
	if !sess.hasSuite {
		return "No suite loaded\n"
	}

	data := [][]string{{"Signal", "Column", "Type"}}
	for _, b := range sess.suite.Decls.Bindings() {
		data = append(data, []string{b.Name, strconv.Itoa(b.Column), b.DType.String()})
	}

	tableOpts := rosed.Options{
		TableHeaders: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, tableOpts).
		String() + "\n"
}

func (sess *Session) reqsTable() string {
	if !sess.hasSuite {
		return "No suite loaded\n"
	}

	data := [][]string{{"Requirement", "Formula"}}
	for _, r := range sess.suite.Requirements {
		data = append(data, []string{r.Name, r.Formula})
	}

	tableOpts := rosed.Options{
		TableHeaders: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, tableOpts).
		String() + "\n"
}

func linearSpecTable(spec trans.LinearSpec) string {
	data := [][]string{{"#", "Signal", "Row", "Bound"}}
	for i, p := range spec.Predicates {
		rowParts := make([]string, len(p.Row))
		for j, v := range p.Row {
			rowParts[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			p.Name,
			"[" + strings.Join(rowParts, " ") + "]",
			strconv.FormatFloat(p.Bound, 'g', -1, 64),
		})
	}

	tableOpts := rosed.Options{
		TableHeaders: true,
	}

	out := rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, tableOpts).
		String()
	out += "skeleton: " + spec.Root.String() + "\n"

	return out
}

func helpText() string {
	help := "Enter any STL formula to parse it and see its canonical form and " +
		"syntax tree. When a suite is loaded the formula is also checked " +
		"against the suite's signal declarations.\n\nCommands:\n"

	help = rosed.Edit(help).WrapOpts(consoleOutputWidth, rosed.Options{
		PreserveParagraphs: true,
	}).String()

	help += "" +
		"  .help           show this help\n" +
		"  .signals        list the suite's declared signals\n" +
		"  .reqs           list the suite's requirements\n" +
		"  .compile NAME   compile the named requirement for the suite target\n" +
		"  .quit           exit the workbench\n"

	return help
}
