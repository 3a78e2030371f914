/*
Stli starts an interactive STL requirement workbench session.

It optionally reads in a suite file with signal declarations and named
requirements, then reads formulas from stdin and prints their canonical form,
syntax tree, and validation result to stdout until input ends or the ".quit"
command is input.

Usage:

	stli [flags]

The flags are:

	-version
		Give the current version of the STL compiler tools and then exit.

	-s/-suite [FILE]
		Use the provided STS resource file for signal declarations and
		requirements. If not given, no suite is loaded and formulas are parsed
		without validation.

	-d/--direct
	    Force reading directly from the console as opposed to using GNU readline
		based routines for reading formula input even if launched in a tty with
		stdin and stdout.

Once a session has started, each input line is compiled as an STL formula.
For an explanation of the dot-commands, type ".help" once in a session. To
exit the workbench, type ".quit".
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dekarrin/stlspec"
	"github.com/dekarrin/stlspec/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the workbench session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the session.
	ExitInitError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = flag.Bool("version", false, "Gives the version info")
	suiteFile   string
	forceDirect bool
)

func init() {
	const (
		suiteUsage       = "the STS suite data or manifest file that contains the signal declarations and requirements"
		forceDirectUsage = "force reading directly from stdin instead of going through GNU readline where possible"
	)
	flag.StringVar(&suiteFile, "suite", "", suiteUsage)
	flag.StringVar(&suiteFile, "s", "", suiteUsage+" (shorthand)")
	flag.BoolVar(&forceDirect, "direct", false, forceDirectUsage)
	flag.BoolVar(&forceDirect, "d", false, forceDirectUsage+" (shorthand)")
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	flag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	sess, initErr := stlspec.New(os.Stdin, os.Stdout, suiteFile, forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	err := sess.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
