/*
Stlc compiles every requirement in an STL suite and writes the compiled
monitor specs to disk.

It reads in an STS suite file, compiles each named requirement for the suite's
declared target, and writes one binary artifact per requirement to the output
directory. With --check, nothing is written and the exit code reports whether
every requirement compiled.

Usage:

	stlc [flags] SUITE_FILE
	stlc [flags] -e FORMULA

With -e, a single formula is compiled instead of a suite. Its signal
declarations are inferred from the formula itself and the artifact is written
to formula.stlc in the output directory.

The flags are:

	-v/--version
		Give the current version of the STL compiler tools and then exit.

	-o/--out [DIR]
		Write compiled artifacts to the given directory. Defaults to the
		current working directory. The directory must already exist.

	-c/--check
		Validate and compile every requirement but do not write anything.

	-q/--quiet
		Do not print per-requirement progress, only errors.

	-t/--target [TARGET]
		Compile for the given target ("tree" or "linear") instead of the
		suite's declared one. With -e, defaults to "tree".

	-e/--formula [FORMULA]
		Compile the given formula text instead of a suite file.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/stlspec/internal/suite"
	"github.com/dekarrin/stlspec/internal/version"
	"github.com/dekarrin/stlspec/stl"
	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates that at least one requirement failed to
	// compile.
	ExitCompileError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading the suite or writing output.
	ExitInitError
)

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Print the version of the STL compiler tools and exit")
	outDir      = pflag.StringP("out", "o", ".", "Directory to write compiled artifacts to")
	checkOnly   = pflag.BoolP("check", "c", false, "Compile everything but write nothing")
	quiet       = pflag.BoolP("quiet", "q", false, "Only print errors")
	targetName  = pflag.StringP("target", "t", "", "Compile for the given target instead of the suite's one")
	formulaText = pflag.StringP("formula", "e", "", "Compile the given formula instead of a suite file")
)

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

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *formulaText != "" {
		compileSingle(*formulaText)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "ERROR: missing SUITE_FILE argument\n")
		returnCode = ExitInitError
		return
	}

	s, err := suite.LoadBundle(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if len(s.Requirements) == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: suite %q has no requirements\n", s.Name)
		returnCode = ExitInitError
		return
	}

	target := s.Target
	if *targetName != "" {
		target, err = trans.ParseTarget(*targetName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	failed := 0
	for _, req := range s.Requirements {
		data, compErr := compileRequirement(s, req, target)
		if compErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", req.Name, fullMessage(compErr))
			failed++
			continue
		}

		if *checkOnly {
			if !*quiet {
				fmt.Printf("%s: ok\n", req.Name)
			}
			continue
		}

		outPath := filepath.Join(*outDir, req.Name+".stlc")
		if writeErr := os.WriteFile(outPath, data, 0644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", req.Name, writeErr.Error())
			returnCode = ExitInitError
			return
		}

		if !*quiet {
			fmt.Printf("%s: wrote %s (%d bytes, %s target)\n", req.Name, outPath, len(data), target)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d of %d requirements failed to compile\n", failed, len(s.Requirements))
		returnCode = ExitCompileError
	}
}

// compileSingle compiles a lone formula with declarations inferred from the
// formula's own signal references and writes formula.stlc to the output
// directory.
func compileSingle(formula string) {
	target := trans.TargetTree
	if *targetName != "" {
		var err error
		target, err = trans.ParseTarget(*targetName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	ast, err := stl.Parse(formula)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", fullMessage(err))
		returnCode = ExitCompileError
		return
	}

	decls, err := trans.InferDecls(ast)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	var data []byte
	switch target {
	case trans.TargetLinear:
		var spec trans.LinearSpec
		spec, err = stl.CompileLinear(formula, decls)
		if err == nil {
			data, err = spec.MarshalBinary()
		}
	default:
		var spec trans.TreeSpec
		spec, err = stl.CompileTree(formula, decls)
		if err == nil {
			data, err = spec.MarshalBinary()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", fullMessage(err))
		returnCode = ExitCompileError
		return
	}

	if *checkOnly {
		if !*quiet {
			fmt.Printf("ok\n")
		}
		return
	}

	outPath := filepath.Join(*outDir, "formula.stlc")
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if !*quiet {
		fmt.Printf("wrote %s (%d bytes, %s target)\n", outPath, len(data), target)
	}
}

// fullMessage prefers an error's source-cursor rendering when it has one.
func fullMessage(err error) string {
	type cursored interface {
		FullMessage() string
	}
	if fm, ok := err.(cursored); ok {
		return fm.FullMessage()
	}
	return err.Error()
}

// compileRequirement compiles one requirement for the given target and
// returns the binary artifact that a monitor would load.
func compileRequirement(s suite.Suite, req suite.Requirement, target trans.Target) ([]byte, error) {
	switch target {
	case trans.TargetLinear:
		spec, err := stl.CompileLinear(req.Formula, s.Decls)
		if err != nil {
			return nil, err
		}
		return spec.MarshalBinary()
	default:
		spec, err := stl.CompileTree(req.Formula, s.Decls)
		if err != nil {
			return nil, err
		}
		return spec.MarshalBinary()
	}
}
