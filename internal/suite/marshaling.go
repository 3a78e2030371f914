package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/stlspec/stl/trans"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelSuite is the top-level structure containing all keys in a complete
// STS 'SUITE' type file.
type topLevelSuite struct {
	Format       string        `toml:"format"`
	Type         string        `toml:"type"`
	Suite        suiteHeader   `toml:"suite"`
	Signals      []signal      `toml:"signal"`
	Requirements []requirement `toml:"requirement"`
}

type suiteHeader struct {
	Name   string `toml:"name"`
	Target string `toml:"target"`
}

type signal struct {
	Name   string    `toml:"name"`
	Column int       `toml:"column"`
	DType  string    `toml:"dtype"`
	Row    []float64 `toml:"row"`
	Bound  *float64  `toml:"bound"`
}

func (s signal) toBinding() (trans.Binding, error) {
	dt, err := trans.ParseDType(s.DType)
	if err != nil {
		return trans.Binding{}, err
	}

	return trans.Binding{
		Name:   s.Name,
		Column: s.Column,
		DType:  dt,
		Row:    s.Row,
		Bound:  s.Bound,
	}, nil
}

type requirement struct {
	Name    string `toml:"name"`
	Formula string `toml:"formula"`
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}
	return data, nil
}

func unmarshalManifest(data []byte) (topLevelManifest, error) {
	var manif topLevelManifest
	if err := toml.Unmarshal(data, &manif); err != nil {
		return manif, err
	}
	return manif, nil
}

func unmarshalSuite(data []byte) (topLevelSuite, error) {
	var s topLevelSuite
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

func parseManifest(sts topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: sts.Files,
	}

	return manif, nil
}

func parseSuite(sts topLevelSuite) (Suite, error) {
	s := Suite{
		Name: sts.Suite.Name,
	}

	targetName := sts.Suite.Target
	if targetName == "" {
		targetName = "tree"
	}
	target, err := trans.ParseTarget(targetName)
	if err != nil {
		return s, fmt.Errorf("suite: target: %w", err)
	}
	s.Target = target

	bindings := make([]trans.Binding, len(sts.Signals))
	for i, sig := range sts.Signals {
		b, err := sig.toBinding()
		if err != nil {
			return s, fmt.Errorf("signal[%q]: %w", sig.Name, err)
		}
		bindings[i] = b
	}
	s.Decls, err = trans.NewDecls(bindings...)
	if err != nil {
		return s, fmt.Errorf("signal declarations: %w", err)
	}

	seen := map[string]bool{}
	for _, req := range sts.Requirements {
		if req.Name == "" {
			return s, fmt.Errorf("requirement with formula %q has no name", req.Formula)
		}
		if seen[req.Name] {
			return s, fmt.Errorf("requirement[%q]: defined twice", req.Name)
		}
		seen[req.Name] = true

		if strings.TrimSpace(req.Formula) == "" {
			return s, fmt.Errorf("requirement[%q]: formula is empty", req.Name)
		}

		s.Requirements = append(s.Requirements, Requirement{
			Name:    req.Name,
			Formula: req.Formula,
		})
	}

	return s, nil
}

// mergeUnmarshaled combines the signals and requirements of b into a. The
// suite header of the first file that has one wins.
func mergeUnmarshaled(a, b topLevelSuite) topLevelSuite {
	merged := a

	if merged.Suite.Name == "" {
		merged.Suite.Name = b.Suite.Name
	}
	if merged.Suite.Target == "" {
		merged.Suite.Target = b.Suite.Target
	}

	merged.Signals = append(merged.Signals, b.Signals...)
	merged.Requirements = append(merged.Requirements, b.Requirements...)

	return merged
}

// recursiveUnmarshalSuite reads the file at path, following manifests as they
// are encountered. The manifStack is for two reasons ->
// * reject circular deps with ErrManifestCircularRef; a cycle means the
// bundle is malformed and there is no sensible partial result
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalSuite(path string, manifStack []string) (data topLevelSuite, err error) {
	path = filepath.Clean(path)

	fileData, err := readFile(path)
	if err != nil {
		return topLevelSuite{}, err
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelSuite{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != "STL" {
		return topLevelSuite{}, fmt.Errorf("%q: file does not have a 'format = \"STL\"' entry", path)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case "SUITE":
		unmarshaled, err := unmarshalSuite(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("suite file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		// check the stack to be sure we havent recursed too far and that no
		// manifest in the current inclusion chain refers back to itself.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelSuite{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelSuite{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelSuite{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif, err := parseManifest(unmarshaledManif)
		if err != nil {
			return topLevelSuite{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// the len of manifStack is included in the check because an empty
		// manifest error is really only a problem for the very first
		// manifest.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelSuite{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelSuite{}

		// copy the manif stack into a new value and add self to it for
		// recursive calls
		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		dir := filepath.Dir(path)
		for _, f := range manif.Files {
			includePath := filepath.Join(dir, f)

			part, err := recursiveUnmarshalSuite(includePath, manifSubStack)
			if err != nil {
				return topLevelSuite{}, err
			}

			unmarshaled = mergeUnmarshaled(unmarshaled, part)
		}

		return unmarshaled, nil
	default:
		return topLevelSuite{}, fmt.Errorf("%q: unknown file type %q; must be SUITE or MANIFEST", path, fileInfo.Type)
	}
}
