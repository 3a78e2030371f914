// Package suite has functions for loading requirement suites using the STS
// (STL Suite) file format, a TOML-based format that declares trace signals
// and the named requirements written against them.
package suite

import (
	"errors"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/stlspec/stl/trans"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recursion level
	// of MaxManifestRecursionDepth is reached and an additional Manifest is
	// then specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies
	// any series of files that with their own manifests refer back to the
	// original manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from one or more STS Manifest files.
type Manifest struct {
	Files []string
}

// Requirement is one named requirement of a suite.
type Requirement struct {
	// Name uniquely identifies the requirement within its suite.
	Name string

	// Formula is the requirement's STL text.
	Formula string
}

// Suite contains data loaded from one or more STS Suite files: the declared
// signals and every named requirement written against them.
type Suite struct {
	// Name is the human-readable name of the suite.
	Name string

	// Target is the monitor target the suite's requirements are compiled
	// for.
	Target trans.Target

	// Decls are the declared trace signals.
	Decls trans.Decls

	// Requirements are the suite's requirements, in file order.
	Requirements []Requirement
}

// FileInfo contains the essential information all STS format files must
// contain. It can be obtained from a file by reading it into memory and
// calling ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadBundle loads a suite up from the given STS file. The file's type is
// auto-detected and decoding is handled appropriately; the type can either be
// "SUITE" type or "MANIFEST" type; if it's manifest type, the files listed in
// it relative to it will also be loaded. All files included are combined into
// one single suite before being checked, and if a manifest is encountered,
// all files in it are recursively included.
func LoadBundle(path string) (Suite, error) {
	unmarshaled, err := recursiveUnmarshalSuite(path, nil)
	if err != nil {
		return Suite{}, err
	}

	return parseSuite(unmarshaled)
}

// LoadManifestFile loads manifest data from an STS file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := readFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// LoadSuiteFile loads a suite from a single suite definition file.
func LoadSuiteFile(path string) (Suite, error) {
	suiteData, loadErr := readFile(path)
	if loadErr != nil {
		return Suite{}, loadErr
	}

	unmarshaled, err := unmarshalSuite(suiteData)
	if err != nil {
		return Suite{}, err
	}

	return parseSuite(unmarshaled)
}

// ScanFileInfo takes the given bytes and attempts to read the STS format
// common header info from them. The bytes are read up to the first instance
// of a table definition header and those bytes are parsed for the info. If
// there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine bool
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
