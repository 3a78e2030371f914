package trans

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/stlspec/stl/syntax"
)

// File binary.go contains the binary encoding shared by the compiled spec
// types. Floats are carried as their shortest round-trippable decimal text so
// the encoding stays stable across platforms.

func encFloat(v float64) []byte {
	return rezi.EncString(strconv.FormatFloat(v, 'g', -1, 64))
}

func decFloat(data []byte) (float64, int, error) {
	s, n, err := rezi.DecString(data)
	if err != nil {
		return 0, 0, err
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("stored float %q is invalid: %w", s, err)
	}

	return v, n, nil
}

func encInterval(iv *syntax.Interval) []byte {
	enc := rezi.EncBool(iv != nil)
	if iv == nil {
		return enc
	}

	enc = append(enc, rezi.EncBool(iv.LowerClosed)...)
	enc = append(enc, rezi.EncBool(iv.Lower.Infinite)...)
	enc = append(enc, encFloat(iv.Lower.Value)...)
	enc = append(enc, rezi.EncBool(iv.Upper.Infinite)...)
	enc = append(enc, encFloat(iv.Upper.Value)...)
	enc = append(enc, rezi.EncBool(iv.UpperClosed)...)

	return enc
}

func decInterval(data []byte) (*syntax.Interval, int, error) {
	var readBytes int

	present, n, err := rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window presence: %w", err)
	}
	readBytes += n
	data = data[n:]

	if !present {
		return nil, readBytes, nil
	}

	var iv syntax.Interval

	iv.LowerClosed, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window lower closed flag: %w", err)
	}
	readBytes += n
	data = data[n:]

	iv.Lower.Infinite, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window lower inf flag: %w", err)
	}
	readBytes += n
	data = data[n:]

	iv.Lower.Value, n, err = decFloat(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window lower bound: %w", err)
	}
	readBytes += n
	data = data[n:]

	iv.Upper.Infinite, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window upper inf flag: %w", err)
	}
	readBytes += n
	data = data[n:]

	iv.Upper.Value, n, err = decFloat(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window upper bound: %w", err)
	}
	readBytes += n
	data = data[n:]

	iv.UpperClosed, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("window upper closed flag: %w", err)
	}
	readBytes += n

	return &iv, readBytes, nil
}
