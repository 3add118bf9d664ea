// Package datafile reads and writes the plain-text files of a laketemp run:
// lake and parameter key/value files, meteorological and observation
// tables, simulation output and validation results.
package datafile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/laketemp/internal/types"
)

// KeyValues is the content of a two-column key/value file. Values that
// parse as numbers land in Numbers, everything else in Text. Order keeps
// the keys in file order.
type KeyValues struct {
	Numbers map[string]float64
	Text    map[string]string
	Order   []string
}

// ParseKeyValues reads `key value` lines from r. Blank lines are skipped;
// any other line must have exactly two fields. A repeated key overwrites the
// earlier value.
func ParseKeyValues(r io.Reader) (KeyValues, error) {
	kv := KeyValues{
		Numbers: make(map[string]float64),
		Text:    make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return KeyValues{}, fmt.Errorf("line %d: expected 2 fields, got %d: %w", line, len(fields), types.ErrInvalidInput)
		}

		k, v := fields[0], fields[1]
		if _, seen := kv.Numbers[k]; !seen {
			if _, seen := kv.Text[k]; !seen {
				kv.Order = append(kv.Order, k)
			}
		}
		delete(kv.Numbers, k)
		delete(kv.Text, k)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			kv.Numbers[k] = f
		} else {
			kv.Text[k] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return KeyValues{}, err
	}
	return kv, nil
}

// ReadKeyValues parses the key/value file at path.
func ReadKeyValues(path string) (KeyValues, error) {
	f, err := os.Open(path)
	if err != nil {
		return KeyValues{}, err
	}
	defer f.Close()

	kv, err := ParseKeyValues(f)
	if err != nil {
		return KeyValues{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	return kv, nil
}

// ReadLake reads lake characteristics from a key/value file with the keys
// type, latitude, altitude, zmax, surface, volume and an optional name.
func ReadLake(path string) (types.LakeCharacteristics, error) {
	kv, err := ReadKeyValues(path)
	if err != nil {
		return types.LakeCharacteristics{}, err
	}

	rawType, ok := kv.Text["type"]
	if !ok {
		return types.LakeCharacteristics{}, fmt.Errorf("%s: missing key type: %w", path, types.ErrInvalidInput)
	}
	lakeType, err := types.ParseLakeType(rawType)
	if err != nil {
		return types.LakeCharacteristics{}, fmt.Errorf("%s: %w", path, err)
	}

	lake := types.LakeCharacteristics{
		Name: kv.Text["name"],
		Type: lakeType,
	}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"latitude", &lake.Latitude},
		{"altitude", &lake.Altitude},
		{"zmax", &lake.Zmax},
		{"surface", &lake.Surface},
		{"volume", &lake.Volume},
	} {
		v, ok := kv.Numbers[f.key]
		if !ok {
			return types.LakeCharacteristics{}, fmt.Errorf("%s: missing or non-numeric key %s: %w", path, f.key, types.ErrInvalidInput)
		}
		*f.dst = v
	}
	return lake, nil
}

// ReadParameters reads a parameter set from a key/value file.
func ReadParameters(path string) (types.ParameterSet, error) {
	kv, err := ReadKeyValues(path)
	if err != nil {
		return types.ParameterSet{}, err
	}
	params, err := types.ParameterSetFromMap(kv.Numbers)
	if err != nil {
		return types.ParameterSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return params, nil
}

// WriteParameters writes params as `key value` lines in the persisted key
// order.
func WriteParameters(path string, params types.ParameterSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	values := params.ToMap()
	for _, k := range types.ParameterKeys {
		fmt.Fprintf(w, "%s %s\n", k, formatFloat(values[k]))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}
