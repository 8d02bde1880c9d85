package kagen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shaip161/KaGen/pkg/generator"
	"github.com/Shaip161/KaGen/pkg/graph"
)

// ParseOptions turns an option string into a configuration. The format
// is a semicolon-separated list starting with the family:
//
//	type=gnm_undirected;n=1000;m=4000;self_loops;seed=7
//
// Keys mirror the Config fields. Upper-case N and M give the vertex and
// edge counts as log2 exponents while lower-case n and m set them
// directly; a key without value sets its boolean to true; unknown keys
// are an error.
func ParseOptions(options string) (generator.Config, error) {
	cfg := generator.Config{Seed: 1, Representation: graph.RepEdgeList}
	cfg, haveType, err := applyTokens(cfg, options)
	if err != nil {
		return cfg, err
	}
	if !haveType {
		return cfg, fmt.Errorf("%w: option string needs a type=<family> entry", generator.ErrConfiguration)
	}
	return cfg, nil
}

// ApplyOptions parses an option string on top of an existing
// configuration, so the string can be layered over flag or file
// settings. The type entry is optional when the base already names a
// family.
func ApplyOptions(cfg generator.Config, options string) (generator.Config, error) {
	cfg, _, err := applyTokens(cfg, options)
	return cfg, err
}

func applyTokens(cfg generator.Config, options string) (generator.Config, bool, error) {
	var (
		nExp, mExp         uint64
		haveNExp, haveMExp bool
		haveN, haveM       bool
		haveType           bool
	)
	for _, tok := range strings.Split(options, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, value, hasValue := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !hasValue {
			if err := applyFlag(&cfg, key); err != nil {
				return cfg, haveType, err
			}
			continue
		}

		var err error
		switch key {
		case "type":
			cfg.Family, err = generator.ParseFamily(value)
			haveType = err == nil
		case "n":
			err = setUint(&cfg.N, key, value)
			haveN = haveN || err == nil
		case "N":
			err = setExponent(&nExp, key, value)
			haveNExp = haveNExp || err == nil
		case "m":
			err = setUint(&cfg.M, key, value)
			haveM = haveM || err == nil
		case "M":
			err = setExponent(&mExp, key, value)
			haveMExp = haveMExp || err == nil
		case "k":
			err = setUint(&cfg.K, key, value)
		case "seed":
			err = setUint(&cfg.Seed, key, value)
		case "p", "prob":
			err = setFloat(&cfg.Prob, key, value)
		case "r", "radius":
			err = setFloat(&cfg.Radius, key, value)
		case "gamma":
			err = setFloat(&cfg.Gamma, key, value)
		case "d", "avg_degree":
			err = setFloat(&cfg.AvgDegree, key, value)
		case "min_degree":
			err = setUint(&cfg.MinDegree, key, value)
		case "x", "grid_x":
			err = setUint(&cfg.GridX, key, value)
		case "y", "grid_y":
			err = setUint(&cfg.GridY, key, value)
		case "z", "grid_z":
			err = setUint(&cfg.GridZ, key, value)
		case "a":
			err = setFloat(&cfg.RMatA, key, value)
		case "b":
			err = setFloat(&cfg.RMatB, key, value)
		case "c":
			err = setFloat(&cfg.RMatC, key, value)
		case "periodic":
			err = setBool(&cfg.Periodic, key, value)
		case "self_loops":
			err = setBool(&cfg.SelfLoops, key, value)
		case "directed":
			err = setBool(&cfg.Directed, key, value)
		case "coordinates":
			err = setBool(&cfg.Coordinates, key, value)
		case "validate":
			err = setBool(&cfg.ValidateSimple, key, value)
		case "skip_postprocessing":
			err = setBool(&cfg.SkipPostprocessing, key, value)
		case "quiet":
			err = setBool(&cfg.Quiet, key, value)
		case "rep", "representation":
			cfg.Representation, err = ParseRepresentation(value)
		case "stats", "statistics":
			cfg.Statistics, err = ParseStatisticsLevel(value)
		case "output":
			cfg.OutputFile = value
		case "format":
			cfg.OutputFormat = value
		default:
			err = fmt.Errorf("%w: unknown option key %q", generator.ErrConfiguration, key)
		}
		if err != nil {
			return cfg, haveType, err
		}
	}
	if haveNExp && !haveN {
		cfg.N = 1 << nExp
	}
	if haveMExp && !haveM {
		cfg.M = 1 << mExp
	}
	return cfg, haveType, nil
}

// applyFlag handles bare keys, which name booleans.
func applyFlag(cfg *generator.Config, key string) error {
	switch key {
	case "periodic":
		cfg.Periodic = true
	case "self_loops":
		cfg.SelfLoops = true
	case "directed":
		cfg.Directed = true
	case "coordinates":
		cfg.Coordinates = true
	case "validate":
		cfg.ValidateSimple = true
	case "skip_postprocessing":
		cfg.SkipPostprocessing = true
	case "quiet":
		cfg.Quiet = true
	default:
		return fmt.Errorf("%w: unknown option flag %q", generator.ErrConfiguration, key)
	}
	return nil
}

func setUint(dst *uint64, key, value string) error {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: option %q needs an unsigned integer, got %q", generator.ErrConfiguration, key, value)
	}
	*dst = v
	return nil
}

// setExponent parses a log2 exponent, bounded so 1<<v stays in uint64.
func setExponent(dst *uint64, key, value string) error {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil || v >= 64 {
		return fmt.Errorf("%w: option %q needs a log2 exponent below 64, got %q", generator.ErrConfiguration, key, value)
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: option %q needs a number, got %q", generator.ErrConfiguration, key, value)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: option %q needs a boolean, got %q", generator.ErrConfiguration, key, value)
	}
	*dst = v
	return nil
}

// ParseRepresentation maps a representation name to its constant.
func ParseRepresentation(value string) (graph.Representation, error) {
	switch strings.ReplaceAll(strings.ToLower(value), "-", "_") {
	case "edge_list", "edgelist", "list":
		return graph.RepEdgeList, nil
	case "csr":
		return graph.RepCSR, nil
	default:
		return graph.RepEdgeList, fmt.Errorf("%w: unknown representation %q", generator.ErrConfiguration, value)
	}
}

// ParseStatisticsLevel maps a statistics level name to its constant.
func ParseStatisticsLevel(value string) (generator.StatisticsLevel, error) {
	switch strings.ToLower(value) {
	case "none":
		return generator.StatsNone, nil
	case "basic":
		return generator.StatsBasic, nil
	case "advanced":
		return generator.StatsAdvanced, nil
	default:
		return generator.StatsNone, fmt.Errorf("%w: unknown statistics level %q", generator.ErrConfiguration, value)
	}
}
