// Package rcconfig loads the tuning knobs the cactusref command line
// exposes for the collector: whether the Drop Coordinator's S2 defensive
// fallback is allowed to log-and-continue or must abort, whether debug
// graph dumps are enabled, and the sanitizer mode the stress harness runs
// under. The core pkg/rc engine never reads this package; cmd/cactusref
// applies a loaded Config through pkg/rc's package-level setters.
package rcconfig

import (
	"errors"
	"os"

	validator "gopkg.in/validator.v2"
	yaml "gopkg.in/yaml.v2"
)

// errNoFilesToLoad is returned when LoadFiles is called with no file paths.
var errNoFilesToLoad = errors.New("rcconfig: attempted to load configuration with no files")

// FallbackMode selects what the Drop Coordinator does when the
// Reachability Oracle reports a component as externally reachable
// despite the starting node's strong count having just hit zero.
type FallbackMode string

const (
	// FallbackLogAndContinue logs the anomaly at Warn and falls through
	// to the acyclic drop path.
	FallbackLogAndContinue FallbackMode = "log-and-continue"
	// FallbackAbort treats the anomaly as a corruption signal and panics,
	// for callers who would rather crash than risk a latent bug masking
	// a real leak.
	FallbackAbort FallbackMode = "abort"
)

// SanitizerMode selects whether cmd/cactusref's `stress` subcommand
// treats unreclaimed nodes as a failure. It does not change how the
// workload is built.
type SanitizerMode string

const (
	// SanitizerNone reports the reclaimed count without failing on leaks.
	SanitizerNone SanitizerMode = "none"
	// SanitizerLeakCheck fails the run if any node's payload has not been
	// dropped once every root has been dropped.
	SanitizerLeakCheck SanitizerMode = "leak-check"
)

// Config is the collector tuning document, deep-merged across every file
// passed to LoadFiles and validated once at the end.
type Config struct {
	Fallback        FallbackMode  `yaml:"fallback" validate:"nonzero"`
	GraphDumpDir    string        `yaml:"graph_dump_dir"`
	GraphDumpOnFree bool          `yaml:"graph_dump_on_free"`
	Sanitizer       SanitizerMode `yaml:"sanitizer" validate:"nonzero"`
	StressNodes     int           `yaml:"stress_nodes" validate:"min=1,max=1000000"`
	StressEdges     int           `yaml:"stress_edges" validate:"min=0"`
}

// Default returns the configuration cmd/cactusref falls back to when no
// config file is supplied.
func Default() Config {
	return Config{
		Fallback:    FallbackLogAndContinue,
		Sanitizer:   SanitizerNone,
		StressNodes: 1000,
		StressEdges: 4000,
	}
}

// LoadFiles loads a list of YAML files into cfg, deep-merging values in
// the order given: a later file's fields overwrite an earlier file's.
// Validation runs once, after every file has been merged in.
func LoadFiles(cfg *Config, fnames ...string) error {
	if len(fnames) == 0 {
		return errNoFilesToLoad
	}
	for _, fname := range fnames {
		data, err := os.ReadFile(fname)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return err
		}
	}
	return validator.Validate(cfg)
}
