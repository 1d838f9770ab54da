// Package config loads calculator program configuration from CUE files.
//
// A configuration file is plain CUE data checked against an embedded
// schema:
//
//	batch:       true
//	prompt:      "calc> "
//	trace_ticks: false
//	max_ticks:   500
//	variables: { pi: 3.14159, e: 2.71828 }
//
// Omitted fields take the schema defaults. Unknown fields are rejected.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the calculator's settings.
type Config struct {
	Batch      bool               `json:"batch"`
	Prompt     string             `json:"prompt"`
	TraceTicks bool               `json:"trace_ticks"`
	MaxTicks   int                `json:"max_ticks"`
	Variables  map[string]float64 `json:"variables"`
}

// knownFields lists the top-level fields the schema accepts.
var knownFields = map[string]bool{
	"batch":       true,
	"prompt":      true,
	"trace_ticks": true,
	"max_ticks":   true,
	"variables":   true,
}

// Error codes for LoadError.
const (
	ErrCodeNotFound     = "E_NOT_FOUND"
	ErrCodeCompile      = "E_COMPILE"
	ErrCodeUnknownField = "E_UNKNOWN_FIELD"
	ErrCodeSchema       = "E_SCHEMA"
	ErrCodeDecode       = "E_DECODE"
)

// LoadError describes a configuration file that could not be used.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Prompt:    "> ",
		Variables: map[string]float64{},
	}
}

// Load reads and validates the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it.
// filename is used only for error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The embedded schema is fixed at build time.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, wrapCUEError(ErrCodeCompile, err)
	}

	if err := checkFields(file); err != nil {
		return Config{}, err
	}

	value := def.Unify(file)
	if err := value.Validate(); err != nil {
		return Config{}, wrapCUEError(ErrCodeSchema, err)
	}

	cfg := Default()
	if err := value.Decode(&cfg); err != nil {
		return Config{}, wrapCUEError(ErrCodeDecode, err)
	}
	if cfg.Variables == nil {
		cfg.Variables = map[string]float64{}
	}
	return cfg, nil
}

// checkFields rejects top-level fields the schema does not define, so a
// typo such as "max_tick" fails instead of being ignored.
func checkFields(file cue.Value) error {
	iter, err := file.Fields()
	if err != nil {
		return wrapCUEError(ErrCodeSchema, err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !knownFields[label] {
			return &LoadError{
				Code:    ErrCodeUnknownField,
				Message: fmt.Sprintf("unknown field %q", label),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// wrapCUEError converts the first CUE error into a LoadError.
func wrapCUEError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	return &LoadError{
		Code:    code,
		Message: first.Error(),
		Pos:     first.Position(),
	}
}
