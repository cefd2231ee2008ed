package problem

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed bank/default.json
var defaultBank []byte

const bankSchemaURL = "schema://problem-bank.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Bank is the on-disk format of a problem collection.
type Bank struct {
	Version  int        `json:"version"`
	Problems []*Problem `json:"problems"`
}

// BankError reports a bank document that failed schema validation or
// one of the problem checkers.
type BankError struct {
	Index int // problem index, -1 for document-level errors
	Err   error
}

func (e *BankError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("problem bank: %v", e.Err)
	}
	return fmt.Sprintf("problem bank: problem %d: %v", e.Index+1, e.Err)
}

func (e *BankError) Unwrap() error { return e.Err }

// LoadBank reads a bank document, validates it against the bank schema and
// the default checker chain, and assigns ids to problems without one.
func LoadBank(r io.Reader) ([]*Problem, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read problem bank: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &BankError{Index: -1, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := bankValidator()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &BankError{Index: -1, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var bank Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, &BankError{Index: -1, Err: err}
	}

	for i, p := range bank.Problems {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if err := Check(p); err != nil {
			return nil, &BankError{Index: i, Err: err}
		}
	}
	return bank.Problems, nil
}

// DefaultBank returns the problems shipped with the binary.
func DefaultBank() ([]*Problem, error) {
	return LoadBank(bytes.NewReader(defaultBank))
}

// bankValidator compiles the bank schema once.
func bankValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a plain decoded JSON value.
		defBytes, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(bankSchemaURL)
	})
	return compiledSchema, compileErr
}
