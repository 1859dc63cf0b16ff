package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

//go:embed schema.graphql
var sdl string

// Mission patch sizes accepted by Mission.missionPatch.
const (
	PatchSizeSmall = "SMALL"
	PatchSizeLarge = "LARGE"
)

// SDL returns the schema definition language text served by the API.
func SDL() string {
	return sdl
}

// Contract is the parsed, validated form of the schema. It is read-only once loaded.
type Contract struct {
	schema *ast.Schema
}

// Load parses the embedded SDL and validates it as a GraphQL schema.
func Load() (*Contract, error) {
	return loadSource(sdl)
}

func loadSource(input string) (*Contract, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: input})
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if s.Query == nil || s.Mutation == nil {
		return nil, errors.New("load schema: missing Query or Mutation root")
	}
	return &Contract{schema: s}, nil
}

// Schema exposes the underlying AST.
func (c *Contract) Schema() *ast.Schema {
	return c.schema
}

// Validate checks an operation document against the contract without executing it.
func (c *Contract) Validate(query string) error {
	_, errs := gqlparser.LoadQuery(c.schema, query)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WriteSDL prints the loaded type system, without built-in types and directives, to w.
func (c *Contract) WriteSDL(w io.Writer) {
	formatter.NewFormatter(w).FormatSchema(c.schema)
}
