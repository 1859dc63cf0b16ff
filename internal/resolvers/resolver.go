package resolvers

import (
	"launch-booking/internal/database"
	"launch-booking/internal/launches"
	"launch-booking/internal/schema"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	db       database.Service
	launches launches.Service
}

func New(db database.Service, launchAPI launches.Service) *Resolver {
	return &Resolver{db: db, launches: launchAPI}
}

// NewSchema binds the resolvers to the SDL. It fails if any declared field lacks a
// matching resolver method or has an incompatible return type.
func NewSchema(db database.Service, launchAPI launches.Service) (*graphql.Schema, error) {
	return graphql.ParseSchema(
		schema.SDL(),
		New(db, launchAPI),
		graphql.MaxParallelism(20),
		graphql.MaxDepth(10),
	)
}

// nullable maps the empty string to an absent value.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
