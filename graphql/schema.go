// Package graphql assembles the root schema from the analytics modules.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/workmood/workmood-backend/graphql/modules/engagement"
	"github.com/workmood/workmood-backend/internal/services"
)

var (
	orgService     *services.OrganizationService
	subjectService *services.SubjectService
)

// Init hands the resolvers their service dependencies. Call before
// CreateSchema.
func Init(orgs *services.OrganizationService, subjects *services.SubjectService) {
	orgService = orgs
	subjectService = subjects
}

// CreateSchema builds the root query schema
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range engagement.GetQueryFields(orgService, subjectService) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
