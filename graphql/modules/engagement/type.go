// Package engagement defines the GraphQL types and queries for emotion
// engagement analytics.
package engagement

import (
	"github.com/graphql-go/graphql"
)

// EngagementType carries one ratio per emotion category
var EngagementType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EmotionEngagement",
	Fields: graphql.Fields{
		"anger":    &graphql.Field{Type: graphql.Float},
		"contempt": &graphql.Field{Type: graphql.Float},
		"disgust":  &graphql.Field{Type: graphql.Float},
		"fear":     &graphql.Field{Type: graphql.Float},
		"happy":    &graphql.Field{Type: graphql.Float},
		"neutral":  &graphql.Field{Type: graphql.Float},
		"sad":      &graphql.Field{Type: graphql.Float},
		"surprise": &graphql.Field{Type: graphql.Float},
	},
})

// RankedOrganizationType is one entry of the happy-engagement ranking
var RankedOrganizationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RankedOrganization",
	Fields: graphql.Fields{
		"key":             &graphql.Field{Type: graphql.String},
		"name":            &graphql.Field{Type: graphql.String},
		"address":         &graphql.Field{Type: graphql.String},
		"businessReg":     &graphql.Field{Type: graphql.String},
		"owner":           &graphql.Field{Type: graphql.String},
		"email":           &graphql.Field{Type: graphql.String},
		"planName":        &graphql.Field{Type: graphql.String},
		"subjectIds":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"happyEngagement": &graphql.Field{Type: graphql.Float},
	},
})
