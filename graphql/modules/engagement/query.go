package engagement

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/model"
)

func intArg(p graphql.ResolveParams, name string) int {
	if value, ok := p.Args[name].(int); ok {
		return value
	}
	return 0
}

func windowArgs(p graphql.ResolveParams) services.Window {
	return services.Window{
		Hours:  intArg(p, "hours"),
		Weeks:  intArg(p, "weeks"),
		Months: intArg(p, "months"),
		Years:  intArg(p, "years"),
	}
}

var windowArgConfig = graphql.FieldConfigArgument{
	"hours":  &graphql.ArgumentConfig{Type: graphql.Int},
	"weeks":  &graphql.ArgumentConfig{Type: graphql.Int},
	"months": &graphql.ArgumentConfig{Type: graphql.Int},
	"years":  &graphql.ArgumentConfig{Type: graphql.Int},
}

// GetQueryFields returns the engagement queries to be mounted in the root
// schema.
func GetQueryFields(orgs *services.OrganizationService, subjects *services.SubjectService) graphql.Fields {
	return graphql.Fields{
		"organizationEngagement": &graphql.Field{
			Type: EngagementType,
			Args: graphql.FieldConfigArgument{
				"orgId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"hours":  &graphql.ArgumentConfig{Type: graphql.Int},
				"weeks":  &graphql.ArgumentConfig{Type: graphql.Int},
				"months": &graphql.ArgumentConfig{Type: graphql.Int},
				"years":  &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ratios, ok, err := orgs.EmotionEngagement(context.Background(), p.Args["orgId"].(string), windowArgs(p))
				if err != nil || !ok {
					return nil, err
				}
				return ratiosToMap(ratios), nil
			},
		},
		"subjectEngagement": &graphql.Field{
			Type: EngagementType,
			Args: mergeArgs(graphql.FieldConfigArgument{
				"orgId":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"subjectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ratios, ok, err := subjects.EmotionEngagement(context.Background(),
					p.Args["orgId"].(string), p.Args["subjectId"].(string), windowArgs(p))
				if err != nil || !ok {
					return nil, err
				}
				return ratiosToMap(ratios), nil
			},
		},
		"subjectEmotionEngagement": &graphql.Field{
			Type: graphql.Float,
			Args: mergeArgs(graphql.FieldConfigArgument{
				"orgId":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"subjectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"emotion":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				emotion, err := model.ParseEmotion(p.Args["emotion"].(string))
				if err != nil {
					return nil, err
				}
				ratio, ok, err := subjects.SingleEmotionEngagement(context.Background(),
					p.Args["orgId"].(string), p.Args["subjectId"].(string), emotion, windowArgs(p))
				if err != nil || !ok {
					return nil, err
				}
				return ratio, nil
			},
		},
		"organizationRanking": &graphql.Field{
			Type: graphql.NewList(RankedOrganizationType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ranking, err := orgs.RetrieveAll(context.Background())
				if err != nil {
					return nil, err
				}
				if limit, ok := p.Args["limit"].(int); ok && limit > 0 && limit < len(ranking) {
					ranking = ranking[:limit]
				}
				return rankingToMaps(ranking), nil
			},
		},
	}
}

// mergeArgs adds the shared window arguments to a field's own argument set
func mergeArgs(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	for name, config := range windowArgConfig {
		args[name] = config
	}
	return args
}
