// Package restapi provides the main router and HTTP handlers for the REST
// API, including GraphQL support.
package restapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// GraphQLHandler returns a Fiber handler for GraphQL requests
func GraphQLHandler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{{"message": "Invalid request body"}},
			})
		}

		opName := params.OperationName
		if opName == "" {
			opName = "-"
		}
		c.Locals("graphql_op", opName)

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        context.Background(),
		})

		return c.JSON(result)
	}
}
