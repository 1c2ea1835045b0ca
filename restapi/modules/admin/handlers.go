// Package admin implements the REST API handlers for platform operators.
package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/model"
)

type authRequest struct {
	Admin model.AuthAdmin `json:"admin"`
}

type updateRequest struct {
	Admin    model.AuthAdmin `json:"admin"`
	NewAdmin model.Admin     `json:"newAdmin"`
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized request"})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body: " + err.Error()})
}

// Fetch handles POST /admin, resolving an operator by credentials
func Fetch(admins *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		admin, err := admins.Authenticate(context.Background(), req.Admin)
		if err != nil {
			return unauthorized(c)
		}
		return c.JSON(admin)
	}
}

// Update handles PUT /admin
func Update(admins *services.AdminService) fiber.Handler {
	return update(admins, false)
}

// UpdateWithCredentials handles PUT /admin/credentials
func UpdateWithCredentials(admins *services.AdminService) fiber.Handler {
	return update(admins, true)
}

func update(admins *services.AdminService, rehash bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		admin, err := admins.Authenticate(ctx, req.Admin)
		if err != nil {
			return unauthorized(c)
		}

		updated, err := admins.Update(ctx, admin, req.NewAdmin, rehash)
		if err != nil {
			return c.Status(fiber.StatusNotModified).JSON(fiber.Map{"message": "admin modification failed"})
		}
		return c.JSON(updated)
	}
}

// FetchOrganizations handles POST /admin/orgs/all, the happy-engagement
// ranking
func FetchOrganizations(admins *services.AdminService, orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		if _, err := admins.Authenticate(ctx, req.Admin); err != nil {
			return unauthorized(c)
		}

		ranking, err := orgs.RetrieveAll(ctx)
		if err != nil || len(ranking) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "organization(s) not available"})
		}
		return c.JSON(ranking)
	}
}

// RememberMe handles POST /admin/remember
func RememberMe(admins *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rememberMe model.BasicRememberMe
		if err := c.BodyParser(&rememberMe); err != nil {
			return badRequest(c, err)
		}

		admin, err := admins.RememberMe(context.Background(), rememberMe)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not remember"})
		}
		return c.JSON(admin)
	}
}
