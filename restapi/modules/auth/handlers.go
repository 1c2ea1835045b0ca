package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/model"
)

// Principal roles carried in token claims
const (
	RoleAdmin        = "admin"
	RoleOrganization = "organization"
	RoleSubject      = "subject"
)

type loginRequest struct {
	Admin        *model.AuthAdmin   `json:"admin,omitempty"`
	Organization *model.AuthOrg     `json:"organization,omitempty"`
	Subject      *model.AuthSubject `json:"subject,omitempty"`
}

// Login exchanges one credential payload for a bearer token. Exactly one of
// the admin/organization/subject blocks must be present.
func Login(admins *services.AdminService, orgs *services.OrganizationService, subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body: " + err.Error(),
			})
		}

		ctx := context.Background()
		var principal, role string

		switch {
		case req.Admin != nil:
			admin, err := admins.Authenticate(ctx, *req.Admin)
			if err != nil {
				return unauthorized(c)
			}
			principal, role = admin.Key, RoleAdmin
		case req.Organization != nil:
			org, err := orgs.Authenticate(ctx, *req.Organization)
			if err != nil {
				return unauthorized(c)
			}
			principal, role = org.Key, RoleOrganization
		case req.Subject != nil:
			_, subject, err := subjects.Authenticate(ctx, *req.Subject)
			if err != nil {
				return unauthorized(c)
			}
			principal, role = subject.ID, RoleSubject
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "one credential block is required",
			})
		}

		token, err := GenerateJWT(principal, role)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "token generation failed",
			})
		}
		return c.JSON(fiber.Map{"token": token, "role": role})
	}
}

// RequireAuth guards a route group with bearer token validation
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c)
		}

		claims, err := ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return unauthorized(c)
		}

		c.Locals("principal", claims.Subject)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "unauthorized request",
	})
}
