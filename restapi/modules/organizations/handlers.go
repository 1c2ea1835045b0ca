// Package organizations implements the REST API handlers for the
// organization aggregate: registration, credential auth, subject rosters,
// emotion ingestion and the consideration review flow.
package organizations

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

type authRequest struct {
	Organization model.AuthOrg `json:"organization"`
}

type updateRequest struct {
	Organization    model.AuthOrg      `json:"organization"`
	NewOrganization model.Organization `json:"newOrganization"`
}

type registerSubjectsRequest struct {
	Organization model.AuthOrg   `json:"organization"`
	Subjects     []model.Subject `json:"subjects"`
}

type respondConsiderationsRequest struct {
	Organization model.AuthOrg                    `json:"organization"`
	Responses    []services.ConsiderationResponse `json:"responses"`
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized request"})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body: " + err.Error()})
}

func windowFromQuery(c *fiber.Ctx) services.Window {
	return services.Window{
		Hours:  c.QueryInt("hours"),
		Weeks:  c.QueryInt("weeks"),
		Months: c.QueryInt("months"),
		Years:  c.QueryInt("years"),
	}
}

// Register handles POST /orgs/new
func Register(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var org model.Organization
		if err := c.BodyParser(&org); err != nil {
			return badRequest(c, err)
		}

		registered, err := orgs.Register(context.Background(), org)
		if err != nil {
			log.Printf("organization registration failed: %v", err)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "organization registration failed"})
		}
		return c.JSON(registered)
	}
}

// Plans handles GET /orgs/plans, listing the subscription plan names
// organizations can register with
func Plans(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"plans": orgs.PlanNames()})
	}
}

// Fetch handles POST /orgs, resolving the aggregate by credentials
func Fetch(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		org, err := orgs.Authenticate(context.Background(), req.Organization)
		if err != nil {
			return unauthorized(c)
		}
		return c.JSON(org)
	}
}

// Update handles PUT /orgs, replacing the aggregate without touching
// credentials
func Update(orgs *services.OrganizationService) fiber.Handler {
	return update(orgs, false)
}

// UpdateWithCredentials handles PUT /orgs/credentials
func UpdateWithCredentials(orgs *services.OrganizationService) fiber.Handler {
	return update(orgs, true)
}

func update(orgs *services.OrganizationService, rehash bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		var updated model.Organization
		if rehash {
			updated, err = orgs.UpdateWithCredentials(ctx, org, req.NewOrganization)
		} else {
			updated, err = orgs.Update(ctx, org, req.NewOrganization)
		}
		if err != nil {
			return c.Status(fiber.StatusNotModified).JSON(fiber.Map{"message": "organization modification failed"})
		}
		return c.JSON(updated)
	}
}

// Delete handles DELETE /orgs
func Delete(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		if err := orgs.Delete(ctx, org); err != nil {
			return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "organization deletion failed"})
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

// RegisterSubjects handles POST /orgs/subjects/new
func RegisterSubjects(orgs *services.OrganizationService, subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerSubjectsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		registered, err := subjects.RegisterAll(ctx, org, req.Subjects)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "subject(s) registration failed"})
		}
		return c.JSON(registered)
	}
}

// FetchSubjects handles POST /orgs/subjects/all
func FetchSubjects(orgs *services.OrganizationService, subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		org, err := orgs.Authenticate(context.Background(), req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		roster := subjects.RetrieveAll(org)
		if len(roster) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "subject(s) not available"})
		}
		return c.JSON(roster)
	}
}

// DeleteSubject handles DELETE /orgs/subjects?subId=. The subject id travels
// encrypted on the wire.
func DeleteSubject(orgs *services.OrganizationService, subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		subjectID, err := util.Decrypt(c.Query("subId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid subject id"})
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		if err := subjects.Delete(ctx, org, subjectID); err != nil {
			return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "organization subject deletion failed"})
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

// FetchEmotionEngagement handles POST /orgs/emotions, the organization-wide
// windowed engagement ratios
func FetchEmotionEngagement(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		ratios, ok, err := orgs.EmotionEngagement(ctx, org.Key, windowFromQuery(c))
		if err != nil || !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "organization emotional engagement not available",
			})
		}
		return c.JSON(ratios)
	}
}

// UploadWorkEmotionEntries handles PUT /orgs/emotions. The orgKey query
// parameter is the stored credential digest held by the recognition
// pipeline, not a plaintext key.
func UploadWorkEmotionEntries(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []model.WorkEmotionEntry
		if err := c.BodyParser(&entries); err != nil {
			return badRequest(c, err)
		}

		org, err := orgs.IngestWorkEmotions(context.Background(), c.Query("orgKey"), entries)
		if err != nil {
			return c.Status(fiber.StatusNotModified).JSON(fiber.Map{"message": "work emotion entry updation failed"})
		}
		return c.JSON(org)
	}
}

// SetupConsultancies handles POST /orgs/consultation, opening sessions for
// the subjects an ingestion batch matched
func SetupConsultancies(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []model.WorkEmotionEntry
		if err := c.BodyParser(&entries); err != nil {
			return badRequest(c, err)
		}

		if err := orgs.InitConsultancies(context.Background(), c.Query("orgKey"), entries); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "consultation setup failed"})
		}
		return c.JSON(fiber.Map{"initialized": true})
	}
}

// PendingConsiderations handles POST /orgs/considerations, the review
// listing of unanswered requests
func PendingConsiderations(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}
		return c.JSON(orgs.PendingConsiderations(ctx, org))
	}
}

// RespondConsiderations handles PUT /orgs/considerations, applying a
// response batch
func RespondConsiderations(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req respondConsiderationsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, err := orgs.Authenticate(ctx, req.Organization)
		if err != nil {
			return unauthorized(c)
		}

		updated, err := orgs.RespondConsiderations(ctx, org, req.Responses)
		if err != nil {
			return c.Status(fiber.StatusNotModified).JSON(fiber.Map{"message": "consideration response failed"})
		}
		return c.JSON(updated)
	}
}

// RememberMe handles POST /orgs/remember
func RememberMe(orgs *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rememberMe model.BasicRememberMe
		if err := c.BodyParser(&rememberMe); err != nil {
			return badRequest(c, err)
		}

		org, err := orgs.RememberMe(context.Background(), rememberMe)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not remember"})
		}
		return c.JSON(org)
	}
}
