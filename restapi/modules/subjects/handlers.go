// Package subjects implements the REST API handlers for subject-scoped
// operations: profile management, engagement queries, consultancy chats and
// special-consideration requests.
package subjects

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/model"
)

type authRequest struct {
	Subject model.AuthSubject `json:"subject"`
}

type updateRequest struct {
	Subject    model.AuthSubject `json:"subject"`
	NewSubject model.Subject     `json:"newSubject"`
}

type chatRequest struct {
	Subject model.AuthSubject `json:"subject"`
	Message model.Message     `json:"message"`
}

type considerationRequest struct {
	Subject                     model.AuthSubject                 `json:"subject"`
	SpecialConsiderationRequest model.SpecialConsiderationRequest `json:"specialConsiderationRequest"`
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

// Fetch handles POST /orgs/subjects, resolving a subject by credentials
func Fetch(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		_, subject, err := subjects.Authenticate(context.Background(), req.Subject)
		if err != nil {
			return unauthorized(c)
		}
		return c.JSON(subject)
	}
}

// Update handles PUT /orgs/subjects
func Update(subjects *services.SubjectService) fiber.Handler {
	return update(subjects, false)
}

// UpdateWithCredentials handles PUT /orgs/subjects/credentials
func UpdateWithCredentials(subjects *services.SubjectService) fiber.Handler {
	return update(subjects, true)
}

func update(subjects *services.SubjectService, rehash bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, subject, err := subjects.Authenticate(ctx, req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		updated, err := subjects.Update(ctx, org, subject.ID, req.NewSubject, rehash)
		if err != nil {
			return c.Status(fiber.StatusNotModified).JSON(fiber.Map{"message": "subject modification failed"})
		}
		return c.JSON(updated)
	}
}

// FetchEmotionEngagement handles POST /orgs/subjects/emotions. Without the
// emotion query parameter it returns the per-category ratio map; with it, a
// single scalar ratio.
func FetchEmotionEngagement(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, subject, err := subjects.Authenticate(ctx, req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		win := windowFromQuery(c)

		if name := c.Query("emotion"); name != "" {
			emotion, err := model.ParseEmotion(name)
			if err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "emotion not available"})
			}
			ratio, ok, err := subjects.SingleEmotionEngagement(ctx, org.Key, subject.ID, emotion, win)
			if err != nil || !ok {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "emotion engagement not available"})
			}
			return c.JSON(ratio)
		}

		ratios, ok, err := subjects.EmotionEngagement(ctx, org.Key, subject.ID, win)
		if err != nil || !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "emotion engagement not available"})
		}
		return c.JSON(ratios)
	}
}

// FetchConsultancy handles POST /orgs/subjects/consultation, returning the
// subject's active session
func FetchConsultancy(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		_, subject, err := subjects.Authenticate(context.Background(), req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		session, ok := services.LatestConsultancy(subject)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "consultancy not available"})
		}
		return c.JSON(session)
	}
}

// Chat handles POST /orgs/subjects/consultation/chat, one exchange with the
// assistant
func Chat(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, subject, err := subjects.Authenticate(ctx, req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		session, err := subjects.Converse(ctx, org, subject.ID, req.Message)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "chat with assistant failed"})
		}
		return c.JSON(session)
	}
}

// RequestSpecialConsideration handles POST /orgs/subjects/scr, forwarding
// the request to the triage service
func RequestSpecialConsideration(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req considerationRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, subject, err := subjects.Authenticate(ctx, req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		analysis, err := subjects.RequestSpecialConsideration(ctx, org, subject.ID, req.SpecialConsiderationRequest.Message)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "special consideration request failed"})
		}
		return c.JSON(fiber.Map{"analysis": analysis})
	}
}

// Recommendation handles POST /orgs/subjects/consultation/recommendation,
// a read-only consultation recommendation built from the subject's profile
// and lifetime engagement
func Recommendation(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		ctx := context.Background()
		org, subject, err := subjects.Authenticate(ctx, req.Subject)
		if err != nil {
			return unauthorized(c)
		}

		recommendation, err := subjects.ConsultationRecommendation(ctx, org, subject.ID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "consultation recommendation failed"})
		}
		return c.JSON(fiber.Map{"recommendation": recommendation})
	}
}

// RespondedConsiderations handles POST /orgs/subjects/scr-responses
func RespondedConsiderations(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req authRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}

		_, subject, err := subjects.Authenticate(context.Background(), req.Subject)
		if err != nil {
			return unauthorized(c)
		}
		return c.JSON(subjects.RespondedConsiderations(subject))
	}
}

// RememberMe handles POST /orgs/subjects/remember
func RememberMe(subjects *services.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rememberMe model.SubjectRememberMe
		if err := c.BodyParser(&rememberMe); err != nil {
			return badRequest(c, err)
		}

		subject, err := subjects.RememberMe(context.Background(), rememberMe)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not remember"})
		}
		return c.JSON(subject)
	}
}
