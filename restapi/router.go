package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/workmood/workmood-backend/internal/services"
	adminmod "github.com/workmood/workmood-backend/restapi/modules/admin"
	"github.com/workmood/workmood-backend/restapi/modules/auth"
	"github.com/workmood/workmood-backend/restapi/modules/organizations"
	"github.com/workmood/workmood-backend/restapi/modules/subjects"
	"github.com/workmood/workmood-backend/restapi/modules/utils"
)

// Services bundles the domain services the routes are wired against
type Services struct {
	Admins        *services.AdminService
	Organizations *services.OrganizationService
	Subjects      *services.SubjectService
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint
func SetupRoutes(app *fiber.App, svc Services, schema graphql.Schema) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", auth.Login(svc.Admins, svc.Organizations, svc.Subjects))

	// Admin Routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("", adminmod.Fetch(svc.Admins))
	adminGroup.Put("", adminmod.Update(svc.Admins))
	adminGroup.Put("/credentials", adminmod.UpdateWithCredentials(svc.Admins))
	adminGroup.Post("/orgs/all", adminmod.FetchOrganizations(svc.Admins, svc.Organizations))
	adminGroup.Post("/remember", adminmod.RememberMe(svc.Admins))

	// Organization Routes
	orgGroup := api.Group("/orgs")
	orgGroup.Get("/plans", organizations.Plans(svc.Organizations))
	orgGroup.Post("/new", organizations.Register(svc.Organizations))
	orgGroup.Post("", organizations.Fetch(svc.Organizations))
	orgGroup.Put("", organizations.Update(svc.Organizations))
	orgGroup.Put("/credentials", organizations.UpdateWithCredentials(svc.Organizations))
	orgGroup.Delete("", organizations.Delete(svc.Organizations))
	orgGroup.Post("/subjects/new", organizations.RegisterSubjects(svc.Organizations, svc.Subjects))
	orgGroup.Post("/subjects/all", organizations.FetchSubjects(svc.Organizations, svc.Subjects))
	orgGroup.Delete("/subjects", organizations.DeleteSubject(svc.Organizations, svc.Subjects))
	orgGroup.Post("/emotions", organizations.FetchEmotionEngagement(svc.Organizations))
	orgGroup.Put("/emotions", organizations.UploadWorkEmotionEntries(svc.Organizations))
	orgGroup.Post("/consultation", organizations.SetupConsultancies(svc.Organizations))
	orgGroup.Post("/considerations", organizations.PendingConsiderations(svc.Organizations))
	orgGroup.Put("/considerations", organizations.RespondConsiderations(svc.Organizations))
	orgGroup.Post("/remember", organizations.RememberMe(svc.Organizations))

	// Subject Routes, nested under the organization prefix
	subjectGroup := orgGroup.Group("/subjects")
	subjectGroup.Post("", subjects.Fetch(svc.Subjects))
	subjectGroup.Put("", subjects.Update(svc.Subjects))
	subjectGroup.Put("/credentials", subjects.UpdateWithCredentials(svc.Subjects))
	subjectGroup.Post("/emotions", subjects.FetchEmotionEngagement(svc.Subjects))
	subjectGroup.Post("/consultation", subjects.FetchConsultancy(svc.Subjects))
	subjectGroup.Post("/consultation/chat", subjects.Chat(svc.Subjects))
	subjectGroup.Post("/consultation/recommendation", subjects.Recommendation(svc.Subjects))
	subjectGroup.Post("/scr", subjects.RequestSpecialConsideration(svc.Subjects))
	subjectGroup.Post("/scr-responses", subjects.RespondedConsiderations(svc.Subjects))
	subjectGroup.Post("/remember", subjects.RememberMe(svc.Subjects))

	// Utility Routes, token protected
	utilsGroup := api.Group("/utils", auth.RequireAuth())
	utilsGroup.Get("/hash", utils.Hash())
	utilsGroup.Get("/encrypt", utils.Encrypt())
	utilsGroup.Get("/decrypt", utils.Decrypt())

	log.Println("API routes initialized successfully")
}
