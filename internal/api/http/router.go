package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AIlhomov/Ticketing-System/internal/api/http/handlers"
	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Users          *handlers.UsersHandler
	Articles       *handlers.ArticlesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Ticket submission uses optional auth so
// anonymous visitors can file tickets; everything else behind the ticket
// prefix requires a signed-in principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/google", cfg.Auth.GoogleRedirect)
	authGroup.Get("/google/callback", cfg.Auth.GoogleCallback)
	authGroup.Post("/password-reset", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", cfg.Auth.ConfirmPasswordReset)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.AuthMiddleware.HandleOptional, cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.AuthMiddleware.Handle, cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id/status", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/close", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.CloseTicket)
	tickets.Post("/:id/claim", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.ClaimTicket)
	tickets.Post("/:id/comments", cfg.AuthMiddleware.Handle, cfg.Tickets.AddComment)

	categories := app.Group("/categories")
	categories.Get("", cfg.Categories.ListCategories)
	categories.Post("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Categories.CreateCategory)
	categories.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Categories.DeleteCategory)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	users.Get("", cfg.Users.ListUsers)
	users.Post("", cfg.Users.CreateUser)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)

	articles := app.Group("/kb/articles")
	articles.Get("", cfg.AuthMiddleware.Handle, cfg.Articles.ListArticles)
	articles.Get("/:id", cfg.AuthMiddleware.Handle, cfg.Articles.GetArticle)
	articles.Post("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Articles.CreateArticle)
	articles.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Articles.UpdateArticle)
	articles.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Articles.DeleteArticle)
}
