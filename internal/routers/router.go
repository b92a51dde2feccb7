package routers

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redis_fiber "github.com/gofiber/storage/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/session"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/i18n"
	admin_case "github.com/neolist/neolist/internal/use-cases/admin-case"
	auth_case "github.com/neolist/neolist/internal/use-cases/auth-case"
	folder_case "github.com/neolist/neolist/internal/use-cases/folder-case"
	task_case "github.com/neolist/neolist/internal/use-cases/task-case"
	user_case "github.com/neolist/neolist/internal/use-cases/user-case"
	"github.com/neolist/neolist/internal/utils"
	"github.com/redis/go-redis/v9"
)

// Deps bündelt alles, was die Router brauchen. Die Services baut cmd/main.go.
type Deps struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	I18n     i18n.Service
	Paseto   *utils.PasetoMaker
	Sessions session.Store

	Auth   auth_case.AuthServiceContract
	User   user_case.UserServiceContract
	Folder folder_case.FolderServiceContract
	Task   task_case.TaskServiceContract
	Admin  admin_case.AdminServiceContract

	// LimiterStorage speichert die Zähler des Rate-Limiters. nil heißt In-Memory.
	LimiterStorage fiber.Storage
}

// SetupRoutes richtet die API-Routen unter /api/v1 ein.
func SetupRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api/v1")

	AuthRouter(api, deps)
	UserRouter(api, deps)
	FolderRouter(api, deps)
	TaskRouter(api, deps)
	AdminRouter(api, deps)
	HealthRouter(api, deps.DB, deps.Redis)
}

// NewLimiterStorage legt den Redis-Speicher des Limiters in einer eigenen DB an.
func NewLimiterStorage(addr, password string, database int) (fiber.Storage, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis port %q: %w", portStr, err)
	}

	return redis_fiber.New(redis_fiber.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: database,
	}), nil
}

// rateLimit begrenzt pro Benutzer und Routenparameter, ohne Anmeldung pro IP.
func rateLimit(storage fiber.Storage, prefix, param string, limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID, ok := c.Locals("user_id").(string)
			if !ok || userID == "" {
				return prefix + ":ip:" + c.IP()
			}
			return fmt.Sprintf("%s:%s:%s", prefix, userID, c.Params(param))
		},
		LimitReached: func(c *fiber.Ctx) error {
			return app_errors.TooManyRequests()
		},
		Storage: storage,
	})
}
