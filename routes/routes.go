package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"campusevents/access"
	"campusevents/middlewares"
	"campusevents/models"
	"campusevents/registration"
	"campusevents/utils"
)

// Limits tunes request throttling.
type Limits struct {
	GlobalRPS     float64 // per client IP, all routes
	GlobalBurst   int
	AuthRPS       float64 // per client IP, login and signup
	AuthBurst     int
	RegisterQuota int // registration attempts per user per day
}

func DefaultLimits() Limits {
	return Limits{GlobalRPS: 20, GlobalBurst: 40, AuthRPS: 0.5, AuthBurst: 2, RegisterQuota: 50}
}

// Deps holds everything the handlers need. Activity may be nil.
type Deps struct {
	Users     models.UserRepository
	Societies models.SocietyRepository
	Events    models.EventRepository
	Regs      models.RegistrationRepository
	Engine    *registration.Engine
	Activity  models.ActivityRepository
	Tokens    *utils.TokenManager
	Sessions  *utils.SessionStore
	Redis     *redis.Client
	Limits    Limits
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
}

func RegisterRoutes(server *gin.Engine, d *Deps) {
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     d.Limits.GlobalRPS,
		Burst:   d.Limits.GlobalBurst,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(middlewares.ByClientIP("ip")))

	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     d.Limits.AuthRPS,
		Burst:   d.Limits.AuthBurst,
		IdleTTL: 10 * time.Minute,
	})

	// public
	server.GET("/events", d.getEvents)
	server.GET("/events/:id", d.getEvent)
	server.POST("/register", authLimiter.Middleware(middlewares.ByClientIP("signup")), d.signup)
	server.POST("/login", authLimiter.Middleware(middlewares.ByClientIP("login")), d.login)

	auth := server.Group("/")
	auth.Use(middlewares.Authenticate(d.Tokens, d.Sessions, d.Users))
	auth.POST("/logout", d.logout)
	auth.GET("/dashboard", d.dashboard)

	admin := auth.Group("/admin", middlewares.RequireRole(access.GateAdmin))
	admin.GET("/dashboard", d.adminDashboard)
	for _, h := range []userAdmin{{d, models.RoleStudent, "/students"}, {d, models.RoleOrganizer, "/organizers"}} {
		admin.GET(h.path, h.list)
		admin.POST(h.path, h.create)
		admin.PUT(h.path+"/:id", h.update)
		admin.DELETE(h.path+"/:id", h.delete)
	}
	admin.POST("/admins", userAdmin{d, models.RoleSuperAdmin, "/admins"}.create)
	admin.GET("/societies", d.listSocieties)
	admin.POST("/societies", d.createSociety)
	admin.PUT("/societies/:id", d.updateSociety)
	admin.DELETE("/societies/:id", d.deleteSociety)
	admin.GET("/events", d.adminListEvents)
	admin.POST("/events", d.adminCreateEvent)
	admin.PUT("/events/:id", d.adminUpdateEvent)
	admin.DELETE("/events/:id", d.deleteEvent)
	admin.GET("/activity", d.listActivity)

	organizer := auth.Group("/organizer", middlewares.RequireRole(access.GateOrganizer))
	organizer.GET("/dashboard", d.organizerDashboard)
	organizer.GET("/events", d.organizerListEvents)
	organizer.POST("/events", d.organizerCreateEvent)
	organizer.PUT("/events/:id", d.organizerUpdateEvent)
	organizer.DELETE("/events/:id", d.deleteEvent)

	student := auth.Group("/", middlewares.RequireRole(access.GateStudent))
	student.GET("/student/dashboard", d.studentDashboard)
	student.GET("/student/events", d.studentEvents)
	student.POST("/event/:id/register",
		middlewares.Quota(d.Redis, middlewares.QuotaRule{
			Limit:  d.Limits.RegisterQuota,
			Window: 24 * time.Hour,
			KeyFn:  middlewares.UserQuotaKey("register"),
		}),
		d.registerForEvent,
	)
	student.POST("/event/:id/unregister", d.unregisterFromEvent)

	staff := auth.Group("/event", middlewares.RequireRole(access.GateOrganizer))
	staff.GET("/:id/registrations", d.listRegistrations)
	staff.GET("/:id/export/:format", d.exportRegistrations)
}

/* -------------------- helpers -------------------- */

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateRegistration),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrCapacityTooLow),
		errors.Is(err, models.ErrReferentialConflict),
		errors.Is(err, models.ErrUniquenessConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAccessDenied):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError maps domain errors to their status. Unexpected errors are
// logged and answered with fallback only.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		slog.ErrorContext(c.Request.Context(), fallback, "path", c.FullPath(), "err", err)
		c.JSON(status, gin.H{"message": fallback})
	case http.StatusForbidden:
		c.JSON(status, gin.H{"message": err.Error(), "redirect": "/"})
	default:
		c.JSON(status, gin.H{"message": err.Error()})
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse " + name + "."})
		return 0, false
	}
	return id, true
}

func views(events []models.Event) []models.EventView {
	out := make([]models.EventView, 0, len(events))
	for _, e := range events {
		out = append(out, e.View())
	}
	return out
}

func (d *Deps) record(c *gin.Context, action string, subjectID int64, detail string) {
	models.RecordActivity(c.Request.Context(), d.Activity, middlewares.CurrentIdentity(c), action, subjectID, detail)
}
