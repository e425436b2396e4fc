package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/internal/http/handlers"
	"github.com/you/coursegate/internal/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the route handlers mounted by BuildRouter
type Handlers struct {
	Auth        *handlers.AuthHandlers
	Enrollments *handlers.EnrollmentHandlers
	Access      *handlers.AccessHandlers
	Admin       *handlers.AdminHandlers
	Policies    *handlers.PolicyHandlers
}

func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)

	// optional identity: guests may submit interest and probe course gates
	open := r.Group("/", jwtmw.OptionalAuth())
	open.POST("/enrollments", h.Enrollments.Submit)
	open.GET("/courses/:courseId/enrollment", h.Enrollments.CourseEnrollment)

	access := r.Group("/access")
	access.GET("/:token", h.Access.Verify)
	access.POST("/:token/password", h.Access.SetPassword)

	v := r.Group("/").Use(jwtmw.RequireAuth(), cb.Enforce())
	v.GET("/auth/me", h.Auth.Me)
	v.POST("/auth/logout", h.Auth.Logout)
	v.GET("/enrollments/mine", h.Enrollments.Mine)

	adm := r.Group("/admin").Use(jwtmw.RequireAuth(), cb.Enforce())
	adm.GET("/enrollments", h.Admin.List)
	adm.GET("/enrollments/:id", h.Admin.Get)
	adm.POST("/enrollments/:id/course", h.Admin.AssignCourse)
	adm.POST("/enrollments/:id/approve", h.Admin.Approve)
	adm.POST("/enrollments/:id/reject", h.Admin.Reject)
	adm.POST("/enrollments/:id/payment/paid", h.Admin.MarkPaid)
	adm.POST("/enrollments/:id/payment/unpaid", h.Admin.MarkUnpaid)
	adm.POST("/enrollments/:id/access/revoke", h.Admin.RevokeAccess)
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)

	return r
}
