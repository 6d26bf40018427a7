package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/access"
	"github.com/solvento/hrcore/internal/auth"
	"github.com/solvento/hrcore/internal/endpoints"
	"github.com/solvento/hrcore/internal/handlers"
	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	"github.com/solvento/hrcore/pkg/response"
)

// register mounts a route and records it in the endpoint catalog so the
// administrative grant editor always sees exactly what the server serves.
// The catalog stores the base path; deeper routes normalize onto it.
func register(g *gin.RouterGroup, method, relative, base, name, tag string, handler gin.HandlerFunc) {
	g.Handle(method, relative, handler)
	endpoints.Register(base, method, name, tag)
}

// NewRouter assembles the full HTTP surface.
func NewRouter(db *gorm.DB, jwtService *auth.JWTService) *gin.Engine {
	audit := services.NewAuditService(db)
	userSvc := services.NewUserService(db)
	scopeSvc := services.NewUserScopeService(db, audit)
	permSvc := services.NewUserPermissionService(db, audit)
	groupSvc := services.NewBusinessGroupService(db)
	companySvc := services.NewCompanyService(db)
	branchSvc := services.NewBranchService(db)
	positionSvc := services.NewPositionService(db)
	deptSvc := services.NewDepartmentService(db)
	employeeSvc := services.NewEmployeeService(db)

	authHandler := handlers.NewAuthHandler(userSvc, jwtService)
	userHandler := handlers.NewUserHandler(userSvc)
	scopeHandler := handlers.NewUserScopeHandler(scopeSvc)
	permHandler := handlers.NewUserPermissionHandler(permSvc)
	adminHandler := handlers.NewAdminPermissionsHandler(permSvc)
	groupHandler := handlers.NewBusinessGroupHandler(groupSvc, db)
	companyHandler := handlers.NewCompanyHandler(companySvc, db)
	branchHandler := handlers.NewBranchHandler(branchSvc)
	positionHandler := handlers.NewPositionHandler(positionSvc)
	deptHandler := handlers.NewDepartmentHandler(deptSvc)
	employeeHandler := handlers.NewEmployeeHandler(employeeSvc, db)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/auth/login", authHandler.Login)

	v1 := r.Group("/api/v1",
		middleware.RequireAuth(jwtService),
		middleware.RequireAccess(access.NewResolver(db)),
	)

	groups := v1.Group("/business-groups")
	base := "/api/v1/business-groups"
	register(groups, http.MethodPost, "", base, "create business group", "business-groups", groupHandler.Create)
	register(groups, http.MethodGet, "", base, "list business groups", "business-groups", groupHandler.List)
	register(groups, http.MethodGet, "/:id", base, "get business group", "business-groups", groupHandler.Get)
	register(groups, http.MethodPut, "/:id", base, "update business group", "business-groups", groupHandler.Update)
	register(groups, http.MethodDelete, "/:id", base, "delete business group", "business-groups", groupHandler.Delete)

	companies := v1.Group("/companies")
	base = "/api/v1/companies"
	register(companies, http.MethodPost, "", base, "create company", "companies", companyHandler.Create)
	register(companies, http.MethodGet, "", base, "list companies", "companies", companyHandler.List)
	register(companies, http.MethodGet, "/:id", base, "get company", "companies", companyHandler.Get)
	register(companies, http.MethodPut, "/:id", base, "update company", "companies", companyHandler.Update)
	register(companies, http.MethodDelete, "/:id", base, "delete company", "companies", companyHandler.Delete)

	branches := v1.Group("/branches")
	base = "/api/v1/branches"
	register(branches, http.MethodPost, "", base, "create branch", "branches", branchHandler.Create)
	register(branches, http.MethodGet, "", base, "list branches", "branches", branchHandler.List)
	register(branches, http.MethodGet, "/:id", base, "get branch", "branches", branchHandler.Get)
	register(branches, http.MethodPut, "/:id", base, "update branch", "branches", branchHandler.Update)
	register(branches, http.MethodDelete, "/:id", base, "delete branch", "branches", branchHandler.Delete)

	departments := v1.Group("/departments")
	base = "/api/v1/departments"
	register(departments, http.MethodPost, "", base, "create department", "departments", deptHandler.Create)
	register(departments, http.MethodGet, "", base, "list departments", "departments", deptHandler.List)
	register(departments, http.MethodGet, "/:id", base, "get department", "departments", deptHandler.Get)
	register(departments, http.MethodPut, "/:id", base, "update department", "departments", deptHandler.Update)
	register(departments, http.MethodDelete, "/:id", base, "delete department", "departments", deptHandler.Delete)

	positions := v1.Group("/positions")
	base = "/api/v1/positions"
	register(positions, http.MethodPost, "", base, "create position", "positions", positionHandler.Create)
	register(positions, http.MethodGet, "", base, "list positions", "positions", positionHandler.List)
	register(positions, http.MethodGet, "/:id", base, "get position", "positions", positionHandler.Get)
	register(positions, http.MethodPut, "/:id", base, "update position", "positions", positionHandler.Update)
	register(positions, http.MethodDelete, "/:id", base, "delete position", "positions", positionHandler.Delete)

	employees := v1.Group("/employees")
	base = "/api/v1/employees"
	register(employees, http.MethodPost, "", base, "create employee", "employees", employeeHandler.Create)
	register(employees, http.MethodGet, "", base, "list employees", "employees", employeeHandler.List)
	register(employees, http.MethodGet, "/:id", base, "get employee", "employees", employeeHandler.Get)
	register(employees, http.MethodGet, "/:id/subordinates", base, "list subordinates", "employees", employeeHandler.Subordinates)
	register(employees, http.MethodPut, "/:id", base, "update employee", "employees", employeeHandler.Update)
	register(employees, http.MethodDelete, "/:id", base, "delete employee", "employees", employeeHandler.Delete)

	users := v1.Group("/users")
	base = "/api/v1/users"
	register(users, http.MethodPost, "", base, "create user", "users", userHandler.Create)
	register(users, http.MethodGet, "", base, "list users", "users", userHandler.List)
	register(users, http.MethodGet, "/:id", base, "get user", "users", userHandler.Get)
	register(users, http.MethodPut, "/:id", base, "update user", "users", userHandler.Update)
	register(users, http.MethodPut, "/:id/password", base, "change password", "users", userHandler.ChangePassword)
	register(users, http.MethodDelete, "/:id", base, "delete user", "users", userHandler.Delete)

	scopes := v1.Group("/user-scopes")
	base = "/api/v1/user-scopes"
	register(scopes, http.MethodPost, "", base, "assign scope", "user-scopes", scopeHandler.Create)
	register(scopes, http.MethodGet, "", base, "list scopes by user", "user-scopes", scopeHandler.ListByUser)
	register(scopes, http.MethodDelete, "/:id", base, "remove scope", "user-scopes", scopeHandler.Delete)

	perms := v1.Group("/user-permissions")
	base = "/api/v1/user-permissions"
	register(perms, http.MethodPost, "", base, "create grant", "user-permissions", permHandler.Create)
	register(perms, http.MethodGet, "", base, "list grants by user", "user-permissions", permHandler.ListByUser)
	register(perms, http.MethodPut, "/:id", base, "update grant", "user-permissions", permHandler.Update)
	register(perms, http.MethodDelete, "/:id", base, "delete grant", "user-permissions", permHandler.Delete)

	admin := v1.Group("/admin/permissions")
	base = "/api/v1/admin"
	register(admin, http.MethodGet, "/endpoints", base, "list endpoint catalog", "admin", adminHandler.Endpoints)
	register(admin, http.MethodGet, "/users/:id/grants", base, "get grant grid", "admin", adminHandler.Grants)
	register(admin, http.MethodPut, "/users/:id/grants", base, "replace grant grid", "admin", adminHandler.ReplaceGrants)

	return r
}
