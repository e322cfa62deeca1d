package iamcontainer

import (
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/iam/user/userapi"
	"github.com/Abraxas-365/nccerp/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/nccerp/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/jmoiron/sqlx"
)

// Deps are the external dependencies of the IAM module.
type Deps struct {
	DB  *sqlx.DB
	Cfg *config.Config
}

// Container is the public surface of the IAM module.
type Container struct {
	UserRepo     user.UserRepository
	UserService  *usersrv.UserService
	TokenService auth.TokenService
	Audit        auth.AuditService

	AuthHandlers *auth.AuthHandlers
	UserHandlers *userapi.UserHandlers

	AuthMiddleware *auth.TokenMiddleware
}

// New wires repos, then services, then handlers and middleware.
func New(deps Deps) *Container {
	logx.Info("🔧 Initializing IAM container...")

	c := &Container{}

	c.UserRepo = userinfra.NewPostgresUserRepository(deps.DB)
	hasher := authinfra.NewBcryptPasswordService(deps.Cfg.Auth.BcryptCost)
	c.TokenService = auth.NewJWTServiceFromConfig(&deps.Cfg.Auth)
	c.Audit = authinfra.NewLogxAuditService()

	c.UserService = usersrv.NewUserService(c.UserRepo, hasher, c.Audit)

	c.AuthHandlers = auth.NewAuthHandlers(auth.NewAuthenticator(c.UserRepo, hasher, c.TokenService, c.Audit))
	c.UserHandlers = userapi.NewUserHandlers(c.UserService)

	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)

	logx.Info("✅ IAM container initialized")
	return c
}
