package app

import (
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every module under /api/v1
func (c *Container) RegisterRoutes(app fiber.Router) {
	mw := c.IAM.AuthMiddleware
	api := app.Group("/api/v1")

	c.IAM.AuthHandlers.RegisterRoutes(api, mw)
	c.IAM.UserHandlers.RegisterRoutes(api, mw)
	logx.Info("✓ IAM routes registered")

	c.UnitHandlers.RegisterRoutes(api, mw)
	c.CollegeHandlers.RegisterRoutes(api, mw)
	c.ContactHandlers.RegisterRoutes(api, mw)
	c.DirectoryHandlers.RegisterRoutes(api, mw)
	logx.Info("✓ Organisation routes registered")

	c.CampHandlers.RegisterRoutes(api, mw)
	c.SelectionHandlers.RegisterRoutes(api, mw)
	c.DocumentHandlers.RegisterRoutes(api, mw)
	logx.Info("✓ Camp and selection routes registered")

	c.DashboardHandlers.RegisterRoutes(api, mw)
	logx.Info("✓ Dashboard routes registered")
}
