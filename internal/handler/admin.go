package handler

import (
	"time"

	"license-activation-service/internal/model"
	"license-activation-service/internal/service"
	"license-activation-service/internal/util"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminAPI is the read-only operator surface: login, license inspection,
// usage history and activation statistics.
type AdminAPI struct {
	db     *gorm.DB
	usage  *service.UsageService
	secret string
}

func NewAdminAPI(db *gorm.DB, usage *service.UsageService, jwtSecret string) *AdminAPI {
	return &AdminAPI{db: db, usage: usage, secret: jwtSecret}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (api *AdminAPI) HandleLogin(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	var user model.User
	result := api.db.Where("username = ?", input.Username).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid username or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid username or password",
		})
	}

	user.LastLogin = time.Now()
	api.db.Save(&user)

	token, err := util.GenerateToken(api.secret, user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "token generation failed",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// HandleGetLicense returns one license with its products and activations.
func (api *AdminAPI) HandleGetLicense(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "license key is required",
		})
	}

	var license model.License
	result := api.db.
		Preload("Products").
		Preload("Activations", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("key = ?", key).
		First(&license)
	if result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "license not found",
		})
	}

	return c.JSON(license)
}

// HandleLicenseUsage returns the last 20 usage rows for a license.
func (api *AdminAPI) HandleLicenseUsage(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "license key is required",
		})
	}

	usages, err := api.usage.ForLicense(key, 20)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to query usage records",
		})
	}

	return c.JSON(fiber.Map{
		"usages": usages,
	})
}

// HandleStatistics reports active activation counts per product.
func (api *AdminAPI) HandleStatistics(c *fiber.Ctx) error {
	stats, err := api.usage.ActiveByProduct()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute statistics",
		})
	}

	return c.JSON(fiber.Map{
		"products": stats,
	})
}
