package handler

import (
	"errors"
	"strconv"

	"license-activation-service/internal/activation"
	"license-activation-service/internal/model"
	"license-activation-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ActivationAPI adapts the query-string wire format to the activation
// protocol handler.
type ActivationAPI struct {
	handler *activation.Handler
	usage   *service.UsageService
}

func NewActivationAPI(h *activation.Handler, usage *service.UsageService) *ActivationAPI {
	return &ActivationAPI{handler: h, usage: usage}
}

// HandleRequest serves GET /api/v1/activations. Protocol failures are
// answered 200 with a failure envelope; the JSON body is the contract.
func (api *ActivationAPI) HandleRequest(c *fiber.Ctx) error {
	req := activation.Request{
		Type:         c.Query("request"),
		LicenseKey:   c.Query("license_key"),
		APIProductID: c.Query("api_product_id"),
		Instance:     c.Query("instance"),
		Email:        c.Query("email"),
	}

	c.Set("Cache-Control", "no-cache, must-revalidate, max-age=0")

	payload, err := api.handler.Handle(c.UserContext(), req)
	api.recordUsage(c, req, err)

	if err != nil {
		var apiErr *activation.Error
		if errors.As(err, &apiErr) {
			return c.JSON(fiber.Map{
				"success": false,
				"code":    apiErr.Code,
				"message": apiErr.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(payload)
}

func (api *ActivationAPI) recordUsage(c *fiber.Ctx, req activation.Request, err error) {
	if api.usage == nil {
		return
	}

	result := "success"
	var apiErr *activation.Error
	if errors.As(err, &apiErr) {
		result = "error " + strconv.Itoa(apiErr.Code)
	} else if err != nil {
		result = "error internal"
	}

	api.usage.Record(model.LicenseUsage{
		LicenseKey: activation.Sanitize(req.LicenseKey),
		Action:     activation.Sanitize(req.Type),
		Instance:   activation.Sanitize(req.Instance),
		Result:     result,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})
}
