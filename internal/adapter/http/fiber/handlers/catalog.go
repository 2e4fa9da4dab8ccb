package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

// CatalogHandler exposes the pricing catalog: customers browse it when
// booking, managers maintain it.
type CatalogHandler struct {
	pricing ports.PricingService
	log     *zap.Logger
}

func NewCatalogHandler(pricing ports.PricingService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		pricing: pricing,
		log:     log,
	}
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	tiers, err := h.pricing.ListInsuranceTiers(c.Context())
	if err != nil {
		return err
	}
	addOns, err := h.pricing.ListAddOns(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"insurance_tiers": tiers,
		"add_ons":         addOns,
	})
}

func (h *CatalogHandler) CreateInsuranceTier(c *fiber.Ctx) error {
	var tier domain.InsuranceTier
	if err := c.BodyParser(&tier); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.pricing.CreateInsuranceTier(c.Context(), &tier)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CatalogHandler) CreateAddOn(c *fiber.Ctx) error {
	var addOn domain.AddOn
	if err := c.BodyParser(&addOn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.pricing.CreateAddOn(c.Context(), &addOn)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
