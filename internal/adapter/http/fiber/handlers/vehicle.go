package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type VehicleHandler struct {
	service ports.VehicleService
	log     *zap.Logger
}

func NewVehicleHandler(service ports.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log,
	}
}

func (h *VehicleHandler) List(c *fiber.Ctx) error {
	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	vehicles, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(vehicles)
}

func (h *VehicleHandler) Get(c *fiber.Ctx) error {
	vehicle, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(vehicle)
}

func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var vehicle domain.Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.service.Create(c.Context(), &vehicle)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type maintenanceBody struct {
	Description string `json:"description"`
}

func (h *VehicleHandler) AddMaintenanceRecord(c *fiber.Ctx) error {
	var body maintenanceBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description is required"})
	}

	agentID, _ := c.Locals("user_id").(string)
	record, err := h.service.AddMaintenanceRecord(c.Context(), c.Params("id"), agentID, body.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *VehicleHandler) ApproveMaintenance(c *fiber.Ctx) error {
	managerID, _ := c.Locals("user_id").(string)
	vehicle, err := h.service.ApproveMaintenance(c.Context(), c.Params("id"), c.Params("recordId"), managerID)
	if err != nil {
		return err
	}
	return c.JSON(vehicle)
}
