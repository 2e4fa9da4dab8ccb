package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type ReservationHandler struct {
	service ports.ReservationService
	pricing ports.PricingService
	log     *zap.Logger
}

func NewReservationHandler(service ports.ReservationService, pricing ports.PricingService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		pricing: pricing,
		log:     log,
	}
}

type createReservationBody struct {
	VehicleID       string    `json:"vehicle_id"`
	InsuranceTierID string    `json:"insurance_tier_id"`
	AddOnIDs        []string  `json:"add_on_ids"`
	PickupDate      time.Time `json:"pickup_date"`
	ReturnDate      time.Time `json:"return_date"`
}

func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var body createReservationBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	customerID, _ := c.Locals("user_id").(string)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	reservation, err := h.service.Create(c.Context(), &ports.CreateReservationRequest{
		CustomerID:      customerID,
		VehicleID:       body.VehicleID,
		InsuranceTierID: body.InsuranceTierID,
		AddOnIDs:        body.AddOnIDs,
		PickupDate:      body.PickupDate,
		ReturnDate:      body.ReturnDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reservation)
}

func (h *ReservationHandler) Quote(c *fiber.Ctx) error {
	var body createReservationBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	customerID, _ := c.Locals("user_id").(string)
	total, strategy, _, days, err := h.pricing.Quote(c.Context(), &ports.CreateReservationRequest{
		CustomerID:      customerID,
		VehicleID:       body.VehicleID,
		InsuranceTierID: body.InsuranceTierID,
		AddOnIDs:        body.AddOnIDs,
		PickupDate:      body.PickupDate,
		ReturnDate:      body.ReturnDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":       total,
		"strategy":    strategy,
		"rental_days": days,
	})
}

func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	reservation, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}

func (h *ReservationHandler) ListMine(c *fiber.Ctx) error {
	customerID, _ := c.Locals("user_id").(string)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	reservations, err := h.service.ListByCustomer(c.Context(), customerID, c.Query("status"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(reservations)
}

func (h *ReservationHandler) Approve(c *fiber.Ctx) error {
	agentID, _ := c.Locals("user_id").(string)
	reservation, err := h.service.Approve(c.Context(), c.Params("id"), agentID)
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}

type payBody struct {
	Method domain.PaymentMethod `json:"method"`
}

func (h *ReservationHandler) Pay(c *fiber.Ctx) error {
	var body payBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Method == "" {
		body.Method = domain.PaymentMethodCreditCard
	}

	reservation, err := h.service.ConfirmPayment(c.Context(), c.Params("id"), body.Method)
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}

type pickupBody struct {
	PickupToken string               `json:"pickup_token"`
	Reading     domain.RentalReading `json:"reading"`
}

func (h *ReservationHandler) Pickup(c *fiber.Ctx) error {
	var body pickupBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Reading.ReadAt.IsZero() {
		body.Reading.ReadAt = time.Now()
	}

	agentID, _ := c.Locals("user_id").(string)
	reservation, err := h.service.Pickup(c.Context(), c.Params("id"), agentID, body.PickupToken, body.Reading)
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}

type returnBody struct {
	Reading domain.RentalReading `json:"reading"`
}

func (h *ReservationHandler) Return(c *fiber.Ctx) error {
	var body returnBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Reading.ReadAt.IsZero() {
		body.Reading.ReadAt = time.Now()
	}

	agentID, _ := c.Locals("user_id").(string)
	result, err := h.service.Return(c.Context(), c.Params("id"), agentID, body.Reading)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reservation": result.Reservation,
		"charges":     result.Charges,
	})
}

type cancelBody struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	var body cancelBody
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor := domain.RoleCustomer
	if role, ok := c.Locals("user_role").(domain.ActorRole); ok {
		actor = role
	}

	reservation, err := h.service.Cancel(c.Context(), c.Params("id"), body.Reason, actor)
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}
