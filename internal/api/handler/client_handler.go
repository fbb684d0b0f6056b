package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientdb/internal/api/dto"
	"github.com/martijn/clientdb/internal/core/domain"
	"github.com/martijn/clientdb/internal/core/repository"
)

type ClientHandler struct {
	clientRepo repository.ClientRepository
	logger     *slog.Logger
}

func NewClientHandler(clientRepo repository.ClientRepository, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	client := domain.NewClient(req.FirstName, req.Surname, req.Email)
	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "client created", "client_id", client.ID)
	c.JSON(http.StatusCreated, dto.ClientCreateResponse{ClientID: client.ID})
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	client, err := h.clientRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// FindClients handles GET /clients
func (h *ClientHandler) FindClients(c *gin.Context) {
	var query dto.SearchClientsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err.Error())
		return
	}

	ids, err := h.clientRepo.Find(c.Request.Context(), domain.ClientSearch{
		FirstName:   query.FirstName,
		Surname:     query.Surname,
		Email:       query.Email,
		PhoneNumber: query.PhoneNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientSearchResponse{ClientIDs: ids})
}

// UpdateClient handles PATCH /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	update := domain.ClientUpdate{
		FirstName: req.FirstName,
		Surname:   req.Surname,
		Email:     req.Email,
	}
	if err := h.clientRepo.Update(c.Request.Context(), id, update); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	if err := h.clientRepo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "client deleted", "client_id", id)
	c.Status(http.StatusNoContent)
}

// AddPhone handles POST /clients/:id/phones
func (h *ClientHandler) AddPhone(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var req dto.AddPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.clientRepo.AddPhone(c.Request.Context(), id, req.PhoneNumber); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// DeletePhone handles DELETE /clients/:id/phones/:number
func (h *ClientHandler) DeletePhone(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	if err := h.clientRepo.DeletePhone(c.Request.Context(), id, c.Param("number")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// fail maps repository errors onto HTTP statuses.
func (h *ClientHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUniqueViolation):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: "Email or phone number already registered",
			Code:    http.StatusConflict,
		})
	case errors.Is(err, domain.ErrReferentialViolation), errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Client not found: %s", c.Param("id")),
			Code:    http.StatusNotFound,
		})
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed", "err", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
}

func clientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Sprintf("Invalid client id: %s", c.Param("id")))
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func toClientResponse(client *domain.Client) dto.ClientResponse {
	phones := client.Phones
	if phones == nil {
		phones = []string{}
	}
	return dto.ClientResponse{
		ClientID:  client.ID,
		FirstName: client.FirstName,
		Surname:   client.Surname,
		Email:     client.Email,
		Phones:    phones,
	}
}
