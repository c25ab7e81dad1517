package ticket_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ticket-api/internal/logger"
	"ticket-api/internal/models"
	"ticket-api/internal/tickets/qr"
	tickets "ticket-api/internal/tickets/service"
	"ticket-api/internal/utils"
)

const (
	TicketCreatedMessage = "Ticket created successfully"

	msgInvalidBody   = "Invalid request body"
	msgMissingFields = "Missing required ticket fields"
	msgNoTickets     = "No ticket found"
	msgNotFound      = "Ticket not found"
	msgInternal      = "Internal server error"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	TicketService *tickets.TicketService
	QRGenerator   *qr.QRGenerator
	Logger        *logger.Logger
}

func NewHandler(ticketService *tickets.TicketService, log *logger.Logger) *Handler {
	return &Handler{
		TicketService: ticketService,
		QRGenerator:   qr.NewQRGenerator(qr.DefaultSize),
		Logger:        log,
	}
}

// RegisterRoutes mounts the ticket routes on r. Authentication is the caller's job.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", h.CreateTicket)
		r.Get("/", h.ListTickets)
		r.Get("/{id}", h.GetTicket)
		r.Get("/{id}/qr", h.GetTicketQR)
	})
}

// CreateTicket handles POST /tickets.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.TicketCreateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.Logger.Debug("API", fmt.Sprintf("CreateTicket: invalid body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ticket, err := h.TicketService.SubmitTicket(r.Context(), req)
	if errors.Is(err, tickets.ErrMissingFields) {
		utils.WriteError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err != nil {
		h.internalError(w, "CreateTicket", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, models.TicketResponse{
		Message: TicketCreatedMessage,
		Ticket:  ticket,
	})
}

// ListTickets handles GET /tickets?name=&email=.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	query := models.TicketQuery{
		Name:  r.URL.Query().Get("name"),
		Email: r.URL.Query().Get("email"),
	}

	result, err := h.TicketService.ListTickets(r.Context(), query)
	if errors.Is(err, tickets.ErrNoTicketsFound) {
		utils.WriteError(w, http.StatusNotFound, msgNoTickets)
		return
	}
	if err != nil {
		h.internalError(w, "ListTickets", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// GetTicket handles GET /tickets/{id}.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.lookup(w, r, "GetTicket")
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

// GetTicketQR handles GET /tickets/{id}/qr and returns a PNG.
func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.lookup(w, r, "GetTicketQR")
	if !ok {
		return
	}

	png, err := h.QRGenerator.GeneratePNG(*ticket)
	if err != nil {
		h.internalError(w, "GetTicketQR", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, op string) (*models.Ticket, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), id)
	if errors.Is(err, tickets.ErrTicketNotFound) {
		utils.WriteError(w, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	if err != nil {
		h.internalError(w, op, err)
		return nil, false
	}
	return ticket, true
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	utils.WriteError(w, http.StatusInternalServerError, msgInternal)
}
