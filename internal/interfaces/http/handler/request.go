package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// RequestHandler handles expense and invoice payment request endpoints
type RequestHandler struct {
	BaseHandler
	requests *approval.RequestService
	feed     *approval.FeedService
	receipts *approval.ReceiptService

	// maxReceiptSize bounds the receipt payload read into memory
	maxReceiptSize int64
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(
	requests *approval.RequestService,
	feed *approval.FeedService,
	receipts *approval.ReceiptService,
	maxReceiptSize int64,
) *RequestHandler {
	if maxReceiptSize <= 0 {
		maxReceiptSize = 10 << 20
	}
	return &RequestHandler{
		requests:       requests,
		feed:           feed,
		receipts:       receipts,
		maxReceiptSize: maxReceiptSize,
	}
}

// CreateExpenseRequest represents a request to create an expense request
type CreateExpenseRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required,max=500"`
	CategoryID    string          `json:"category_id" binding:"required,uuid"`
	DepartmentID  *string         `json:"department_id" binding:"omitempty,uuid"`
	ProjectID     *string         `json:"project_id" binding:"omitempty,uuid"`
	EventID       *string         `json:"event_id" binding:"omitempty,uuid"`
	ExpenseDate   string          `json:"expense_date" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Submit        bool            `json:"submit"`
}

// CreateInvoiceRequest represents a request to create an invoice payment request
type CreateInvoiceRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description" binding:"required,max=500"`
	CategoryID   string          `json:"category_id" binding:"required,uuid"`
	DepartmentID *string         `json:"department_id" binding:"omitempty,uuid"`
	ProjectID    *string         `json:"project_id" binding:"omitempty,uuid"`
	EventID      *string         `json:"event_id" binding:"omitempty,uuid"`
	InvoiceDate  string          `json:"invoice_date" binding:"required"`
	DueDate      string          `json:"due_date" binding:"required"`
	VendorName   string          `json:"vendor_name" binding:"required,max=200"`
	Submit       bool            `json:"submit"`
}

// UpdateRequestContent represents an edit of a pending request's content
type UpdateRequestContent struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	CategoryID  string          `json:"category_id" binding:"required,uuid"`

	ExpenseDate   *string `json:"expense_date"`
	PaymentMethod *string `json:"payment_method"`

	InvoiceDate *string `json:"invoice_date"`
	DueDate     *string `json:"due_date"`
	VendorName  *string `json:"vendor_name" binding:"omitempty,max=200"`
}

// TransitionRequest represents a lifecycle action on a request
type TransitionRequest struct {
	Action string `json:"action" binding:"required,oneof=submit approve reject pay"`
}

// ReceiptInfo represents a stored receipt in responses
type ReceiptInfo struct {
	StorageKey string    `json:"storage_key"`
	ViewURL    string    `json:"view_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// RequestResponse represents either request variant in responses
type RequestResponse struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	RequesterID  string       `json:"requester_id"`
	Amount       string       `json:"amount"`
	Description  string       `json:"description"`
	CategoryID   string       `json:"category_id"`
	DepartmentID *string      `json:"department_id,omitempty"`
	ProjectID    *string      `json:"project_id,omitempty"`
	EventID      *string      `json:"event_id,omitempty"`
	Status       string       `json:"status"`
	Receipt      *ReceiptInfo `json:"receipt,omitempty"`

	ExpenseDate   string `json:"expense_date,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`

	InvoiceDate string `json:"invoice_date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	VendorName  string `json:"vendor_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newRequestResponse(req request.Request) RequestResponse {
	core := req.RequestCore()
	resp := RequestResponse{
		ID:           core.ID.String(),
		Type:         req.RequestKind().String(),
		RequesterID:  core.RequesterID.String(),
		Amount:       core.Amount.String(),
		Description:  core.Description,
		CategoryID:   core.CategoryID.String(),
		DepartmentID: uuidPtrString(core.DepartmentID),
		ProjectID:    uuidPtrString(core.ProjectID),
		EventID:      uuidPtrString(core.EventID),
		Status:       core.Status.String(),
		CreatedAt:    core.CreatedAt,
		UpdatedAt:    core.UpdatedAt,
	}
	if core.Receipt != nil {
		resp.Receipt = &ReceiptInfo{
			StorageKey: core.Receipt.StorageKey,
			ViewURL:    core.Receipt.ViewURL,
			UploadedAt: core.Receipt.UploadedAt,
		}
	}

	switch v := req.(type) {
	case *request.ExpenseRequest:
		resp.ExpenseDate = v.ExpenseDate.Format(dateLayout)
		resp.PaymentMethod = v.PaymentMethod.String()
	case *request.InvoiceRequest:
		resp.InvoiceDate = v.InvoiceDate.Format(dateLayout)
		resp.DueDate = v.DueDate.Format(dateLayout)
		resp.VendorName = v.VendorName
	}
	return resp
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseUUIDPtr(value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateExpense creates an expense request for the authenticated user
func (h *RequestHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := approval.CreateExpenseInput{
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: request.PaymentMethod(req.PaymentMethod),
		Submit:        req.Submit,
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}
	input.CategoryID = categoryID

	if input.DepartmentID, err = parseUUIDPtr(req.DepartmentID); err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	if input.ProjectID, err = parseUUIDPtr(req.ProjectID); err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}
	if input.EventID, err = parseUUIDPtr(req.EventID); err != nil {
		h.BadRequest(c, "Invalid event ID format")
		return
	}
	if input.ExpenseDate, err = parseDate(req.ExpenseDate); err != nil {
		h.BadRequest(c, "Invalid expense date, expected YYYY-MM-DD")
		return
	}

	created, err := h.requests.CreateExpense(c.Request.Context(), getActor(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newRequestResponse(created))
}

// CreateInvoice creates an invoice payment request for the authenticated user
func (h *RequestHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := approval.CreateInvoiceInput{
		Amount:      req.Amount,
		Description: req.Description,
		VendorName:  req.VendorName,
		Submit:      req.Submit,
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}
	input.CategoryID = categoryID

	if input.DepartmentID, err = parseUUIDPtr(req.DepartmentID); err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	if input.ProjectID, err = parseUUIDPtr(req.ProjectID); err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}
	if input.EventID, err = parseUUIDPtr(req.EventID); err != nil {
		h.BadRequest(c, "Invalid event ID format")
		return
	}
	if input.InvoiceDate, err = parseDate(req.InvoiceDate); err != nil {
		h.BadRequest(c, "Invalid invoice date, expected YYYY-MM-DD")
		return
	}
	if input.DueDate, err = parseDate(req.DueDate); err != nil {
		h.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	created, err := h.requests.CreateInvoice(c.Request.Context(), getActor(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newRequestResponse(created))
}

// Get returns a single request of either kind
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newRequestResponse(req))
}

// Update edits the content of a pending request. Owner only.
func (h *RequestHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req UpdateRequestContent
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	input := approval.UpdateContentInput{
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  categoryID,
		VendorName:  req.VendorName,
	}

	if req.ExpenseDate != nil {
		date, err := parseDate(*req.ExpenseDate)
		if err != nil {
			h.BadRequest(c, "Invalid expense date, expected YYYY-MM-DD")
			return
		}
		input.ExpenseDate = &date
	}
	if req.PaymentMethod != nil {
		method := request.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}
	if req.InvoiceDate != nil {
		date, err := parseDate(*req.InvoiceDate)
		if err != nil {
			h.BadRequest(c, "Invalid invoice date, expected YYYY-MM-DD")
			return
		}
		input.InvoiceDate = &date
	}
	if req.DueDate != nil {
		date, err := parseDate(*req.DueDate)
		if err != nil {
			h.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &date
	}

	updated, err := h.requests.UpdateContent(c.Request.Context(), getActor(c), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newRequestResponse(updated))
}

// Transition applies a lifecycle action (submit, approve, reject, pay)
func (h *RequestHandler) Transition(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	updated, err := h.requests.Transition(c.Request.Context(), getActor(c), id, request.Action(req.Action))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newRequestResponse(updated))
}

// Delete removes a pending request. Owner only.
func (h *RequestHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	if err := h.requests.Delete(c.Request.Context(), getActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns the combined feed of both request kinds, newest first.
// Pagination happens after the merge; the merged order is not something
// either backing table can page over on its own.
func (h *RequestHandler) List(c *gin.Context) {
	filter, kind, err := parseListQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, err := parsePageQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.feed.ListCombined(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if kind != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.Kind == kind {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	total := int64(len(entries))
	start := page.Offset()
	if start > len(entries) {
		start = len(entries)
	}
	end := start + page.PageSize
	if end > len(entries) {
		end = len(entries)
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(entries[start:end], total, page.Page, page.PageSize))
}

// Summary returns one-pass aggregate counts over the filtered feed
func (h *RequestHandler) Summary(c *gin.Context) {
	filter, kind, err := parseListQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.feed.ListCombined(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if kind != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.Kind == kind {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	h.Success(c, h.feed.Summarize(entries))
}

// SyncReceipt uploads a receipt for a request. Repeated calls are
// idempotent; ?reupload=1 forces replacement.
func (h *RequestHandler) SyncReceipt(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Receipt file is required")
		return
	}
	if fileHeader.Size > h.maxReceiptSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeInvalidInput, "Receipt file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Could not read receipt file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxReceiptSize+1))
	if err != nil {
		h.InternalError(c, "Could not read receipt file")
		return
	}
	if int64(len(data)) > h.maxReceiptSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeInvalidInput, "Receipt file is too large")
		return
	}

	reupload := c.Query("reupload") == "1" || c.Query("reupload") == "true"
	contentType := fileHeader.Header.Get("Content-Type")

	result, err := h.receipts.SyncReceipt(c.Request.Context(), id, data, contentType, reupload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// parseListQuery builds the feed filter from query parameters. The type
// filter is applied after merging since the repositories are per-kind.
func parseListQuery(c *gin.Context) (request.ListFilter, request.Kind, error) {
	var filter request.ListFilter
	var kind request.Kind

	if value := c.Query("status"); value != "" {
		status := request.Status(value)
		if !status.IsValid() {
			return filter, kind, errInvalidQuery("status")
		}
		filter.Status = &status
	}
	if value := c.Query("type"); value != "" {
		k := request.Kind(value)
		if !k.IsValid() {
			return filter, kind, errInvalidQuery("type")
		}
		kind = k
	}
	if value := c.Query("requester_id"); value != "" {
		id, err := uuid.Parse(value)
		if err != nil {
			return filter, kind, errInvalidQuery("requester_id")
		}
		filter.RequesterID = &id
	}
	if value := c.Query("department_id"); value != "" {
		id, err := uuid.Parse(value)
		if err != nil {
			return filter, kind, errInvalidQuery("department_id")
		}
		filter.DepartmentID = &id
	}
	if value := c.Query("event_id"); value != "" {
		id, err := uuid.Parse(value)
		if err != nil {
			return filter, kind, errInvalidQuery("event_id")
		}
		filter.EventID = &id
	}
	if value := c.Query("from"); value != "" {
		date, err := parseDate(value)
		if err != nil {
			return filter, kind, errInvalidQuery("from")
		}
		filter.FromDate = &date
	}
	if value := c.Query("to"); value != "" {
		date, err := parseDate(value)
		if err != nil {
			return filter, kind, errInvalidQuery("to")
		}
		filter.ToDate = &date
	}
	return filter, kind, nil
}

// parsePageQuery builds pagination parameters, clamping page size to 100
func parsePageQuery(c *gin.Context) (shared.Filter, error) {
	page := shared.DefaultFilter()
	if value := c.Query("page"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return page, errInvalidQuery("page")
		}
		page.Page = n
	}
	if value := c.Query("page_size"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return page, errInvalidQuery("page_size")
		}
		page.PageSize = n
	}
	return page, nil
}

type queryError string

func errInvalidQuery(param string) error {
	return queryError("Invalid query parameter: " + param)
}

func (e queryError) Error() string { return string(e) }

// RegisterRoutes registers request routes
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	{
		requests.GET("", h.List)
		requests.GET("/summary", h.Summary)
		requests.POST("/expenses", h.CreateExpense)
		requests.POST("/invoices", h.CreateInvoice)
		requests.GET("/:id", h.Get)
		requests.PUT("/:id", h.Update)
		requests.DELETE("/:id", h.Delete)
		requests.POST("/:id/transitions", h.Transition)
		requests.POST("/:id/receipt", h.SyncReceipt)
	}
}
