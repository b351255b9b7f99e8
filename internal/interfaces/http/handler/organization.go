package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
	orgapp "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/organization"
	domainorg "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/dto"
)

// OrganizationHandler handles the master data endpoints: departments,
// projects, events and spending categories.
type OrganizationHandler struct {
	BaseHandler
	service *orgapp.Service
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service *orgapp.Service) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// CreateDepartmentRequest represents a request to create a department
type CreateDepartmentRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RenameDepartmentRequest represents a department rename
type RenameDepartmentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// DepartmentResponse represents a department in responses
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newDepartmentResponse(dept *domainorg.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        dept.ID.String(),
		Code:      dept.Code,
		Name:      dept.Name,
		CreatedAt: dept.CreatedAt,
		UpdatedAt: dept.UpdatedAt,
	}
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// ProjectResponse represents a project in responses
type ProjectResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProjectResponse(project *domainorg.Project) ProjectResponse {
	return ProjectResponse{
		ID:           project.ID.String(),
		Name:         project.Name,
		Description:  project.Description,
		DepartmentID: uuidPtrString(project.DepartmentID),
		CreatedAt:    project.CreatedAt,
	}
}

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// EventResponse represents an event in responses
type EventResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newEventResponse(event *domainorg.Event) EventResponse {
	return EventResponse{
		ID:           event.ID.String(),
		Name:         event.Name,
		StartDate:    event.StartDate.Format(dateLayout),
		EndDate:      event.EndDate.Format(dateLayout),
		DepartmentID: uuidPtrString(event.DepartmentID),
		CreatedAt:    event.CreatedAt,
	}
}

// CreateCategoryRequest represents a request to create a spending category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a spending category in responses
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func newCategoryResponse(category *domainorg.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
	}
}

// DependentsResponse reports the rows still referencing an entity
type DependentsResponse struct {
	Counts    approval.DependencyCounts `json:"counts"`
	Total     int64                     `json:"total"`
	Deletable bool                      `json:"deletable"`
}

func newDependentsResponse(counts approval.DependencyCounts) DependentsResponse {
	return DependentsResponse{
		Counts:    counts,
		Total:     counts.Total(),
		Deletable: counts.Total() == 0,
	}
}

// Departments

// CreateDepartment creates a department. Admin only.
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	dept, err := h.service.CreateDepartment(c.Request.Context(), getActor(c), req.Code, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newDepartmentResponse(dept))
}

// ListDepartments returns all departments
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]DepartmentResponse, len(departments))
	for i := range departments {
		out[i] = newDepartmentResponse(&departments[i])
	}
	h.Success(c, out)
}

// GetDepartment returns a department by ID
func (h *OrganizationHandler) GetDepartment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newDepartmentResponse(dept))
}

// RenameDepartment updates a department name. Admin only.
func (h *OrganizationHandler) RenameDepartment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	var req RenameDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	dept, err := h.service.RenameDepartment(c.Request.Context(), getActor(c), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newDepartmentResponse(dept))
}

// DepartmentDependents reports what still references a department
func (h *OrganizationHandler) DepartmentDependents(c *gin.Context) {
	h.dependents(c, approval.EntityDepartment)
}

// DeleteDepartment deletes a department when nothing references it.
// A refusal returns 409 with the counts.
func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	h.guardedDelete(c, func(id uuid.UUID) (approval.DependencyCounts, error) {
		return h.service.DeleteDepartment(c.Request.Context(), getActor(c), id)
	})
}

// Projects

// CreateProject creates a project. Admin only.
func (h *OrganizationHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	departmentID, err := parseUUIDPtr(req.DepartmentID)
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	project, err := h.service.CreateProject(c.Request.Context(), getActor(c), req.Name, req.Description, departmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newProjectResponse(project))
}

// ListProjects returns all projects
func (h *OrganizationHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = newProjectResponse(&projects[i])
	}
	h.Success(c, out)
}

// GetProject returns a project by ID
func (h *OrganizationHandler) GetProject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}
	project, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newProjectResponse(project))
}

// ProjectDependents reports what still references a project
func (h *OrganizationHandler) ProjectDependents(c *gin.Context) {
	h.dependents(c, approval.EntityProject)
}

// DeleteProject deletes a project when no requests reference it
func (h *OrganizationHandler) DeleteProject(c *gin.Context) {
	h.guardedDelete(c, func(id uuid.UUID) (approval.DependencyCounts, error) {
		return h.service.DeleteProject(c.Request.Context(), getActor(c), id)
	})
}

// Events

// CreateEvent creates an event. Admin only.
func (h *OrganizationHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := orgapp.CreateEventInput{Name: req.Name}
	var err error
	if input.DepartmentID, err = parseUUIDPtr(req.DepartmentID); err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}
	if input.StartDate, err = parseDate(req.StartDate); err != nil {
		h.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	if input.EndDate, err = parseDate(req.EndDate); err != nil {
		h.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), getActor(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newEventResponse(event))
}

// ListEvents returns all events
func (h *OrganizationHandler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = newEventResponse(&events[i])
	}
	h.Success(c, out)
}

// GetEvent returns an event by ID
func (h *OrganizationHandler) GetEvent(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid event ID format")
		return
	}
	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newEventResponse(event))
}

// EventDependents reports what still references an event
func (h *OrganizationHandler) EventDependents(c *gin.Context) {
	h.dependents(c, approval.EntityEvent)
}

// DeleteEvent deletes an event when no requests reference it
func (h *OrganizationHandler) DeleteEvent(c *gin.Context) {
	h.guardedDelete(c, func(id uuid.UUID) (approval.DependencyCounts, error) {
		return h.service.DeleteEvent(c.Request.Context(), getActor(c), id)
	})
}

// Categories

// CreateCategory creates a spending category. Admin only.
func (h *OrganizationHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), getActor(c), req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newCategoryResponse(category))
}

// ListCategories returns all spending categories
func (h *OrganizationHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = newCategoryResponse(&categories[i])
	}
	h.Success(c, out)
}

func (h *OrganizationHandler) dependents(c *gin.Context, entityType approval.EntityType) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}
	counts, err := h.service.Dependents(c.Request.Context(), entityType, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newDependentsResponse(counts))
}

func (h *OrganizationHandler) guardedDelete(c *gin.Context, del func(uuid.UUID) (approval.DependencyCounts, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}
	counts, err := del(id)
	if err != nil {
		// A dependency refusal carries the counts so the client can show
		// what blocks the delete.
		if errors.Is(err, orgapp.ErrHasDependents) {
			c.JSON(http.StatusConflict, dto.Response{
				Error: &dto.ErrorInfo{
					Code:      dto.ErrCodeHasDependents,
					Message:   orgapp.ErrHasDependents.Message,
					RequestID: getRequestID(c),
				},
				Data: newDependentsResponse(counts),
			})
			return
		}
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers master data routes
func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	departments := rg.Group("/departments")
	{
		departments.GET("", h.ListDepartments)
		departments.POST("", h.CreateDepartment)
		departments.GET("/:id", h.GetDepartment)
		departments.PUT("/:id", h.RenameDepartment)
		departments.GET("/:id/dependents", h.DepartmentDependents)
		departments.DELETE("/:id", h.DeleteDepartment)
	}

	projects := rg.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.GET("/:id/dependents", h.ProjectDependents)
		projects.DELETE("/:id", h.DeleteProject)
	}

	events := rg.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.POST("", h.CreateEvent)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/dependents", h.EventDependents)
		events.DELETE("/:id", h.DeleteEvent)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
	}
}
