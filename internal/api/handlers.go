// Package api contains the HTTP handlers for the workflow search service.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"informatica-search/internal/config"
	"informatica-search/internal/logging"
	"informatica-search/internal/search"
	"informatica-search/internal/services"
	"informatica-search/pkg/models"
)

// Handler contains HTTP handlers for the REST API.
type Handler struct {
	cfg      config.Config
	indexing *services.IndexingService
	queries  *services.QueryService
	admin    *services.AdminService
	logger   *logging.Logger
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(cfg config.Config, indexing *services.IndexingService, queries *services.QueryService, admin *services.AdminService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{cfg: cfg, indexing: indexing, queries: queries, admin: admin, logger: logger}
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every route on router.
func RegisterHandlers(router EchoRouter, h *Handler) {
	router.GET("/health", h.HandleHealth)
	router.POST("/search-workflow", h.SearchWorkflow)
	router.POST("/debug-table", h.DebugTable)
	router.POST("/get-workflow-details", h.GetWorkflowDetails)
	router.GET("/test-blob", h.TestBlob)
	router.POST("/create-index", h.CreateIndex)
	router.POST("/process-xml", h.ProcessXML)
	router.POST("/debug-upload", h.DebugUpload)
	router.GET("/check-index", h.CheckIndex)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleHealth returns basic health status (always returns 200 OK)
// (GET /health)
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:  "healthy",
		Message: "Function app is running",
	})
}

type searchWorkflowRequest struct {
	WorkflowName string `json:"workflow_name" validate:"required"`
}

// SearchWorkflow runs a free-text query for a workflow name.
// (POST /search-workflow)
func (h *Handler) SearchWorkflow(c echo.Context) error {
	var req searchWorkflowRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.cfg.Search.ValidateIndex(); err != nil {
		return err
	}

	docs, err := h.queries.SearchWorkflows(c.Request().Context(), req.WorkflowName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]search.Document{"workflows": docs})
}

type debugTableRequest struct {
	TableName string `json:"table_name" validate:"required"`
}

// DebugTable searches documents of type "table".
// (POST /debug-table)
func (h *Handler) DebugTable(c echo.Context) error {
	var req debugTableRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.cfg.Search.ValidateIndex(); err != nil {
		return err
	}

	docs, err := h.queries.SearchTables(c.Request().Context(), req.TableName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]search.Document{"tables": docs})
}

type workflowDetailsRequest struct {
	WorkflowID string `json:"workflow_id" validate:"required"`
}

// GetWorkflowDetails returns the documents keyed by workflow_id.
// (POST /get-workflow-details)
func (h *Handler) GetWorkflowDetails(c echo.Context) error {
	var req workflowDetailsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.cfg.Search.ValidateIndex(); err != nil {
		return err
	}

	docs, err := h.queries.WorkflowDetails(c.Request().Context(), req.WorkflowID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]search.Document{"workflow_details": docs})
}

// BlobInfo describes one XML blob.
type BlobInfo struct {
	Name         string     `json:"name"`
	Size         int64      `json:"size"`
	LastModified *time.Time `json:"last_modified"`
	Type         string     `json:"type"`
}

// BlobListing is the /test-blob response.
type BlobListing struct {
	ContainerName string     `json:"container_name"`
	TotalFiles    int        `json:"total_files"`
	XMLFiles      []BlobInfo `json:"xml_files"`
}

// TestBlob lists the container to prove storage connectivity.
// (GET /test-blob)
func (h *Handler) TestBlob(c echo.Context) error {
	if err := h.cfg.Storage.Validate(); err != nil {
		return err
	}

	inv, err := h.indexing.Inventory(c.Request().Context())
	if err != nil {
		return err
	}

	out := BlobListing{
		ContainerName: inv.Container,
		TotalFiles:    inv.Total,
		XMLFiles:      make([]BlobInfo, 0, len(inv.XMLFiles)),
	}
	for _, b := range inv.XMLFiles {
		out.XMLFiles = append(out.XMLFiles, BlobInfo{
			Name:         b.Name,
			Size:         b.Size,
			LastModified: b.LastModified,
			Type:         "XML",
		})
	}
	return c.JSON(http.StatusOK, out)
}

// IndexCreated is the /create-index response.
type IndexCreated struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	IndexName string `json:"index_name"`
	Endpoint  string `json:"endpoint"`
}

// CreateIndex creates the workflow index.
// (POST /create-index)
func (h *Handler) CreateIndex(c echo.Context) error {
	if err := h.cfg.Search.Validate(); err != nil {
		return err
	}
	if err := h.admin.CreateIndex(c.Request().Context()); err != nil {
		return err
	}

	name := h.admin.IndexName()
	return c.JSON(http.StatusOK, IndexCreated{
		Status:    "success",
		Message:   fmt.Sprintf("Search index '%s' created successfully", name),
		IndexName: name,
		Endpoint:  h.admin.Endpoint(),
	})
}

// ProcessResult is the /process-xml response.
type ProcessResult struct {
	Status             string                 `json:"status"`
	Message            string                 `json:"message"`
	XMLFilesProcessed  int                    `json:"xml_files_processed"`
	XMLFilesFailed     []services.FileFailure `json:"xml_files_failed"`
	WorkflowsExtracted int                    `json:"workflows_extracted"`
	WorkflowsUploaded  int                    `json:"workflows_uploaded"`
	IndexName          string                 `json:"index_name"`
}

// ProcessXML indexes every XML blob in the container.
// (POST /process-xml)
func (h *Handler) ProcessXML(c echo.Context) error {
	if err := h.requireIndexing(); err != nil {
		return err
	}

	summary, err := h.indexing.ProcessXML(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProcessResult{
		Status:             "success",
		Message:            "XML processing completed",
		XMLFilesProcessed:  summary.FilesProcessed,
		XMLFilesFailed:     summary.FilesFailed,
		WorkflowsExtracted: summary.Extracted,
		WorkflowsUploaded:  summary.Uploaded,
		IndexName:          summary.IndexName,
	})
}

// DebugInfo carries the field lengths of a rejected probe document.
type DebugInfo struct {
	IDLength          int    `json:"id_length"`
	NameLength        int    `json:"name_length"`
	Type              string `json:"type"`
	DescriptionLength int    `json:"description_length"`
}

// DebugUploadResponse is the /debug-upload response; the populated fields
// depend on Status.
type DebugUploadResponse struct {
	Status            string     `json:"status"`
	Message           string     `json:"message,omitempty"`
	Error             string     `json:"error,omitempty"`
	WorkflowID        string     `json:"workflow_id"`
	WorkflowName      string     `json:"workflow_name,omitempty"`
	WorkflowType      string     `json:"workflow_type,omitempty"`
	DescriptionLength *int       `json:"description_length,omitempty"`
	DebugInfo         *DebugInfo `json:"debug_info,omitempty"`
}

// DebugUpload uploads a single normalized workflow and reports the outcome.
// (POST /debug-upload)
func (h *Handler) DebugUpload(c echo.Context) error {
	if err := h.requireIndexing(); err != nil {
		return err
	}

	res, err := h.indexing.DebugUpload(c.Request().Context())
	if err != nil {
		return err
	}

	doc := res.Document
	if res.Succeeded {
		descLen := models.Length(doc.Description)
		return c.JSON(http.StatusOK, DebugUploadResponse{
			Status:            "success",
			Message:           "Single workflow uploaded successfully",
			WorkflowID:        doc.ID,
			WorkflowName:      doc.Name,
			WorkflowType:      doc.Type,
			DescriptionLength: &descLen,
		})
	}
	return c.JSON(http.StatusOK, DebugUploadResponse{
		Status:     "failed",
		Error:      res.Error,
		WorkflowID: doc.ID,
		DebugInfo: &DebugInfo{
			IDLength:          models.Length(doc.ID),
			NameLength:        models.Length(doc.Name),
			Type:              doc.Type,
			DescriptionLength: models.Length(doc.Description),
		},
	})
}

// FieldInfo describes one live index field.
type FieldInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsKey        bool   `json:"is_key"`
	IsSearchable bool   `json:"is_searchable"`
	IsFilterable bool   `json:"is_filterable"`
	IsSortable   bool   `json:"is_sortable"`
}

// IndexSchema is the /check-index response.
type IndexSchema struct {
	IndexName   string      `json:"index_name"`
	TotalFields int         `json:"total_fields"`
	Fields      []FieldInfo `json:"fields"`
}

// CheckIndex reports the schema of the live index.
// (GET /check-index)
func (h *Handler) CheckIndex(c echo.Context) error {
	if err := h.cfg.Search.Validate(); err != nil {
		return err
	}

	def, err := h.admin.DescribeIndex(c.Request().Context())
	if err != nil {
		return err
	}

	fields := make([]FieldInfo, 0, len(def.Fields))
	for _, f := range def.Fields {
		fields = append(fields, FieldInfo{
			Name:         f.Name,
			Type:         f.Type,
			IsKey:        f.Key,
			IsSearchable: f.Searchable,
			IsFilterable: f.Filterable,
			IsSortable:   f.Sortable,
		})
	}
	return c.JSON(http.StatusOK, IndexSchema{
		IndexName:   h.admin.IndexName(),
		TotalFields: len(fields),
		Fields:      fields,
	})
}

func (h *Handler) requireIndexing() error {
	if err := h.cfg.Storage.Validate(); err != nil {
		return err
	}
	return h.cfg.Search.Validate()
}
