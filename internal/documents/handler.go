package documents

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/shared/server/respond"
	"lexibox-backend/internal/users"
)

// maxUploadBytes caps the accepted PDF size at 10 MB.
const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.remove)
	rg.GET("/search", h.search)
}

func (h *Handler) upload(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a PDF file is required in the 'file' field", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	doc, err := h.Svc.Upload(c.Request.Context(), actor, fileHeader.Filename, data)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, ToResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	docs, err := h.Svc.List(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "document deleted"})
}

func (h *Handler) search(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	docs, err := h.Svc.Search(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToResponses(docs))
}
