package admin

import (
	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/documents"
	"lexibox-backend/internal/orgs"
	"lexibox-backend/internal/shared/server/respond"
	"lexibox-backend/internal/users"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches admin routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/users", h.listUsers)
	rg.GET("/admin/documents", h.listDocuments)
	rg.GET("/admin/stats", h.stats)
	rg.PUT("/admin/users/:id/admin", h.toggleAdmin)
	rg.DELETE("/admin/users/:id", h.deleteUser)
	rg.GET("/admin/organizations", h.listOrganizations)
	rg.DELETE("/admin/organizations/:id", h.deleteOrganization)
}

func (h *Handler) listUsers(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	all, err := h.Svc.ListUsers(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	resp := make([]users.UserResponse, 0, len(all))
	for _, user := range all {
		resp = append(resp, users.ToResponse(user))
	}
	respond.OK(c, resp)
}

func (h *Handler) listDocuments(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	docs, err := h.Svc.ListDocuments(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, documents.ToResponses(docs))
}

func (h *Handler) stats(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	stats, err := h.Svc.GetStats(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) toggleAdmin(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	updated, err := h.Svc.ToggleAdmin(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, users.ToResponse(updated))
}

func (h *Handler) deleteUser(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	if err := h.Svc.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "user deleted"})
}

func (h *Handler) listOrganizations(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	all, err := h.Svc.ListOrganizations(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	resp := make([]orgs.OrganizationResponse, 0, len(all))
	for _, org := range all {
		resp = append(resp, orgs.ToOrganizationResponse(org, nil))
	}
	respond.OK(c, resp)
}

func (h *Handler) deleteOrganization(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	if err := h.Svc.DeleteOrganization(c.Request.Context(), actor, c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "organization deleted"})
}
