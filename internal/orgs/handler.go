package orgs

import (
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches organization routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/org/me", h.myOrganization)
	rg.GET("/org/users", h.listMembers)
	rg.POST("/org/invite", h.invite)
	rg.GET("/org/invites", h.listInvites)
	rg.POST("/org/accept-invite/:id", h.acceptInvite)
	rg.DELETE("/org/users/:id", h.removeMember)
	rg.PUT("/org/users/:id/admin", h.toggleOrgAdmin)
}

func (h *Handler) myOrganization(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	org, owner, err := h.Svc.MyOrganization(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToOrganizationResponse(org, owner))
}

func (h *Handler) listMembers(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	members, err := h.Svc.ListMembers(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	resp := make([]users.UserResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, users.ToResponse(member))
	}
	respond.OK(c, resp)
}

type inviteRequest struct {
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
}

func (h *Handler) invite(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	invite, err := h.Svc.Invite(c.Request.Context(), actor, req.Email, req.OrganizationID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toInvitationResponse(invite))
}

func (h *Handler) listInvites(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	invites, err := h.Svc.ListInvites(c.Request.Context(), actor)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	resp := make([]InvitationResponse, 0, len(invites))
	for _, invite := range invites {
		resp = append(resp, toInvitationResponse(invite))
	}
	respond.OK(c, resp)
}

func (h *Handler) acceptInvite(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	updated, err := h.Svc.AcceptInvite(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, users.ToResponse(updated))
}

func (h *Handler) removeMember(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	if err := h.Svc.RemoveMember(c.Request.Context(), actor, c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "user removed from organization"})
}

func (h *Handler) toggleOrgAdmin(c *gin.Context) {
	actor, _ := users.ActorFromContext(c)

	updated, err := h.Svc.ToggleOrgAdmin(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, users.ToResponse(updated))
}
