// Package access holds the single authorization policy for the service.
// Role checks live here rather than scattered across handlers, and every
// denial surfaces as a Forbidden error upstream; nothing silently no-ops.
package access

import "github.com/AIlhomov/Ticketing-System/internal/domain"

// Operation identifies an action subject to the policy table.
type Operation string

const (
	OpSubmitTicket     Operation = "submit_ticket"
	OpViewAnyTicket    Operation = "view_any_ticket"
	OpListAllTickets   Operation = "list_all_tickets"
	OpUpdateStatus     Operation = "update_status"
	OpClaimTicket      Operation = "claim_ticket"
	OpEditTicket       Operation = "edit_ticket"
	OpManageCategories Operation = "manage_categories"
	OpManageUsers      Operation = "manage_users"
	OpManageArticles   Operation = "manage_articles"
)

var policy = map[Operation]map[domain.Role]bool{
	OpSubmitTicket:     {domain.RoleUser: true, domain.RoleAgent: true, domain.RoleAdmin: true},
	OpViewAnyTicket:    {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpListAllTickets:   {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpUpdateStatus:     {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpClaimTicket:      {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpEditTicket:       {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpManageCategories: {domain.RoleAgent: true, domain.RoleAdmin: true},
	OpManageUsers:      {domain.RoleAdmin: true},
	OpManageArticles:   {domain.RoleAgent: true, domain.RoleAdmin: true},
}

// Allowed evaluates the policy table for a role and operation.
func Allowed(role domain.Role, op Operation) bool {
	return policy[op][role]
}

// CanViewTicket reports whether the viewer may read the given ticket. Staff
// see any ticket; a user sees only tickets they submitted.
func CanViewTicket(viewer *domain.User, ticket *domain.Ticket) bool {
	if viewer == nil || ticket == nil {
		return false
	}
	if Allowed(viewer.Role, OpViewAnyTicket) {
		return true
	}
	return ticket.UserID != nil && *ticket.UserID == viewer.ID
}

// CanComment reports whether the author may comment on the ticket: users on
// tickets they submitted, agents on tickets they have claimed, admins on any.
func CanComment(author *domain.User, ticket *domain.Ticket) bool {
	if author == nil || ticket == nil {
		return false
	}
	switch author.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return ticket.ClaimedBy != nil && *ticket.ClaimedBy == author.ID
	case domain.RoleUser:
		return ticket.UserID != nil && *ticket.UserID == author.ID
	}
	return false
}

// EditableFields describes which ticket fields an editor's role may change.
type EditableFields struct {
	TitleDescription bool
	Category         bool
}

// FieldsForRole returns the edit scope for a role. Agents may only move a
// ticket between categories; title and description stay admin-only.
func FieldsForRole(role domain.Role) EditableFields {
	switch role {
	case domain.RoleAdmin:
		return EditableFields{TitleDescription: true, Category: true}
	case domain.RoleAgent:
		return EditableFields{Category: true}
	}
	return EditableFields{}
}
