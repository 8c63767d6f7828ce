package handler

import (
	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

type createLeadRequest struct {
	Name           string     `json:"name" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          *string    `json:"phone"`
	Company        *string    `json:"company"`
	Status         string     `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost"`
	Source         *string    `json:"source"`
	EstimatedValue float64    `json:"estimated_value" validate:"gte=0"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	Notes          *string    `json:"notes"`
}

// updateLeadRequest is a partial update. Pointer fields are ignored when
// absent; Optional fields additionally distinguish explicit null, which
// clears the stored value.
type updateLeadRequest struct {
	Name           *string             `json:"name"`
	Email          *string             `json:"email" validate:"omitempty,email"`
	Status         *string             `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost"`
	EstimatedValue *float64            `json:"estimated_value" validate:"omitempty,gte=0"`
	Phone          Optional[string]    `json:"phone"`
	Company        Optional[string]    `json:"company"`
	Source         Optional[string]    `json:"source"`
	Notes          Optional[string]    `json:"notes"`
	AssignedTo     Optional[uuid.UUID] `json:"assigned_to"`
}

type listLeadsRequest struct {
	Status     string `query:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost"`
	AssignedTo string `query:"assigned_to" validate:"omitempty,uuid"`
	Search     string `query:"search"`
	SortBy     string `query:"sort_by"`
	SortOrder  string `query:"sort_order"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

type leadListResponse struct {
	Items      []domain.Lead `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}
