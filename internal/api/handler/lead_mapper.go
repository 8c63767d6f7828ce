package handler

import (
	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

func toCreateLeadInput(req createLeadRequest) ports.CreateLeadInput {
	return ports.CreateLeadInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		Status:         domain.LeadStatus(req.Status),
		Source:         req.Source,
		EstimatedValue: req.EstimatedValue,
		AssignedTo:     req.AssignedTo,
		Notes:          req.Notes,
	}
}

func toUpdateLeadInput(req updateLeadRequest) ports.UpdateLeadInput {
	input := ports.UpdateLeadInput{
		Name:           req.Name,
		Email:          req.Email,
		EstimatedValue: req.EstimatedValue,
		Phone:          req.Phone.Nullable(),
		Company:        req.Company.Nullable(),
		Source:         req.Source.Nullable(),
		Notes:          req.Notes.Nullable(),
		AssignedTo:     req.AssignedTo.Nullable(),
	}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		input.Status = &status
	}
	return input
}

func toListLeadsFilter(req listLeadsRequest) ports.ListLeadsFilter {
	filter := ports.ListLeadsFilter{
		Status:    domain.LeadStatus(req.Status),
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		Limit:     req.Limit,
	}
	if req.AssignedTo != "" {
		if id, err := uuid.Parse(req.AssignedTo); err == nil {
			filter.AssignedTo = &id
		}
	}
	return filter
}
