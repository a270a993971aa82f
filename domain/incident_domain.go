package domain

import (
	"errors"
	"time"
)

const (
	IncidentStatusOpen               = "Open"
	IncidentStatusUnderInvestigation = "Under Investigation"
	IncidentStatusResolved           = "Resolved"
	IncidentStatusClosed             = "Closed"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"

	RecentIncidentsLimit = 5
)

var (
	MessageSuccessCreateIncident = "incident created successfully"
	MessageSuccessGetIncidents   = "incidents retrieved successfully"
	MessageSuccessUpdateIncident = "incident updated successfully"
	MessageSuccessIncidentStats  = "incident statistics retrieved successfully"

	MessageFailedCreateIncident = "failed to create incident"
	MessageFailedGetIncidents   = "failed to retrieve incidents"
	MessageFailedUpdateIncident = "failed to update incident"
	MessageFailedIncidentStats  = "failed to retrieve incident statistics"

	ErrIncidentNotFound      = errors.New("incident not found")
	ErrAssigneeNotFound      = errors.New("assignee not found")
	ErrInvalidIncidentStatus = errors.New("invalid incident status")

	IncidentStatuses = []string{
		IncidentStatusOpen,
		IncidentStatusUnderInvestigation,
		IncidentStatusResolved,
		IncidentStatusClosed,
	}
)

type (
	CreateIncidentRequest struct {
		Product     string `json:"product" validate:"required"`
		Company     string `json:"company" validate:"required"`
		Description string `json:"description" validate:"required"`
		Priority    string `json:"priority" validate:"omitempty,oneof=High Medium Low"`
		Category    string `json:"category" validate:"required"`
	}

	UpdateIncidentRequest struct {
		Priority       string   `json:"priority" validate:"omitempty,oneof=High Medium Low"`
		AssignedTo     string   `json:"assigned_to" validate:"omitempty,uuid"`
		ResolutionTime *float64 `json:"resolution_time" validate:"omitempty,min=0"`
	}

	UpdateIncidentStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=Open 'Under Investigation' Resolved Closed"`
	}

	UserSummary struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Company  string `json:"company,omitempty"`
	}

	IncidentResponse struct {
		ID             string       `json:"id"`
		ComplaintID    string       `json:"complaint_id,omitempty"`
		Product        string       `json:"product"`
		Company        string       `json:"company"`
		Description    string       `json:"description"`
		Priority       string       `json:"priority"`
		Status         string       `json:"status"`
		Category       string       `json:"category"`
		ReportedBy     string       `json:"reported_by"`
		Reporter       *UserSummary `json:"reporter,omitempty"`
		AssignedTo     string       `json:"assigned_to,omitempty"`
		Assignee       *UserSummary `json:"assignee,omitempty"`
		ResolutionTime *float64     `json:"resolution_time,omitempty"`
		CreatedAt      time.Time    `json:"created_at"`
		UpdatedAt      time.Time    `json:"updated_at"`
	}

	IncidentOverallStats struct {
		Total        int64 `json:"total"`
		Resolved     int64 `json:"resolved"`
		HighPriority int64 `json:"high_priority"`
	}

	CategoryCount struct {
		Category string `json:"category"`
		Count    int64  `json:"count"`
	}

	IncidentStatsResponse struct {
		Overall    IncidentOverallStats `json:"overall"`
		Categories []CategoryCount      `json:"categories"`
	}
)
