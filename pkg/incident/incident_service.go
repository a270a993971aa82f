package incident

import (
	"context"
	"errors"
	"slices"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/mailing"
	"foodsafety-backend/internal/utils/metrics"
	"foodsafety-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IncidentService interface {
		CreateIncident(ctx context.Context, userID string, req domain.CreateIncidentRequest) (domain.IncidentResponse, error)
		GetIncidents(ctx context.Context, filter IncidentFilter) ([]domain.IncidentResponse, int64, error)
		GetRecentIncidents(ctx context.Context) ([]domain.IncidentResponse, error)
		GetIncidentByID(ctx context.Context, id string) (domain.IncidentResponse, error)
		UpdateIncident(ctx context.Context, id string, req domain.UpdateIncidentRequest) (domain.IncidentResponse, error)
		UpdateStatus(ctx context.Context, id string, req domain.UpdateIncidentStatusRequest) (domain.IncidentResponse, error)
		GetStats(ctx context.Context) (domain.IncidentStatsResponse, error)
	}

	incidentService struct {
		incidentRepository IncidentRepository
		userRepository     user.UserRepository
		mailer             mailing.Mailer
		log                *logger.Logger
	}
)

func NewIncidentService(incidentRepository IncidentRepository, userRepository user.UserRepository, mailer mailing.Mailer, log *logger.Logger) IncidentService {
	return &incidentService{
		incidentRepository: incidentRepository,
		userRepository:     userRepository,
		mailer:             mailer,
		log:                log.With("service", "IncidentService"),
	}
}

func (s *incidentService) CreateIncident(ctx context.Context, userID string, req domain.CreateIncidentRequest) (domain.IncidentResponse, error) {
	reporter, err := uuid.Parse(userID)
	if err != nil {
		return domain.IncidentResponse{}, domain.ErrParseUUID
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	incident := &entities.Incident{
		Product:     req.Product,
		Company:     req.Company,
		Description: req.Description,
		Priority:    priority,
		Status:      domain.IncidentStatusOpen,
		Category:    req.Category,
		ReportedBy:  reporter,
	}

	if err := s.incidentRepository.CreateIncident(ctx, incident); err != nil {
		return domain.IncidentResponse{}, err
	}

	return ToIncidentResponse(incident), nil
}

func (s *incidentService) GetIncidents(ctx context.Context, filter IncidentFilter) ([]domain.IncidentResponse, int64, error) {
	incidents, count, err := s.incidentRepository.GetIncidents(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toIncidentResponses(incidents), count, nil
}

func (s *incidentService) GetRecentIncidents(ctx context.Context) ([]domain.IncidentResponse, error) {
	incidents, err := s.incidentRepository.GetRecentIncidents(ctx, domain.RecentIncidentsLimit)
	if err != nil {
		return nil, err
	}
	return toIncidentResponses(incidents), nil
}

func (s *incidentService) GetIncidentByID(ctx context.Context, id string) (domain.IncidentResponse, error) {
	incident, err := s.getIncident(ctx, id)
	if err != nil {
		return domain.IncidentResponse{}, err
	}
	return ToIncidentResponse(incident), nil
}

// UpdateIncident changes priority, assignment and resolution time. Status is
// only changed through UpdateStatus.
func (s *incidentService) UpdateIncident(ctx context.Context, id string, req domain.UpdateIncidentRequest) (domain.IncidentResponse, error) {
	incident, err := s.getIncident(ctx, id)
	if err != nil {
		return domain.IncidentResponse{}, err
	}

	if req.Priority != "" {
		incident.Priority = req.Priority
	}
	if req.ResolutionTime != nil {
		incident.ResolutionTime = req.ResolutionTime
	}

	var newAssignee *entities.User
	if req.AssignedTo != "" {
		assignee, err := s.userRepository.GetUserByID(ctx, req.AssignedTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.IncidentResponse{}, domain.ErrAssigneeNotFound
			}
			return domain.IncidentResponse{}, err
		}
		if incident.AssignedTo == nil || *incident.AssignedTo != assignee.ID {
			newAssignee = assignee
		}
		incident.AssignedTo = &assignee.ID
		incident.Assignee = assignee
	}

	if err := s.incidentRepository.UpdateIncident(ctx, incident); err != nil {
		return domain.IncidentResponse{}, err
	}

	if newAssignee != nil {
		s.notifyAssignee(newAssignee, incident)
	}

	return ToIncidentResponse(incident), nil
}

func (s *incidentService) UpdateStatus(ctx context.Context, id string, req domain.UpdateIncidentStatusRequest) (domain.IncidentResponse, error) {
	incident, err := s.getIncident(ctx, id)
	if err != nil {
		return domain.IncidentResponse{}, err
	}

	// Any of the four statuses may be set from any other.
	if !slices.Contains(domain.IncidentStatuses, req.Status) {
		metrics.StatusTransitions.WithLabelValues("incident", req.Status, "rejected").Inc()
		return domain.IncidentResponse{}, domain.ErrInvalidIncidentStatus
	}
	if incident.Status == req.Status {
		return ToIncidentResponse(incident), nil
	}

	if err := s.incidentRepository.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IncidentResponse{}, domain.ErrIncidentNotFound
		}
		return domain.IncidentResponse{}, err
	}
	metrics.StatusTransitions.WithLabelValues("incident", req.Status, "applied").Inc()

	incident.Status = req.Status
	return ToIncidentResponse(incident), nil
}

func (s *incidentService) GetStats(ctx context.Context) (domain.IncidentStatsResponse, error) {
	overall, err := s.incidentRepository.GetOverallStats(ctx)
	if err != nil {
		return domain.IncidentStatsResponse{}, err
	}

	categories, err := s.incidentRepository.CountByCategory(ctx)
	if err != nil {
		return domain.IncidentStatsResponse{}, err
	}
	if categories == nil {
		categories = []domain.CategoryCount{}
	}

	return domain.IncidentStatsResponse{Overall: overall, Categories: categories}, nil
}

func (s *incidentService) notifyAssignee(assignee *entities.User, incident *entities.Incident) {
	body := mailing.IncidentAssignedBody(assignee.Username, incident.Product, incident.Priority)
	if err := s.mailer.SendMail(assignee.Email, "Incident assigned", body); err != nil {
		metrics.DownstreamFailures.WithLabelValues("incident_assignment_mail").Inc()
		s.log.Error("assignment mail failed", "incident_id", incident.ID, "assignee", assignee.ID, "error", err)
	}
}

func (s *incidentService) getIncident(ctx context.Context, id string) (*entities.Incident, error) {
	incident, err := s.incidentRepository.GetIncidentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, err
	}
	return incident, nil
}

func toIncidentResponses(incidents []*entities.Incident) []domain.IncidentResponse {
	response := make([]domain.IncidentResponse, 0, len(incidents))
	for _, i := range incidents {
		response = append(response, ToIncidentResponse(i))
	}
	return response
}

func ToIncidentResponse(i *entities.Incident) domain.IncidentResponse {
	res := domain.IncidentResponse{
		ID:             i.ID.String(),
		Product:        i.Product,
		Company:        i.Company,
		Description:    i.Description,
		Priority:       i.Priority,
		Status:         i.Status,
		Category:       i.Category,
		ReportedBy:     i.ReportedBy.String(),
		ResolutionTime: i.ResolutionTime,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
	if i.ComplaintID != nil {
		res.ComplaintID = i.ComplaintID.String()
	}
	if i.AssignedTo != nil {
		res.AssignedTo = i.AssignedTo.String()
	}
	if i.Reporter != nil {
		res.Reporter = &domain.UserSummary{ID: i.Reporter.ID.String(), Username: i.Reporter.Username, Company: i.Reporter.Company}
	}
	if i.Assignee != nil {
		res.Assignee = &domain.UserSummary{ID: i.Assignee.ID.String(), Username: i.Assignee.Username}
	}
	return res
}
