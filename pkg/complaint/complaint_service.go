package complaint

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/metrics"
	"foodsafety-backend/internal/utils/storage"
	"foodsafety-backend/pkg/incident"
	"foodsafety-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	purchaseDateLayout = "2006-01-02"
	evidenceFolder     = "complaints"
)

type (
	ComplaintService interface {
		SubmitComplaint(ctx context.Context, userID string, req domain.SubmitComplaintRequest) (domain.SubmitComplaintResponse, error)
		GetMyComplaints(ctx context.Context, userID string) ([]domain.ComplaintResponse, error)
		GetComplaintByID(ctx context.Context, id string, userID string) (domain.ComplaintResponse, error)
		UpdateStatus(ctx context.Context, id string, req domain.UpdateComplaintStatusRequest) (domain.ComplaintResponse, error)
	}

	complaintService struct {
		complaintRepository ComplaintRepository
		userRepository      user.UserRepository
		s3                  storage.AwsS3
		log                 *logger.Logger
	}
)

func NewComplaintService(complaintRepository ComplaintRepository, userRepository user.UserRepository, s3 storage.AwsS3, log *logger.Logger) ComplaintService {
	return &complaintService{
		complaintRepository: complaintRepository,
		userRepository:      userRepository,
		s3:                  s3,
		log:                 log.With("service", "ComplaintService"),
	}
}

// SubmitComplaint validates and uploads evidence first, then writes the
// complaint and its Open/Medium incident in one transaction.
func (s *complaintService) SubmitComplaint(ctx context.Context, userID string, req domain.SubmitComplaintRequest) (domain.SubmitComplaintResponse, error) {
	if err := validateFields(req); err != nil {
		return domain.SubmitComplaintResponse{}, err
	}

	reporter, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubmitComplaintResponse{}, domain.ErrUserNotFound
		}
		return domain.SubmitComplaintResponse{}, err
	}

	purchaseDate, err := time.Parse(purchaseDateLayout, req.PurchaseDate)
	if err != nil {
		return domain.SubmitComplaintResponse{}, domain.ErrInvalidPurchaseDate
	}

	if err := validateEvidence(req); err != nil {
		return domain.SubmitComplaintResponse{}, err
	}

	complaintID := uuid.New()
	evidence := make([]entities.EvidenceFile, 0, len(req.EvidenceFiles))
	for _, file := range req.EvidenceFiles {
		key, err := s.s3.UploadFile(ctx, complaintID.String()+"-"+uuid.NewString(), file, evidenceFolder, storage.AllowEvidence...)
		if err != nil {
			if errors.Is(err, storage.ErrFileTypeNotAllowed) {
				return domain.SubmitComplaintResponse{}, domain.ErrInvalidEvidenceFileType
			}
			return domain.SubmitComplaintResponse{}, err
		}
		evidence = append(evidence, entities.EvidenceFile{
			Filename: file.Filename,
			Path:     s.s3.GetPublicLinkKey(key),
			MimeType: file.Header.Get("Content-Type"),
		})
	}

	complaint := &entities.Complaint{
		ID:            complaintID,
		UserID:        reporter.ID,
		ProductName:   strings.TrimSpace(req.ProductName),
		BatchNumber:   strings.TrimSpace(req.BatchNumber),
		PurchaseDate:  purchaseDate,
		Category:      req.Category,
		IssueType:     req.IssueType,
		Description:   req.Description,
		EvidenceFiles: evidence,
		FSSAINumber:   req.FSSAINumber,
		Status:        domain.ComplaintStatusPending,
	}

	company := strings.TrimSpace(reporter.Company)
	if company == "" {
		company = domain.UnknownCompany
	}

	inc := &entities.Incident{
		Product:     complaint.ProductName,
		Company:     company,
		Description: complaint.Description,
		Priority:    domain.PriorityMedium,
		Status:      domain.IncidentStatusOpen,
		Category:    complaint.Category,
		ReportedBy:  reporter.ID,
	}

	if err := s.complaintRepository.CreateComplaintWithIncident(ctx, complaint, inc); err != nil {
		s.log.Error("complaint submission failed", "user_id", userID, "error", err)
		return domain.SubmitComplaintResponse{}, err
	}
	metrics.ComplaintsSubmitted.WithLabelValues(complaint.Category).Inc()

	return domain.SubmitComplaintResponse{
		Complaint: ToComplaintResponse(complaint),
		Incident:  incident.ToIncidentResponse(inc),
	}, nil
}

func (s *complaintService) GetMyComplaints(ctx context.Context, userID string) ([]domain.ComplaintResponse, error) {
	complaints, err := s.complaintRepository.GetComplaintsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		response = append(response, ToComplaintResponse(c))
	}
	return response, nil
}

func (s *complaintService) GetComplaintByID(ctx context.Context, id string, userID string) (domain.ComplaintResponse, error) {
	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return domain.ComplaintResponse{}, err
	}

	if complaint.UserID.String() != userID {
		return domain.ComplaintResponse{}, domain.ErrComplaintAccessDenied
	}
	return ToComplaintResponse(complaint), nil
}

// UpdateStatus moves the complaint along its workflow. The incident created
// with it is not touched.
func (s *complaintService) UpdateStatus(ctx context.Context, id string, req domain.UpdateComplaintStatusRequest) (domain.ComplaintResponse, error) {
	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return domain.ComplaintResponse{}, err
	}

	if !domain.ComplaintTransitions.Allows(complaint.Status, req.Status) {
		metrics.StatusTransitions.WithLabelValues("complaint", req.Status, "rejected").Inc()
		return domain.ComplaintResponse{}, domain.ErrInvalidTransition
	}
	if complaint.Status == req.Status {
		return ToComplaintResponse(complaint), nil
	}

	if err := s.complaintRepository.UpdateStatus(ctx, id, complaint.Status, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ComplaintResponse{}, domain.ErrInvalidTransition
		}
		return domain.ComplaintResponse{}, err
	}
	metrics.StatusTransitions.WithLabelValues("complaint", req.Status, "applied").Inc()

	complaint.Status = req.Status
	return ToComplaintResponse(complaint), nil
}

func (s *complaintService) getComplaint(ctx context.Context, id string) (*entities.Complaint, error) {
	complaint, err := s.complaintRepository.GetComplaintByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func validateFields(req domain.SubmitComplaintRequest) error {
	if strings.TrimSpace(req.ProductName) == "" || req.Category == "" || req.IssueType == "" || strings.TrimSpace(req.Description) == "" {
		return domain.ErrMissingComplaintFields
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) < domain.MinDescriptionChars {
		return domain.ErrDescriptionTooShort
	}
	return nil
}

func validateEvidence(req domain.SubmitComplaintRequest) error {
	if len(req.EvidenceFiles) > domain.MaxEvidenceFiles {
		return domain.ErrTooManyEvidenceFiles
	}
	for _, file := range req.EvidenceFiles {
		if file.Size > domain.MaxEvidenceFileSize {
			return domain.ErrEvidenceFileTooLarge
		}
		if !storage.IsAllowed(file.Header.Get("Content-Type"), storage.AllowEvidence...) {
			return domain.ErrInvalidEvidenceFileType
		}
	}
	return nil
}

func ToComplaintResponse(c *entities.Complaint) domain.ComplaintResponse {
	files := make([]domain.EvidenceFile, 0, len(c.EvidenceFiles))
	for _, f := range c.EvidenceFiles {
		files = append(files, domain.EvidenceFile(f))
	}

	return domain.ComplaintResponse{
		ID:            c.ID.String(),
		UserID:        c.UserID.String(),
		ProductName:   c.ProductName,
		BatchNumber:   c.BatchNumber,
		PurchaseDate:  c.PurchaseDate,
		Category:      c.Category,
		IssueType:     c.IssueType,
		Description:   c.Description,
		EvidenceFiles: files,
		FSSAINumber:   c.FSSAINumber,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
