package fssai

import (
	"context"
	"errors"
	"strings"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/mailing"
	"foodsafety-backend/internal/utils/metrics"
	"foodsafety-backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const certificateFolder = "fssai_certificates"

type (
	FSSAIService interface {
		Register(ctx context.Context, req domain.RegisterFSSAIRequest) (domain.FSSAIRegistrationResponse, error)
		Verify(ctx context.Context, req domain.VerifyFSSAIRequest) (domain.VerifyFSSAIResponse, error)
		Check(ctx context.Context, fssaiNumber string) (domain.CheckFSSAIResponse, error)
		GetMyRegistrations(ctx context.Context, email string) ([]domain.FSSAIRegistrationResponse, error)
		GetRegistrations(ctx context.Context, fssaiNumber string) ([]domain.FSSAIRegistrationResponse, error)
		UpdateVerification(ctx context.Context, id string, req domain.UpdateVerificationRequest) (domain.FSSAIRegistrationResponse, error)
		UpdateStatus(ctx context.Context, id string, req domain.UpdateFSSAIStatusRequest) (domain.FSSAIRegistrationResponse, error)
		AttachNumber(ctx context.Context, id string, req domain.AttachFSSAINumberRequest) (domain.FSSAIRegistrationResponse, error)
	}

	fssaiService struct {
		fssaiRepository FSSAIRepository
		s3              storage.AwsS3
		mailer          mailing.Mailer
		log             *logger.Logger
	}
)

func NewFSSAIService(fssaiRepository FSSAIRepository, s3 storage.AwsS3, mailer mailing.Mailer, log *logger.Logger) FSSAIService {
	return &fssaiService{
		fssaiRepository: fssaiRepository,
		s3:              s3,
		mailer:          mailer,
		log:             log.With("service", "FSSAIService"),
	}
}

func (s *fssaiService) Register(ctx context.Context, req domain.RegisterFSSAIRequest) (domain.FSSAIRegistrationResponse, error) {
	if req.Certificate == nil {
		return domain.FSSAIRegistrationResponse{}, domain.ErrCertificateRequired
	}

	id := uuid.New()
	key, err := s.s3.UploadFile(ctx, id.String(), req.Certificate, certificateFolder, storage.AllowEvidence...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.FSSAIRegistrationResponse{}, domain.ErrInvalidCertificateFormat
		}
		return domain.FSSAIRegistrationResponse{}, err
	}

	registration := &entities.FSSAIRegistration{
		ID:                  id,
		Business:            strings.TrimSpace(req.Business),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		CertificateFileName: req.Certificate.Filename,
		CertificatePath:     s.s3.GetPublicLinkKey(key),
		Status:              domain.FSSAIStatusPending,
	}

	if err := s.fssaiRepository.CreateRegistration(ctx, registration); err != nil {
		return domain.FSSAIRegistrationResponse{}, err
	}
	return ToRegistrationResponse(registration), nil
}

// Verify is an exact lookup of a well-formed number.
func (s *fssaiService) Verify(ctx context.Context, req domain.VerifyFSSAIRequest) (domain.VerifyFSSAIResponse, error) {
	if !utils.IsValidFSSAINumber(req.FSSAINumber) {
		return domain.VerifyFSSAIResponse{}, domain.ErrInvalidFSSAINumber
	}

	if _, err := s.fssaiRepository.FindByNumber(ctx, req.FSSAINumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VerifyFSSAIResponse{IsValid: false, Message: domain.MessageFSSAINotMatched}, nil
		}
		return domain.VerifyFSSAIResponse{}, err
	}

	return domain.VerifyFSSAIResponse{IsValid: true, Message: domain.MessageSuccessVerifyFSSAI}, nil
}

func (s *fssaiService) Check(ctx context.Context, fssaiNumber string) (domain.CheckFSSAIResponse, error) {
	fssaiNumber = strings.TrimSpace(fssaiNumber)
	if !utils.IsValidFSSAINumber(fssaiNumber) {
		return domain.CheckFSSAIResponse{}, domain.ErrInvalidFSSAINumber
	}

	matches, err := s.fssaiRepository.FindByNumberFold(ctx, fssaiNumber)
	if err != nil {
		return domain.CheckFSSAIResponse{}, err
	}

	res := domain.CheckFSSAIResponse{
		Exists:               len(matches) > 0,
		Message:              domain.MessageFSSAINotFound,
		MatchCount:           len(matches),
		MatchedRegistrations: toRegistrationResponses(matches),
	}
	if res.Exists {
		res.Message = domain.MessageFSSAIFound
	}
	return res, nil
}

func (s *fssaiService) GetMyRegistrations(ctx context.Context, email string) ([]domain.FSSAIRegistrationResponse, error) {
	registrations, err := s.fssaiRepository.GetRegistrationsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(registrations) == 0 {
		return nil, domain.ErrNoRegistrations
	}
	return toRegistrationResponses(registrations), nil
}

func (s *fssaiService) GetRegistrations(ctx context.Context, fssaiNumber string) ([]domain.FSSAIRegistrationResponse, error) {
	registrations, err := s.fssaiRepository.GetRegistrations(ctx, strings.TrimSpace(fssaiNumber))
	if err != nil {
		return nil, err
	}
	return toRegistrationResponses(registrations), nil
}

func (s *fssaiService) UpdateVerification(ctx context.Context, id string, req domain.UpdateVerificationRequest) (domain.FSSAIRegistrationResponse, error) {
	if req.Verified == nil {
		return domain.FSSAIRegistrationResponse{}, domain.ErrInvalidVerifiedFlag
	}

	if err := s.fssaiRepository.UpdateVerified(ctx, id, *req.Verified); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FSSAIRegistrationResponse{}, domain.ErrRegistrationNotFound
		}
		return domain.FSSAIRegistrationResponse{}, err
	}
	return s.get(ctx, id)
}

func (s *fssaiService) UpdateStatus(ctx context.Context, id string, req domain.UpdateFSSAIStatusRequest) (domain.FSSAIRegistrationResponse, error) {
	registration, err := s.getRegistration(ctx, id)
	if err != nil {
		return domain.FSSAIRegistrationResponse{}, err
	}

	if !domain.FSSAIStatusTransitions.Allows(registration.Status, req.Status) {
		metrics.StatusTransitions.WithLabelValues("fssai_registration", req.Status, "rejected").Inc()
		return domain.FSSAIRegistrationResponse{}, domain.ErrInvalidTransition
	}
	if registration.Status == req.Status {
		return ToRegistrationResponse(registration), nil
	}

	if err := s.fssaiRepository.UpdateStatus(ctx, id, registration.Status, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FSSAIRegistrationResponse{}, domain.ErrInvalidTransition
		}
		return domain.FSSAIRegistrationResponse{}, err
	}
	metrics.StatusTransitions.WithLabelValues("fssai_registration", req.Status, "applied").Inc()

	registration.Status = req.Status
	return ToRegistrationResponse(registration), nil
}

// AttachNumber records the issued number on an Approved registration and
// mails the business.
func (s *fssaiService) AttachNumber(ctx context.Context, id string, req domain.AttachFSSAINumberRequest) (domain.FSSAIRegistrationResponse, error) {
	if !utils.IsValidFSSAINumber(req.FSSAINumber) {
		return domain.FSSAIRegistrationResponse{}, domain.ErrInvalidFSSAINumber
	}

	registration, err := s.getRegistration(ctx, id)
	if err != nil {
		return domain.FSSAIRegistrationResponse{}, err
	}
	if registration.Status != domain.FSSAIStatusApproved {
		return domain.FSSAIRegistrationResponse{}, domain.ErrRegistrationNotApproved
	}

	if err := s.fssaiRepository.AttachNumber(ctx, id, req.FSSAINumber); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return domain.FSSAIRegistrationResponse{}, domain.ErrFSSAINumberTaken
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.FSSAIRegistrationResponse{}, domain.ErrRegistrationNotApproved
		}
		return domain.FSSAIRegistrationResponse{}, err
	}

	number := req.FSSAINumber
	registration.FSSAINumber = &number
	registration.Verified = true

	if err := s.mailer.SendMail(registration.Email, "FSSAI registration approved", mailing.FSSAIApprovedBody(registration.Business, number)); err != nil {
		metrics.DownstreamFailures.WithLabelValues("fssai_approval_mail").Inc()
		s.log.Error("approval mail failed", "registration_id", id, "error", err)
	}

	return ToRegistrationResponse(registration), nil
}

func (s *fssaiService) get(ctx context.Context, id string) (domain.FSSAIRegistrationResponse, error) {
	registration, err := s.getRegistration(ctx, id)
	if err != nil {
		return domain.FSSAIRegistrationResponse{}, err
	}
	return ToRegistrationResponse(registration), nil
}

func (s *fssaiService) getRegistration(ctx context.Context, id string) (*entities.FSSAIRegistration, error) {
	registration, err := s.fssaiRepository.GetRegistrationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return registration, nil
}

func toRegistrationResponses(registrations []*entities.FSSAIRegistration) []domain.FSSAIRegistrationResponse {
	response := make([]domain.FSSAIRegistrationResponse, 0, len(registrations))
	for _, r := range registrations {
		response = append(response, ToRegistrationResponse(r))
	}
	return response
}

func ToRegistrationResponse(r *entities.FSSAIRegistration) domain.FSSAIRegistrationResponse {
	return domain.FSSAIRegistrationResponse{
		ID:                  r.ID.String(),
		Business:            r.Business,
		Email:               r.Email,
		CertificateFileName: r.CertificateFileName,
		CertificatePath:     r.CertificatePath,
		RegistrationDate:    r.RegistrationDate,
		Verified:            r.Verified,
		Status:              r.Status,
		FSSAINumber:         r.FSSAINumber,
	}
}
