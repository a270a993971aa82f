package complaint_test

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/testutil"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/pkg/complaint"
	"foodsafety-backend/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockAwsS3 struct {
	mock.Mock
}

func (m *MockAwsS3) UploadFile(ctx context.Context, name string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	args := m.Called(name, file.Filename, folder)
	return args.String(0), args.Error(1)
}

func (m *MockAwsS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.ap-south-1.amazonaws.com/" + objectKey
}

func newService(t *testing.T, s3 *MockAwsS3) (complaint.ComplaintService, *gorm.DB) {
	db := testutil.NewTestDB(t)
	svc := complaint.NewComplaintService(
		complaint.NewComplaintRepository(db),
		user.NewUserRepository(db),
		s3,
		logger.NewNop(),
	)
	return svc, db
}

func validRequest() domain.SubmitComplaintRequest {
	return domain.SubmitComplaintRequest{
		ProductName:  "Fresh Curd 400g",
		BatchNumber:  "B-2024-118",
		PurchaseDate: "2024-05-02",
		Category:     "Dairy",
		IssueType:    "Safety Concern",
		Description:  "The curd smelled sour and the seal was broken on opening.",
	}
}

func TestSubmitComplaint_CreatesOpenMediumIncident(t *testing.T) {
	// Arrange
	s3 := new(MockAwsS3)
	svc, db := newService(t, s3)
	reporter := testutil.SeedUser(t, db, "consumer", domain.RoleConsumer)

	// Act
	res, err := svc.SubmitComplaint(context.Background(), reporter.ID.String(), validRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, res.Complaint.Status)
	assert.Equal(t, domain.IncidentStatusOpen, res.Incident.Status)
	assert.Equal(t, domain.PriorityMedium, res.Incident.Priority)
	assert.Equal(t, "consumer Foods", res.Incident.Company)
	assert.Equal(t, res.Complaint.ID, res.Incident.ComplaintID)

	var incidents []entities.Incident
	require.NoError(t, db.Find(&incidents).Error)
	assert.Len(t, incidents, 1)
}

func TestSubmitComplaint_UnknownCompanyFallback(t *testing.T) {
	s3 := new(MockAwsS3)
	svc, db := newService(t, s3)
	reporter := testutil.SeedUser(t, db, "anon", domain.RoleConsumer)
	require.NoError(t, db.Model(reporter).Update("company", "").Error)

	res, err := svc.SubmitComplaint(context.Background(), reporter.ID.String(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.UnknownCompany, res.Incident.Company)
}

func TestSubmitComplaint_RejectsBeforePersisting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.SubmitComplaintRequest)
		want   error
	}{
		{"missing product", func(r *domain.SubmitComplaintRequest) { r.ProductName = " " }, domain.ErrMissingComplaintFields},
		{"short description", func(r *domain.SubmitComplaintRequest) { r.Description = "too short" }, domain.ErrDescriptionTooShort},
		{"bad purchase date", func(r *domain.SubmitComplaintRequest) { r.PurchaseDate = "yesterday" }, domain.ErrInvalidPurchaseDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3 := new(MockAwsS3)
			svc, db := newService(t, s3)
			reporter := testutil.SeedUser(t, db, "consumer", domain.RoleConsumer)

			req := validRequest()
			tt.mutate(&req)
			_, err := svc.SubmitComplaint(context.Background(), reporter.ID.String(), req)

			assert.ErrorIs(t, err, tt.want)
			var complaints, incidents int64
			require.NoError(t, db.Model(&entities.Complaint{}).Count(&complaints).Error)
			require.NoError(t, db.Model(&entities.Incident{}).Count(&incidents).Error)
			assert.Zero(t, complaints)
			assert.Zero(t, incidents)
		})
	}
}

func TestSubmitComplaint_EvidenceChecks(t *testing.T) {
	s3 := new(MockAwsS3)
	svc, db := newService(t, s3)
	reporter := testutil.SeedUser(t, db, "consumer", domain.RoleConsumer)
	ctx := context.Background()

	req := validRequest()
	req.EvidenceFiles = []*multipart.FileHeader{testutil.NewFileHeader(t, "notes.txt", "text/plain", []byte("hello"))}
	_, err := svc.SubmitComplaint(ctx, reporter.ID.String(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidEvidenceFileType)

	req.EvidenceFiles = nil
	for i := 0; i < domain.MaxEvidenceFiles+1; i++ {
		req.EvidenceFiles = append(req.EvidenceFiles, testutil.NewFileHeader(t, "photo.jpg", "image/jpeg", []byte("jpeg")))
	}
	_, err = svc.SubmitComplaint(ctx, reporter.ID.String(), req)
	assert.ErrorIs(t, err, domain.ErrTooManyEvidenceFiles)

	s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitComplaint_StoresEvidenceLinks(t *testing.T) {
	s3 := new(MockAwsS3)
	s3.On("UploadFile", mock.Anything, "label.png", "complaints").Return("complaints/label-key.png", nil)
	svc, db := newService(t, s3)
	reporter := testutil.SeedUser(t, db, "consumer", domain.RoleConsumer)

	req := validRequest()
	req.EvidenceFiles = []*multipart.FileHeader{testutil.NewFileHeader(t, "label.png", "image/png", []byte("png"))}
	res, err := svc.SubmitComplaint(context.Background(), reporter.ID.String(), req)

	require.NoError(t, err)
	require.Len(t, res.Complaint.EvidenceFiles, 1)
	assert.Equal(t, "label.png", res.Complaint.EvidenceFiles[0].Filename)
	assert.True(t, strings.HasSuffix(res.Complaint.EvidenceFiles[0].Path, "complaints/label-key.png"))
	assert.Equal(t, "image/png", res.Complaint.EvidenceFiles[0].MimeType)
}

func TestSubmitComplaint_UploadFailurePersistsNothing(t *testing.T) {
	s3 := new(MockAwsS3)
	s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("s3 unavailable"))
	svc, db := newService(t, s3)
	reporter := testutil.SeedUser(t, db, "consumer", domain.RoleConsumer)

	req := validRequest()
	req.EvidenceFiles = []*multipart.FileHeader{testutil.NewFileHeader(t, "label.pdf", "application/pdf", []byte("%PDF"))}
	_, err := svc.SubmitComplaint(context.Background(), reporter.ID.String(), req)

	assert.Error(t, err)
	var count int64
	require.NoError(t, db.Model(&entities.Complaint{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetComplaintByID_OwnerOnly(t *testing.T) {
	s3 := new(MockAwsS3)
	svc, db := newService(t, s3)
	owner := testutil.SeedUser(t, db, "owner", domain.RoleConsumer)
	other := testutil.SeedUser(t, db, "other", domain.RoleConsumer)
	ctx := context.Background()

	res, err := svc.SubmitComplaint(ctx, owner.ID.String(), validRequest())
	require.NoError(t, err)

	_, err = svc.GetComplaintByID(ctx, res.Complaint.ID, other.ID.String())
	assert.ErrorIs(t, err, domain.ErrComplaintAccessDenied)

	got, err := svc.GetComplaintByID(ctx, res.Complaint.ID, owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, res.Complaint.ID, got.ID)

	mine, err := svc.GetMyComplaints(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateStatus_FollowsWorkflowAndLeavesIncident(t *testing.T) {
	// Arrange
	s3 := new(MockAwsS3)
	svc, db := newService(t, s3)
	owner := testutil.SeedUser(t, db, "owner", domain.RoleConsumer)
	ctx := context.Background()
	res, err := svc.SubmitComplaint(ctx, owner.ID.String(), validRequest())
	require.NoError(t, err)
	id := res.Complaint.ID

	// Act + Assert
	_, err = svc.UpdateStatus(ctx, id, domain.UpdateComplaintStatusRequest{Status: domain.ComplaintStatusResolved})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := svc.UpdateStatus(ctx, id, domain.UpdateComplaintStatusRequest{Status: domain.ComplaintStatusUnderReview})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusUnderReview, got.Status)

	got, err = svc.UpdateStatus(ctx, id, domain.UpdateComplaintStatusRequest{Status: domain.ComplaintStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusRejected, got.Status)

	_, err = svc.UpdateStatus(ctx, id, domain.UpdateComplaintStatusRequest{Status: domain.ComplaintStatusPending})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var inc entities.Incident
	require.NoError(t, db.First(&inc, "complaint_id = ?", id).Error)
	assert.Equal(t, domain.IncidentStatusOpen, inc.Status)
}
