package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
	"everskills/coaching-app/internal/repository/mocks"
	"everskills/coaching-app/internal/storage"
	storagemocks "everskills/coaching-app/internal/storage/mocks"
)

var (
	learnerActor = Actor{UserID: "usr_l", Email: "ana@example.com", Role: domain.RoleLearner}
	coachActor   = Actor{UserID: "usr_c", Email: "paul@example.com", Role: domain.RoleCoach}
	adminActor   = Actor{UserID: "usr_a", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type RequestServiceTestSuite struct {
	suite.Suite
	requests *mocks.RequestRepository
	users    *mocks.UserRepository
	files    *storagemocks.FileStorage
	notifier *LogNotifier
	service  RequestService
	ctx      context.Context
}

func (s *RequestServiceTestSuite) SetupTest() {
	s.requests = new(mocks.RequestRepository)
	s.users = new(mocks.UserRepository)
	s.files = new(storagemocks.FileStorage)
	s.notifier = NewLogNotifier(discardLogger())
	s.service = NewRequestService(s.requests, s.users, s.files, s.notifier, discardLogger(), 3)
	s.ctx = context.Background()
}

func (s *RequestServiceTestSuite) TearDownTest() {
	s.requests.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
	s.files.AssertExpectations(s.T())
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}

func (s *RequestServiceTestSuite) TestSubmit_DefaultsAndNotifiesAdmins() {
	s.requests.On("Create", s.ctx, mock.MatchedBy(func(r *domain.Request) bool {
		return r.Weeks == 3 && r.Objective == "Mieux déléguer" && r.LearnerEmail == "ana@example.com"
	})).Return("req_1", nil)
	s.users.On("ListByRole", s.ctx, domain.RoleAdmin).Return([]domain.User{{Email: "admin@example.com"}}, nil)

	req, err := s.service.Submit(s.ctx, learnerActor, SubmitRequestInput{Objective: "  Mieux déléguer "})

	s.Require().NoError(err)
	s.Equal("req_1", req.ID)
	s.Equal(domain.RequestSubmitted, req.Status)
	s.True(s.notifier.Sent("REQUEST_SUBMITTED:req_1:admin@example.com"))
}

func (s *RequestServiceTestSuite) TestSubmit_Validation() {
	tests := []struct {
		name string
		in   SubmitRequestInput
	}{
		{"empty objective", SubmitRequestInput{Objective: "  "}},
		{"negative weeks", SubmitRequestInput{Objective: "x", Weeks: -1}},
		{"too many weeks", SubmitRequestInput{Objective: "x", Weeks: MaxRequestWeeks + 1}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Submit(s.ctx, learnerActor, tt.in)
			s.ErrorIs(err, ErrInvalidInput)
		})
	}
}

func (s *RequestServiceTestSuite) TestAssignCoach() {
	s.requests.On("GetByID", s.ctx, "req_1").Return(&domain.Request{ID: "req_1", Status: domain.RequestSubmitted}, nil)
	s.users.On("GetByEmail", s.ctx, "paul@example.com").Return(&domain.User{Email: "paul@example.com", Role: domain.RoleCoach}, nil)
	s.requests.On("Update", s.ctx, mock.MatchedBy(func(r *domain.Request) bool {
		return r.CoachEmail == "paul@example.com" && r.Status == domain.RequestAssigned
	})).Return(nil)

	req, err := s.service.AssignCoach(s.ctx, adminActor, "req_1", "Paul@Example.com")

	s.Require().NoError(err)
	s.Equal(domain.RequestAssigned, req.Status)
	s.True(s.notifier.Sent("REQUEST_ASSIGNED:req_1:paul@example.com"))
}

func (s *RequestServiceTestSuite) TestAssignCoach_NotACoach() {
	s.requests.On("GetByID", s.ctx, "req_1").Return(&domain.Request{ID: "req_1", Status: domain.RequestSubmitted}, nil)
	s.users.On("GetByEmail", s.ctx, "ana@example.com").Return(&domain.User{Email: "ana@example.com", Role: domain.RoleLearner}, nil)

	_, err := s.service.AssignCoach(s.ctx, adminActor, "req_1", "ana@example.com")
	s.ErrorIs(err, ErrCoachNotFound)
}

func (s *RequestServiceTestSuite) TestAssignCoach_UnknownRequest() {
	s.requests.On("GetByID", s.ctx, "req_x").Return(nil, repository.ErrNotFound)

	_, err := s.service.AssignCoach(s.ctx, adminActor, "req_x", "paul@example.com")
	s.ErrorIs(err, ErrRequestNotFound)
}

func (s *RequestServiceTestSuite) TestSupportUploadURL() {
	s.requests.On("GetByID", s.ctx, "req_1").Return(&domain.Request{ID: "req_1", LearnerEmail: "ana@example.com"}, nil)
	s.files.On("GeneratePresignedUploadURL", s.ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "supports/req_1/") && strings.HasSuffix(key, ".pdf")
	}), "application/pdf", storage.DefaultPresignedURLExpiry).Return("https://upload.example/put", nil)
	s.requests.On("Update", s.ctx, mock.MatchedBy(func(r *domain.Request) bool {
		return len(r.Supports) == 1 && r.Supports[0].Name == "cv.pdf"
	})).Return(nil)

	up, err := s.service.RequestSupportUploadURL(s.ctx, learnerActor, "req_1", "docs/cv.pdf", "application/pdf")

	s.Require().NoError(err)
	s.Equal("https://upload.example/put", up.UploadURL)
	s.Equal("cv.pdf", up.Support.Name)
	s.Equal(900, up.ExpiresIn)
}

func (s *RequestServiceTestSuite) TestSupportUploadURL_OtherLearner() {
	s.requests.On("GetByID", s.ctx, "req_1").Return(&domain.Request{ID: "req_1", LearnerEmail: "someone@example.com"}, nil)

	_, err := s.service.RequestSupportUploadURL(s.ctx, learnerActor, "req_1", "cv.pdf", "application/pdf")
	s.ErrorIs(err, ErrForbidden)
}

func (s *RequestServiceTestSuite) TestSupportUploadURL_StorageDisabled() {
	svc := NewRequestService(s.requests, s.users, nil, s.notifier, discardLogger(), 3)

	_, err := svc.RequestSupportUploadURL(s.ctx, learnerActor, "req_1", "cv.pdf", "application/pdf")
	s.ErrorIs(err, ErrStorageDisabled)
}

func (s *RequestServiceTestSuite) TestSupportDownloadURL() {
	key := "supports/req_1/abc.pdf"
	req := &domain.Request{
		ID:           "req_1",
		LearnerEmail: "ana@example.com",
		CoachEmail:   "paul@example.com",
		Supports:     []domain.Support{{Name: "cv.pdf", Path: key}},
	}
	s.requests.On("GetByID", s.ctx, "req_1").Return(req, nil)
	s.files.On("GeneratePresignedDownloadURL", s.ctx, key, storage.DefaultPresignedURLExpiry).Return("https://download.example/get", nil)

	url, err := s.service.SupportDownloadURL(s.ctx, coachActor, "req_1", key)
	s.Require().NoError(err)
	s.Equal("https://download.example/get", url)

	stranger := Actor{Email: "eve@example.com", Role: domain.RoleCoach}
	_, err = s.service.SupportDownloadURL(s.ctx, stranger, "req_1", key)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.SupportDownloadURL(s.ctx, learnerActor, "req_1", "supports/req_1/other.pdf")
	s.ErrorIs(err, ErrSupportNotFound)
}

func (s *RequestServiceTestSuite) TestRemoveSupport() {
	key := "supports/req_1/abc.pdf"
	req := &domain.Request{
		ID:           "req_1",
		LearnerEmail: "ana@example.com",
		Status:       domain.RequestSubmitted,
		Supports:     []domain.Support{{Name: "cv.pdf", Path: key}, {Name: "notes.txt", Path: "supports/req_1/def.txt"}},
	}
	s.requests.On("GetByID", s.ctx, "req_1").Return(req, nil)
	s.files.On("DeleteObject", s.ctx, key).Return(nil).Once()
	s.requests.On("Update", s.ctx, mock.MatchedBy(func(r *domain.Request) bool {
		return len(r.Supports) == 1 && r.Supports[0].Name == "notes.txt"
	})).Return(nil).Once()

	updated, err := s.service.RemoveSupport(s.ctx, learnerActor, "req_1", key)
	s.Require().NoError(err)
	s.Len(updated.Supports, 1)

	_, err = s.service.RemoveSupport(s.ctx, learnerActor, "req_1", key)
	s.ErrorIs(err, ErrSupportNotFound)
}

func (s *RequestServiceTestSuite) TestRemoveSupport_Rejections() {
	key := "supports/req_1/abc.pdf"
	s.requests.On("GetByID", s.ctx, "req_1").Return(&domain.Request{
		ID:           "req_1",
		LearnerEmail: "ana@example.com",
		Status:       domain.RequestArchived,
		Supports:     []domain.Support{{Name: "cv.pdf", Path: key}},
	}, nil)

	_, err := s.service.RemoveSupport(s.ctx, coachActor, "req_1", key)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.RemoveSupport(s.ctx, learnerActor, "req_1", key)
	s.ErrorIs(err, ErrInvalidTransition)

	svc := NewRequestService(s.requests, s.users, nil, s.notifier, discardLogger(), 3)
	_, err = svc.RemoveSupport(s.ctx, learnerActor, "req_1", key)
	s.ErrorIs(err, ErrStorageDisabled)
}
