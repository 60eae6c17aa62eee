package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/events"
	"github.com/HebleV/putmeonmap/internal/models"
	"github.com/HebleV/putmeonmap/internal/places"
)

const (
	MessageMock    = "Location submitted successfully (MOCK)"
	MessageSuccess = "Location submitted successfully to Google Maps"
)

// ErrValidation matches every ValidationError under errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError is returned when a request is missing or has malformed
// fields. Msg is the text shown to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SubmissionStore persists submissions and places API logs.
type SubmissionStore interface {
	Create(sub *models.Submission) (int64, error)
	List() ([]models.Submission, error)
	FindByID(id int64) (*models.Submission, error)
	LogAPIResponse(body any) error
	LogAPIError(cause error, response any) error
}

// Registrar forwards a submission to the places API.
type Registrar interface {
	Register(ctx context.Context, sub *models.Submission) (*places.Result, error)
}

// Mirror keeps a copy of each submission elsewhere.
type Mirror interface {
	Put(ctx context.Context, sub *models.Submission) error
}

type SubmissionService struct {
	store     SubmissionStore
	registrar Registrar
	publisher events.Publisher
	mirror    Mirror
	mockMode  bool
	logger    *zap.Logger
}

type Option func(*SubmissionService)

// WithPublisher announces each stored submission.
func WithPublisher(p events.Publisher) Option {
	return func(s *SubmissionService) { s.publisher = p }
}

// WithMirror copies each stored submission to m.
func WithMirror(m Mirror) Option {
	return func(s *SubmissionService) { s.mirror = m }
}

func NewSubmissionService(store SubmissionStore, registrar Registrar, mockMode bool, logger *zap.Logger, opts ...Option) *SubmissionService {
	s := &SubmissionService{
		store:     store,
		registrar: registrar,
		publisher: events.Nop{},
		mockMode:  mockMode,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitResponse is the body returned for an accepted submission.
type SubmitResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	SubmissionID int64          `json:"submissionId"`
	MockMode     bool           `json:"mockMode,omitempty"`
	Result       *places.Result `json:"result,omitempty"`
}

// MockMode reports whether the places API is bypassed.
func (s *SubmissionService) MockMode() bool { return s.mockMode }

func (s *SubmissionService) Submit(ctx context.Context, req *models.SubmissionRequest) (*SubmitResponse, error) {
	sub, err := validate(req)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(sub)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, sub); err != nil {
		s.logger.Warn("failed to publish submission event", zap.Int64("submissionId", id), zap.Error(err))
	}
	if s.mirror != nil {
		if err := s.mirror.Put(ctx, sub); err != nil {
			s.logger.Warn("failed to mirror submission", zap.Int64("submissionId", id), zap.Error(err))
		}
	}

	if s.mockMode {
		s.logger.Info("using mock response in development mode", zap.Int64("submissionId", id))
		return &SubmitResponse{
			Success:      true,
			Message:      MessageMock,
			SubmissionID: id,
			MockMode:     true,
		}, nil
	}

	s.logger.Info("submitting to Google Maps API", zap.Int64("submissionId", id))
	result, err := s.registrar.Register(ctx, sub)
	if err != nil {
		var response any
		var apiErr *places.APIError
		if errors.As(err, &apiErr) && apiErr.Response != nil {
			response = apiErr.Response
		}
		s.logger.Error("Google Maps API error", zap.Int64("submissionId", id), zap.Error(err))
		_ = s.store.LogAPIError(err, response)
		return nil, err
	}
	_ = s.store.LogAPIResponse(result.APIResponse)

	return &SubmitResponse{
		Success:      true,
		Message:      MessageSuccess,
		SubmissionID: id,
		Result:       result,
	}, nil
}

func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	return s.store.List()
}

func (s *SubmissionService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	return s.store.FindByID(id)
}

func validate(req *models.SubmissionRequest) (*models.Submission, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	category := strings.TrimSpace(req.Category)
	if name == "" || address == "" || req.Lat.Empty() || req.Lng.Empty() || category == "" {
		return nil, &ValidationError{Msg: "All fields are required"}
	}

	lat, err := req.Lat.Float()
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, &ValidationError{Msg: fmt.Sprintf("lat must be a number between -90 and 90, got %q", req.Lat)}
	}
	lng, err := req.Lng.Float()
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return nil, &ValidationError{Msg: fmt.Sprintf("lng must be a number between -180 and 180, got %q", req.Lng)}
	}

	return &models.Submission{
		Name:     name,
		Address:  address,
		Lat:      lat,
		Lng:      lng,
		Category: category,
	}, nil
}
