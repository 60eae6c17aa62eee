package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/HebleV/putmeonmap/internal/models"
	"github.com/HebleV/putmeonmap/internal/places"
	"github.com/HebleV/putmeonmap/internal/repository"
)

type fakeRegistrar struct {
	calls  int
	result *places.Result
	err    error
}

func (f *fakeRegistrar) Register(_ context.Context, _ *models.Submission) (*places.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakePublisher struct {
	published []models.Submission
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, sub *models.Submission) error {
	f.published = append(f.published, *sub)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeMirror struct {
	puts []int64
	err  error
}

func (f *fakeMirror) Put(_ context.Context, sub *models.Submission) error {
	f.puts = append(f.puts, sub.ID)
	return f.err
}

func newRepo(t *testing.T) *repository.SubmissionRepo {
	t.Helper()
	repo := repository.NewSubmissionRepo(filepath.Join(t.TempDir(), "submissions"), zaptest.NewLogger(t))
	require.NoError(t, repo.EnsureDir())
	return repo
}

func validRequest() *models.SubmissionRequest {
	return &models.SubmissionRequest{
		Name:     "Harbour Lighthouse",
		Address:  "1 Pier Rd",
		Lat:      "54.123456",
		Lng:      "-3.654321",
		Category: "landmark",
	}
}

func TestSubmitMissingFields(t *testing.T) {
	svc := NewSubmissionService(newRepo(t), &fakeRegistrar{}, true, zaptest.NewLogger(t))

	mutations := map[string]func(r *models.SubmissionRequest){
		"name":     func(r *models.SubmissionRequest) { r.Name = "" },
		"address":  func(r *models.SubmissionRequest) { r.Address = "   " },
		"lat":      func(r *models.SubmissionRequest) { r.Lat = "" },
		"lng":      func(r *models.SubmissionRequest) { r.Lng = "" },
		"category": func(r *models.SubmissionRequest) { r.Category = "" },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			req := validRequest()
			mutate(req)

			_, err := svc.Submit(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "All fields are required", vErr.Msg)
		})
	}
}

func TestSubmitBadCoordinates(t *testing.T) {
	svc := NewSubmissionService(newRepo(t), &fakeRegistrar{}, true, zaptest.NewLogger(t))

	for _, tc := range []struct{ lat, lng models.Coordinate }{
		{"91", "0"},
		{"0", "-180.5"},
		{"north", "0"},
		{"NaN", "0"},
	} {
		req := validRequest()
		req.Lat, req.Lng = tc.lat, tc.lng

		_, err := svc.Submit(context.Background(), req)
		assert.ErrorIs(t, err, ErrValidation, "lat=%s lng=%s", tc.lat, tc.lng)
	}
}

func TestSubmitZeroCoordinatesAccepted(t *testing.T) {
	svc := NewSubmissionService(newRepo(t), &fakeRegistrar{}, true, zaptest.NewLogger(t))
	req := validRequest()
	req.Lat, req.Lng = "0", "0"

	_, err := svc.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmitMockModeSkipsRegistrar(t *testing.T) {
	repo := newRepo(t)
	reg := &fakeRegistrar{}
	pub := &fakePublisher{}
	mirror := &fakeMirror{}
	svc := NewSubmissionService(repo, reg, true, zaptest.NewLogger(t), WithPublisher(pub), WithMirror(mirror))

	resp, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.MockMode)
	assert.Equal(t, MessageMock, resp.Message)
	assert.Nil(t, resp.Result)
	assert.Zero(t, reg.calls)

	require.Len(t, pub.published, 1)
	assert.Equal(t, resp.SubmissionID, pub.published[0].ID)
	assert.Equal(t, []int64{resp.SubmissionID}, mirror.puts)

	stored, err := svc.Get(context.Background(), resp.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, 54.123456, stored.Lat)
	assert.Equal(t, -3.654321, stored.Lng)
	assert.Equal(t, "Harbour Lighthouse", stored.Name)
}

func TestSubmitPersistsBeforeForwarding(t *testing.T) {
	repo := newRepo(t)
	reg := &fakeRegistrar{result: &places.Result{Status: "success", PlaceID: "p-1", APIResponse: map[string]any{"status": "OK"}}}
	svc := NewSubmissionService(repo, reg, false, zaptest.NewLogger(t))

	resp, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, reg.calls)
	assert.Equal(t, MessageSuccess, resp.Message)
	assert.False(t, resp.MockMode)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "p-1", resp.Result.PlaceID)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, resp.SubmissionID, all[0].ID)

	matches, err := filepath.Glob(filepath.Join(repo.Dir(), "api-response-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSubmitRegistrarErrorKeepsSubmission(t *testing.T) {
	repo := newRepo(t)
	apiErr := &places.APIError{StatusCode: 403, Message: "denied", Response: map[string]any{"status": "REQUEST_DENIED"}}
	svc := NewSubmissionService(repo, &fakeRegistrar{err: apiErr}, false, zaptest.NewLogger(t))

	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, "Google Maps API error: denied", err.Error())

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	matches, err := filepath.Glob(filepath.Join(repo.Dir(), "api-error-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSubmitSideChannelFailuresAreNotFatal(t *testing.T) {
	svc := NewSubmissionService(newRepo(t), &fakeRegistrar{}, true, zaptest.NewLogger(t),
		WithPublisher(&fakePublisher{err: errors.New("broker down")}),
		WithMirror(&fakeMirror{err: errors.New("bucket gone")}),
	)

	resp, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestGetNotFound(t *testing.T) {
	svc := NewSubmissionService(newRepo(t), &fakeRegistrar{}, true, zaptest.NewLogger(t))

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, err := NewAuthService("admin@example.com", "pa55", "secret")
	require.NoError(t, err)

	res, err := svc.Login("admin@example.com", "pa55")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone@example.com", "pa55")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceWithoutPasswordRejectsLogin(t *testing.T) {
	svc, err := NewAuthService("admin@example.com", "", "secret")
	require.NoError(t, err)

	_, err = svc.Login("admin@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Issue("admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}
