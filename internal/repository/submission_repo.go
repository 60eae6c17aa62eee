package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/models"
)

const AllSubmissionsFile = "all-submissions.json"

// TimestampLayout matches the ISO-8601 form browsers produce.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrNotFound = errors.New("submission not found")

// SubmissionRepo stores submissions as flat JSON files in one directory:
// one <id>.json per submission plus the aggregate all-submissions.json.
type SubmissionRepo struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewSubmissionRepo(dir string, logger *zap.Logger) *SubmissionRepo {
	return &SubmissionRepo{dir: dir, logger: logger, now: time.Now}
}

// EnsureDir creates the submissions directory if it doesn't exist.
func (r *SubmissionRepo) EnsureDir() error {
	return os.MkdirAll(r.dir, 0o755)
}

// Dir returns the submissions directory.
func (r *SubmissionRepo) Dir() string { return r.dir }

// Create assigns sub its id and timestamp, writes the single-record file and
// appends it to the aggregate list. Only a failure to write the
// single-record file is returned; problems with the aggregate are logged.
func (r *SubmissionRepo) Create(sub *models.Submission) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	sub.ID = id
	sub.Timestamp = now.UTC().Format(TimestampLayout)

	path := r.submissionPath(id)
	if err := writeJSONFile(path, sub); err != nil {
		r.logger.Error("error writing submission file", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("failed to log submission: %w", err)
	}
	r.logger.Info("submission logged to file", zap.String("path", path))

	r.appendAll(*sub)
	return id, nil
}

func (r *SubmissionRepo) appendAll(sub models.Submission) {
	path := filepath.Join(r.dir, AllSubmissionsFile)

	var subs []models.Submission
	if err := readJSONFile(path, &subs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// A corrupted aggregate restarts from an empty list.
		r.logger.Error("error reading all-submissions file", zap.String("path", path), zap.Error(err))
		subs = nil
	}
	subs = append(subs, sub)

	if err := writeJSONFile(path, subs); err != nil {
		r.logger.Error("error writing all-submissions file", zap.String("path", path), zap.Error(err))
		return
	}
	r.logger.Debug("all-submissions file updated", zap.Int("count", len(subs)))
}

// List returns every stored submission; an absent aggregate yields an
// empty list.
func (r *SubmissionRepo) List() ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := []models.Submission{}
	err := readJSONFile(filepath.Join(r.dir, AllSubmissionsFile), &subs)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Submission{}, nil
	}
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

// FindByID reads the single-record file for id.
func (r *SubmissionRepo) FindByID(id int64) (*models.Submission, error) {
	var sub models.Submission
	err := readJSONFile(r.submissionPath(id), &sub)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// LogAPIResponse records a places API response body next to the submissions.
func (r *SubmissionRepo) LogAPIResponse(body any) error {
	return r.writeStamped("api-response", body)
}

// LogAPIError records a failed places API call.
func (r *SubmissionRepo) LogAPIError(cause error, response any) error {
	return r.writeStamped("api-error", map[string]any{
		"error":     cause.Error(),
		"response":  response,
		"timestamp": r.now().UTC().Format(TimestampLayout),
	})
}

func (r *SubmissionRepo) writeStamped(prefix string, v any) error {
	name := fmt.Sprintf("%s-%d.json", prefix, r.now().UnixMilli())
	path := filepath.Join(r.dir, name)
	if err := writeJSONFile(path, v); err != nil {
		r.logger.Error("error writing api log", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

func (r *SubmissionRepo) submissionPath(id int64) string {
	return filepath.Join(r.dir, strconv.FormatInt(id, 10)+".json")
}
