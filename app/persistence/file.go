package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"taskboard/app/codec"
	"taskboard/app/models"
)

// Header is the first line of every record file.
const Header = "id;titulo;descricao;status;criadoEm"

const fieldCount = 5

// FileRepository stores tasks in a ';'-delimited record file.
type FileRepository struct {
	path  string
	limit int
	lock  *flock.Flock
	now   func() time.Time
}

// NewFileRepository creates a repository for path that loads at most limit
// records. A non-positive limit means models.MaxTasks.
func NewFileRepository(path string, limit int) *FileRepository {
	if limit <= 0 {
		limit = models.MaxTasks
	}
	return &FileRepository{
		path:  path,
		limit: limit,
		lock:  flock.New(path + ".lock"),
		now:   time.Now,
	}
}

// Path returns the record file location.
func (r *FileRepository) Path() string { return r.path }

// Load reads all tasks from the record file.
func (r *FileRepository) Load(ctx context.Context) ([]models.Task, error) {
	tasks, _, err := r.LoadWithStats(ctx)
	return tasks, err
}

// LoadWithStats reads the record file and reports skipped records. A missing
// file is an empty list. Blank lines and the header are skipped, records with
// fewer than five fields are counted as malformed, and records past the limit
// are ignored.
func (r *FileRepository) LoadWithStats(ctx context.Context) ([]models.Task, LoadStats, error) {
	var stats LoadStats

	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return nil, stats, nil
	}

	if _, err := r.lock.TryRLockContext(ctx, 10*time.Millisecond); err != nil {
		return nil, stats, fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	var tasks []models.Task
	rr := codec.NewRecordReader(f)
	for {
		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tasks, stats, fmt.Errorf("read record file: %w", err)
		}

		if strings.TrimSpace(rec) == "" || strings.HasPrefix(rec, "id;") {
			continue
		}
		fields := codec.SplitRecord(rec)
		if len(fields) < fieldCount {
			stats.Malformed++
			continue
		}
		if len(tasks) >= r.limit {
			stats.OverCapacity++
			continue
		}

		tasks = append(tasks, models.Task{
			ID:          fields[0],
			Title:       fields[1],
			Description: fields[2],
			Status:      parseStatus(fields[3]),
			CreatedAt:   parseCreatedAt(fields[4], r.now),
		})
	}

	stats.Accepted = len(tasks)
	return tasks, stats, nil
}

// Save truncates the record file and writes the header and every task.
func (r *FileRepository) Save(ctx context.Context, tasks []models.Task) error {
	if err := r.ensureDir(); err != nil {
		return err
	}
	if _, err := r.lock.TryLockContext(ctx, 10*time.Millisecond); err != nil {
		return fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}

	w := bufio.NewWriter(f)
	w.WriteString(Header + "\n")
	for _, t := range tasks {
		w.WriteString(codec.FormatRecord(
			t.ID,
			t.Title,
			t.Description,
			strconv.Itoa(int(t.Status)),
			strconv.FormatInt(t.CreatedAt, 10),
		))
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write record file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record file: %w", err)
	}
	return nil
}

func (r *FileRepository) ensureDir() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
