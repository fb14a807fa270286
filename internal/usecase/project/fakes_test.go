package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/storage"
	"github.com/johnquangdev/magicscuts/pkg/config"
)

const testStoreBase = "http://minio.test/magicscuts/"

type fakeProjects struct {
	mu   sync.Mutex
	rows map[string]entities.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{rows: make(map[string]entities.Project)}
}

func (f *fakeProjects) Create(_ context.Context, p *entities.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; ok {
		return entities.ErrDuplicateProject
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProjects) Update(_ context.Context, id string, segments []entities.Segment, state entities.ProjectState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return entities.ErrProjectNotFound
	}
	p.DetectedSegments = datatypes.JSONSlice[entities.Segment](append([]entities.Segment{}, segments...))
	p.State = state
	f.rows[id] = p
	return nil
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*entities.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, entities.ErrProjectNotFound
	}
	return &p, nil
}

func (f *fakeProjects) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Project
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (f *fakeProjects) get(t *testing.T, id string) entities.Project {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		t.Fatalf("project %q not stored", id)
	}
	return p
}

type fakeCredits struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
}

func newFakeCredits(userID uuid.UUID, balance int) *fakeCredits {
	return &fakeCredits{balances: map[uuid.UUID]int{userID: balance}}
}

func (f *fakeCredits) CheckAndDeductCredit(_ context.Context, userID uuid.UUID, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	if b < amount {
		return entities.ErrInsufficientCredit
	}
	f.balances[userID] = b - amount
	return nil
}

func (f *fakeCredits) GetBalance(_ context.Context, userID uuid.UUID) (entities.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[userID]
	if !ok {
		return entities.CreditBalance{}, entities.ErrUserNotFound
	}
	return entities.CreditBalance{Credits: b}, nil
}

func (f *fakeCredits) AddCredits(_ context.Context, userID uuid.UUID, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
	return nil
}

func (f *fakeCredits) balance(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	opts    map[string]storage.UploadOptions
	deleted []string
	failOn  func(key string) error
	// failAfterWrite stores the object and then reports an error
	failAfterWrite func(key string) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		opts:    make(map[string]storage.UploadOptions),
	}
}

func (f *fakeStore) Upload(_ context.Context, r io.Reader, size int64, key string, opts storage.UploadOptions) (string, error) {
	if f.failOn != nil {
		if err := f.failOn(key); err != nil {
			return "", err
		}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(b)) != size {
		return "", fmt.Errorf("%w: size mismatch for %s", entities.ErrStorage, key)
	}

	url := f.URL(key)
	f.mu.Lock()
	f.objects[url] = b
	f.opts[url] = opts
	f.mu.Unlock()
	if f.failAfterWrite != nil {
		if err := f.failAfterWrite(key); err != nil {
			return "", err
		}
	}
	return url, nil
}

func (f *fakeStore) URL(key string) string {
	return testStoreBase + key
}

func (f *fakeStore) Delete(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	if _, ok := f.objects[url]; !ok {
		return false, nil
	}
	delete(f.objects, url)
	return true, nil
}

// urls returns stored object URLs containing substr
func (f *fakeStore) urls(substr string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for url := range f.objects {
		if strings.Contains(url, substr) {
			out = append(out, url)
		}
	}
	return out
}

func (f *fakeStore) deletedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeTranscriber struct {
	mu         sync.Mutex
	calls      int
	utterances []entities.Utterance
	errs       []error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) ([]entities.Utterance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.utterances, nil
}

type fakeSelector struct {
	windows []entities.Window
	err     error
	// errs are returned one per call before falling back to err
	errs    []error
	panic   bool
	block   chan struct{}
	gotText string

	mu    sync.Mutex
	calls int
}

func (f *fakeSelector) SelectTopSegments(_ context.Context, transcript string, _ entities.DurationBucket) ([]entities.Window, error) {
	if f.block != nil {
		<-f.block
	}
	if f.panic {
		panic("selector exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotText = transcript
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]entities.Window(nil), f.windows...), nil
}

func (f *fakeSelector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCutter struct {
	duration float64
	probeErr error
	failRank int

	mu          sync.Mutex
	order       []int
	inFlight    int32
	maxInFlight int32
}

func (f *fakeCutter) Probe(_ context.Context, source string) (float64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	if _, err := os.Stat(source); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrCutting, err)
	}
	return f.duration, nil
}

func (f *fakeCutter) Cut(_ context.Context, _ string, w entities.Window, outDir string) (string, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.maxInFlight {
		f.maxInFlight = n
	}
	f.order = append(f.order, w.Rank)
	f.mu.Unlock()

	if w.Rank == f.failRank {
		return "", fmt.Errorf("%w: injected failure for rank %d", entities.ErrCutting, w.Rank)
	}
	time.Sleep(time.Millisecond)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(outDir, fmt.Sprintf("clip-%02d.mp4", w.Rank))
	if err := os.WriteFile(out, []byte(fmt.Sprintf("clip %d", w.Rank)), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// tenWindows returns valid windows within [0, total] in shuffled rank order
func tenWindows(total float64) []entities.Window {
	step := total / entities.SegmentCount
	ranks := []int{3, 1, 10, 2, 7, 5, 4, 9, 6, 8}
	windows := make([]entities.Window, 0, len(ranks))
	for i, rank := range ranks {
		windows = append(windows, entities.Window{
			Rank:   rank,
			Start:  float64(i) * step,
			End:    float64(i+1) * step,
			Reason: fmt.Sprintf("hook %d", rank),
		})
	}
	return windows
}

type harness struct {
	userID      uuid.UUID
	cfg         *config.Config
	projects    *fakeProjects
	credits     *fakeCredits
	store       *fakeStore
	transcriber *fakeTranscriber
	selector    *fakeSelector
	cutter      *fakeCutter
	pipeline    *Pipeline
}

func newHarness(t *testing.T, balance int) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.Media.TempDir = t.TempDir()
	cfg.Storage.KeyPrefix = "magicscuts"
	cfg.Pipeline.UploadConcurrency = 10
	cfg.Pipeline.CreditsPerProject = 1
	cfg.Pipeline.RetryMaxElapsed = 5 * time.Second
	cfg.Redis.CacheTTL = time.Minute

	h := &harness{
		userID:   uuid.New(),
		cfg:      cfg,
		projects: newFakeProjects(),
		store:    newFakeStore(),
		transcriber: &fakeTranscriber{utterances: []entities.Utterance{
			{Start: 0, End: 4.5, Transcript: "Welcome back to the show.", Speaker: 0},
			{Start: 4.5, End: 9, Transcript: "Today we talk about Go.", Speaker: 1},
		}},
		selector: &fakeSelector{windows: tenWindows(600)},
		cutter:   &fakeCutter{duration: 600},
	}
	h.credits = newFakeCredits(h.userID, balance)
	h.pipeline = NewPipeline(h.projects, h.credits, h.store, h.transcriber, h.selector, h.cutter, cfg, nil)
	return h
}

func (h *harness) input(projectID string) RunInput {
	body := "fake video bytes"
	return RunInput{
		File:        strings.NewReader(body),
		Size:        int64(len(body)),
		FileName:    "My Talk (final).mp4",
		UserID:      h.userID,
		ProjectID:   projectID,
		ProjectName: "talk",
		Bucket:      entities.Bucket30To60s,
	}
}

func (h *harness) assertTempDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.cfg.Media.TempDir)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp root not cleaned, found %d entries", len(entries))
	}
}

// sourceURLs returns stored objects outside any project folder
func (h *harness) sourceURLs(projectID string) []string {
	var out []string
	for _, url := range h.store.urls(testStoreBase) {
		if !strings.Contains(url, "/"+projectID+"/") {
			out = append(out, url)
		}
	}
	return out
}
