package pipeline

import (
	"context"
	"errors"
	"time"

	"attendx_backend/ratelimit"
	"attendx_backend/recognition"
)

var errNoExtractor = errors.New("no extractor configured for image samples")

// Config holds the policy knobs for the admission pipeline. All of them
// come from deployment configuration, none are per-call.
type Config struct {
	MatchThreshold   float64
	MinConfidence    float64
	VerifyTimeout    time.Duration
	LectureStartHour int // -1 disables the window
	LectureEndHour   int
}

// Pipeline decides whether a presence claim may commit an attendance
// record. One instance serves all requests; it owns no per-request
// state, and the attempt ledger it shares across requests does its own
// locking.
type Pipeline struct {
	store     Store
	extractor recognition.Extractor
	matcher   *recognition.Matcher
	ledger    *ratelimit.Ledger
	cfg       Config

	now func() time.Time // overridable in tests
}

// New wires a pipeline. extractor may be nil when every client submits
// precomputed embeddings; image samples are then rejected.
func New(store Store, extractor recognition.Extractor, ledger *ratelimit.Ledger, cfg Config) *Pipeline {
	return &Pipeline{
		store:     store,
		extractor: extractor,
		matcher:   recognition.NewMatcher(cfg.MatchThreshold, cfg.MinConfidence),
		ledger:    ledger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Sample is one biometric submission: either a base64 image for the
// extractor, or an embedding the client computed on-device.
type Sample struct {
	Image     string
	Embedding recognition.Embedding
}

func (s Sample) empty() bool {
	return s.Image == "" && s.Embedding == nil
}

type MarkRequest struct {
	StudentID string
	Sample    Sample
	Subject   string
	// CallerTenant is the authenticated admin, or 0 on the open kiosk
	// route. When set, it must own the student.
	CallerTenant int
}

type MarkResult struct {
	Confidence float64
	Timestamp  time.Time
}

// MarkAttendance runs the full admission pipeline. Stages run in strict
// order and the first failure is terminal; the pipeline never retries a
// stage. Callers may retry the whole request, which re-enters at stage
// one and is throttled by the rate limit.
func (p *Pipeline) MarkAttendance(ctx context.Context, req MarkRequest) (MarkResult, *Failure) {
	// 1. payload
	if fail := validateSample(req.StudentID, req.Sample); fail != nil {
		return MarkResult{}, fail
	}

	// 2. tenant scope, before any biometric work or existence signal
	adminID, fail := p.resolveTenant(ctx, req.StudentID, req.CallerTenant)
	if fail != nil {
		return MarkResult{}, fail
	}

	// 3. rate limit: atomic check-and-record in the ledger
	if !p.ledger.Allow(req.StudentID) {
		return MarkResult{}, NewFailure(CodeRateLimited)
	}

	// 4. lecture time window
	if fail := p.checkWindow(); fail != nil {
		return MarkResult{}, fail
	}

	// 5. bounded verification
	res, err := p.verify(ctx, req.StudentID, req.Sample)
	if err != nil {
		return MarkResult{}, Classify(err)
	}
	if !res.IsMatch {
		return MarkResult{}, NewFailure(CodeFaceMismatch)
	}

	// 6. duplicate suppression and commit. The read is a fast path; the
	// storage uniqueness constraint decides races between concurrent
	// requests that both reached this stage.
	now := p.now()
	date := now.Format("2006-01-02")

	exists, err := p.store.HasAttendanceToday(ctx, req.StudentID, date, req.Subject)
	if err != nil {
		return MarkResult{}, Classify(err)
	}
	if exists {
		return MarkResult{}, NewFailure(CodeDuplicate)
	}

	err = p.store.InsertAttendance(ctx, AttendanceRecord{
		StudentID:  req.StudentID,
		AdminID:    adminID,
		Date:       date,
		Subject:    req.Subject,
		Status:     "present",
		Verified:   true,
		Confidence: res.Confidence,
		CreatedAt:  now,
	})
	if err != nil {
		return MarkResult{}, Classify(err)
	}

	return MarkResult{Confidence: res.Confidence, Timestamp: now}, nil
}

type RegisterRequest struct {
	StudentID    string
	Sample       Sample
	CallerTenant int
}

// RegisterFace enrolls the sample as the student's one active embedding,
// replacing any previous one. Only the owning tenant may call it; the
// tenant check runs before any extraction so a foreign caller learns
// nothing from timing or error shape.
func (p *Pipeline) RegisterFace(ctx context.Context, req RegisterRequest) *Failure {
	if fail := validateSample(req.StudentID, req.Sample); fail != nil {
		return fail
	}
	if req.CallerTenant == 0 {
		return NewFailure(CodeAuthRequired)
	}
	if _, fail := p.resolveTenant(ctx, req.StudentID, req.CallerTenant); fail != nil {
		return fail
	}

	emb, err := runBounded(ctx, p.cfg.VerifyTimeout, func(ctx context.Context) (recognition.Embedding, error) {
		return p.probe(ctx, req.Sample)
	})
	if err != nil {
		return Classify(err)
	}

	if err := p.store.UpsertEmbedding(ctx, req.StudentID, emb); err != nil {
		return Classify(err)
	}
	return nil
}

type VerifyResult struct {
	Matched    bool
	Confidence float64
	Message    string
}

// VerifyFace compares the sample against the stored embedding without
// touching attendance. Clients use it as a pre-check; admission still
// has to go through MarkAttendance.
func (p *Pipeline) VerifyFace(ctx context.Context, studentID string, sample Sample) (VerifyResult, *Failure) {
	if fail := validateSample(studentID, sample); fail != nil {
		return VerifyResult{}, fail
	}

	res, err := p.verify(ctx, studentID, sample)
	if err != nil {
		return VerifyResult{}, Classify(err)
	}
	if !res.IsMatch {
		return VerifyResult{Matched: false, Confidence: res.Confidence, Message: "Face does not match"}, nil
	}
	return VerifyResult{Matched: true, Confidence: res.Confidence, Message: "Match found"}, nil
}

// DeleteFace removes the student's stored embedding. Owning tenant only.
func (p *Pipeline) DeleteFace(ctx context.Context, callerTenant int, studentID string) *Failure {
	if studentID == "" {
		return NewFailure(CodeInvalidPayload)
	}
	if callerTenant == 0 {
		return NewFailure(CodeAuthRequired)
	}
	if _, fail := p.resolveTenant(ctx, studentID, callerTenant); fail != nil {
		return fail
	}

	if err := p.store.DeleteEmbedding(ctx, studentID); err != nil && !errors.Is(err, ErrNotFound) {
		return Classify(err)
	}
	return nil
}

func validateSample(studentID string, sample Sample) *Failure {
	if studentID == "" || sample.empty() {
		return NewFailure(CodeInvalidPayload)
	}
	if sample.Embedding != nil && !sample.Embedding.Valid() {
		return NewFailure(CodeInvalidPayload)
	}
	return nil
}

// resolveTenant looks up the student's owning admin and enforces tenant
// isolation. A caller outside the owning tenant gets the same answer
// whether the student exists or not, so foreign identities cannot be
// enumerated.
func (p *Pipeline) resolveTenant(ctx context.Context, studentID string, callerTenant int) (int, *Failure) {
	adminID, err := p.store.StudentTenant(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if callerTenant != 0 {
				return 0, NewFailure(CodeTenantIsolation)
			}
			return 0, NewFailure(CodeNotRegistered)
		}
		return 0, Classify(err)
	}
	if callerTenant != 0 && adminID != callerTenant {
		return 0, NewFailure(CodeTenantIsolation)
	}
	return adminID, nil
}

func (p *Pipeline) checkWindow() *Failure {
	start, end := p.cfg.LectureStartHour, p.cfg.LectureEndHour
	if start < 0 || end < 0 {
		return nil
	}
	hour := p.now().Hour()
	if hour < start || hour >= end {
		return NewFailure(CodeOutsideWindow)
	}
	return nil
}

// probe resolves the sample to an embedding, extracting when needed.
func (p *Pipeline) probe(ctx context.Context, sample Sample) (recognition.Embedding, error) {
	if sample.Embedding != nil {
		return sample.Embedding, nil
	}
	if p.extractor == nil {
		return nil, errNoExtractor
	}
	return p.extractor.Extract(ctx, sample.Image)
}

// verify runs extraction, the stored-embedding fetch and the match under
// one wall-clock deadline.
func (p *Pipeline) verify(ctx context.Context, studentID string, sample Sample) (recognition.MatchResult, error) {
	return runBounded(ctx, p.cfg.VerifyTimeout, func(ctx context.Context) (recognition.MatchResult, error) {
		probe, err := p.probe(ctx, sample)
		if err != nil {
			return recognition.MatchResult{}, err
		}

		stored, err := p.store.GetEmbedding(ctx, studentID)
		if err != nil {
			return recognition.MatchResult{}, err
		}

		// A malformed stored embedding surfaces as ENCODING_ERROR: it
		// means persisted state is corrupt, not that the user erred.
		return p.matcher.Match(stored, probe)
	})
}
