package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory credential and review stores.
// ---------------------------------------------------------------------------

type stubCredentialRepo struct {
	users   map[string]*domain.User
	nextID  int64
	findErr error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{users: make(map[string]*domain.User)}
}

func (r *stubCredentialRepo) Register(_ context.Context, username, password string) (int64, error) {
	if _, exists := r.users[username]; exists {
		return 0, domain.ErrUserExists
	}
	r.nextID++
	r.users[username] = &domain.User{ID: r.nextID, Username: username, Password: password}
	return r.nextID, nil
}

func (r *stubCredentialRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubReviewRepo struct {
	rows      map[int64]*domain.Review
	nextID    int64
	inserts   int
	insertErr error
	updateErr error
	// beforeInsert, when set, runs at the start of every Insert.
	beforeInsert func()
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{rows: make(map[int64]*domain.Review)}
}

func (r *stubReviewRepo) Insert(_ context.Context, bookTitle, reviewText string, userID int64) (int64, error) {
	if r.beforeInsert != nil {
		r.beforeInsert()
	}
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.inserts++
	r.nextID++
	r.rows[r.nextID] = &domain.Review{ID: r.nextID, BookTitle: bookTitle, ReviewText: reviewText, UserID: userID}
	return r.nextID, nil
}

func (r *stubReviewRepo) UpdateTextByID(_ context.Context, id int64, reviewText string) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	row, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	row.ReviewText = reviewText
	return 1, nil
}

func (r *stubReviewRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id int64) (*domain.Review, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubReviewRepo) ListByBookTitle(_ context.Context, bookTitle string) ([]domain.Review, error) {
	out := []domain.Review{}
	for _, row := range r.rows {
		if row.BookTitle == bookTitle {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------------------------------------------------------------------------
// Side channels.
// ---------------------------------------------------------------------------

type idemEntry struct {
	pending  bool
	reviewID int64
}

type stubIdempotency struct {
	mu          sync.Mutex
	keys        map[string]idemEntry
	claimErr    error
	completeErr error
	releases    int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]idemEntry)}
}

func idemKey(userID int64, key string) string {
	return fmt.Sprintf("%d:%s", userID, key)
}

func (s *stubIdempotency) Claim(_ context.Context, userID int64, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimErr != nil {
		return 0, false, s.claimErr
	}
	e, ok := s.keys[idemKey(userID, key)]
	switch {
	case !ok:
		s.keys[idemKey(userID, key)] = idemEntry{pending: true}
		return 0, true, nil
	case e.pending:
		return 0, false, domain.ErrIdempotencyInProgress
	}
	return e.reviewID, false, nil
}

func (s *stubIdempotency) Complete(_ context.Context, userID int64, key string, reviewID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeErr != nil {
		return s.completeErr
	}
	s.keys[idemKey(userID, key)] = idemEntry{reviewID: reviewID}
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, userID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	delete(s.keys, idemKey(userID, key))
	return nil
}

func (s *stubIdempotency) entry(userID int64, key string) (idemEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.keys[idemKey(userID, key)]
	return e, ok
}

type stubAudit struct {
	events []domain.ReviewEvent
}

func (a *stubAudit) Publish(e domain.ReviewEvent) {
	a.events = append(a.events, e)
}
