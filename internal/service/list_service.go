package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bucketlist/internal/models"
	"bucketlist/internal/repository"

	"github.com/google/uuid"
)

// ErrSessionRequired is returned by operations that need an authenticated user.
var ErrSessionRequired = errors.New("no active session")

// ListSubscription is a live query handle. C delivers the full matching set
// after every change; delivery is latest-wins, so a slow consumer only ever
// misses intermediate snapshots, never the final one. Cancel tears the
// subscription down; C is closed afterwards.
type ListSubscription struct {
	C <-chan []models.ListItem

	scope      string
	cancelOnce sync.Once
	cancel     func()
}

// Scope returns the owner this subscription is filtered to.
func (s *ListSubscription) Scope() string { return s.scope }

// NewListSubscription wraps an existing snapshot channel in a subscription
// handle. Useful when composing custom streams.
func NewListSubscription(ch <-chan []models.ListItem, cancel func()) *ListSubscription {
	if cancel == nil {
		cancel = func() {}
	}
	return &ListSubscription{C: ch, cancel: cancel}
}

// Cancel releases the subscription. Safe to call more than once.
func (s *ListSubscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}

type listSubscriber struct {
	owner string
	ch    chan []models.ListItem
}

// ListService manages list items and pushes snapshots to subscribers whenever
// the collection changes.
type ListService struct {
	listRepo repository.Lists
	session  *Session

	mu     sync.Mutex
	nextID int
	subs   map[int]*listSubscriber
}

func NewListService(repo repository.Lists, session *Session) *ListService {
	return &ListService{
		listRepo: repo,
		session:  session,
		subs:     make(map[int]*listSubscriber),
	}
}

var _ Lists = (*ListService)(nil)

// ListItems returns the owner's items, optionally filtered by done state.
func (s *ListService) ListItems(ctx context.Context, owner string, done *bool) ([]models.ListItem, error) {
	if owner == "" {
		return []models.ListItem{}, nil
	}
	return s.listRepo.ListByOwner(ctx, owner, done)
}

// Subscribe establishes a live query scoped to owner. The current snapshot is
// delivered immediately, then again after every collection change. An empty
// owner yields the empty set and never anything else.
func (s *ListService) Subscribe(ctx context.Context, owner string) *ListSubscription {
	sub := &listSubscriber{owner: owner, ch: make(chan []models.ListItem, 1)}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	remove := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub.ch)
		}
		s.mu.Unlock()
	}

	// Tie teardown to the caller's context as well.
	go func() {
		<-ctx.Done()
		remove()
	}()

	s.deliver(ctx, sub)
	return &ListSubscription{C: sub.ch, scope: owner, cancel: remove}
}

// SubscribeSession follows the single-slot session: on every session change
// the previous owner scope is torn down before the new one is established,
// so no stale stream leaks across a login/logout boundary.
func (s *ListService) SubscribeSession(ctx context.Context) *ListSubscription {
	out := make(chan []models.ListItem, 1)
	inner, cancelCtx := context.WithCancel(ctx)
	changes, stopWatch := s.session.Watch()

	go func() {
		defer close(out)
		cur := s.Subscribe(inner, s.session.Username())
		defer func() { cur.Cancel() }()

		for {
			select {
			case <-inner.Done():
				return
			case <-changes:
				owner := s.session.Username()
				if owner == cur.Scope() {
					continue
				}
				cur.Cancel()
				cur = s.Subscribe(inner, owner)
			case items, ok := <-cur.C:
				if !ok {
					// current scope torn down; park this arm (nil channel
					// blocks) until a session change re-subscribes
					cur = &ListSubscription{scope: cur.scope, cancel: func() {}}
					continue
				}
				pushLatest(out, items)
			}
		}
	}()

	cancel := func() {
		stopWatch()
		cancelCtx()
	}
	return &ListSubscription{C: out, cancel: cancel}
}

// Create appends a new not-done item owned by the session user.
func (s *ListService) Create(ctx context.Context, title string) (models.ListItem, error) {
	u, ok := s.session.Current()
	if !ok {
		return models.ListItem{}, ErrSessionRequired
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.ListItem{}, errors.New("title is empty")
	}

	now := time.Now().UTC()
	item := models.ListItem{
		ID:        uuid.NewString(),
		Owner:     u.Username,
		Title:     title,
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.listRepo.Create(ctx, item); err != nil {
		return models.ListItem{}, err
	}
	s.broadcast(ctx)
	return item, nil
}

// SetDone is a targeted flip of the done flag.
func (s *ListService) SetDone(ctx context.Context, id string, done bool) error {
	if err := s.listRepo.SetDone(ctx, id, done); err != nil {
		return err
	}
	s.broadcast(ctx)
	return nil
}

// Update applies a targeted field update plus the updated-at stamp.
func (s *ListService) Update(ctx context.Context, id string, upd models.ListItemUpdate) error {
	if err := s.listRepo.Update(ctx, id, upd); err != nil {
		return err
	}
	s.broadcast(ctx)
	return nil
}

// Remove deletes the item.
func (s *ListService) Remove(ctx context.Context, id string) error {
	if err := s.listRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.broadcast(ctx)
	return nil
}

// broadcast re-runs every subscriber's query and pushes the fresh snapshot.
func (s *ListService) broadcast(ctx context.Context) {
	s.mu.Lock()
	subs := make([]*listSubscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		s.deliver(ctx, sub)
	}
}

// deliver queries the subscriber's scope and pushes the snapshot, dropping a
// pending stale one if the consumer hasn't caught up.
func (s *ListService) deliver(ctx context.Context, sub *listSubscriber) {
	var items []models.ListItem
	if sub.owner != "" {
		fetched, err := s.listRepo.ListByOwner(ctx, sub.owner, nil)
		if err != nil {
			// Snapshot delivery is best-effort; the next change retries.
			return
		}
		items = fetched
	} else {
		items = []models.ListItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Subscriber may have been cancelled while we were querying.
	for _, alive := range s.subs {
		if alive == sub {
			pushLatest(sub.ch, items)
			return
		}
	}
}

// pushLatest replaces any undelivered snapshot with the new one.
func pushLatest(ch chan []models.ListItem, items []models.ListItem) {
	for {
		select {
		case ch <- items:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
