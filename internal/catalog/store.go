package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Fetcher loads the raw records of one category.
// Implementations must not fail: transport or decode problems yield an empty slice.
type Fetcher interface {
	FetchProducts(ctx context.Context, category Category) []RawProductRecord
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, category Category) []RawProductRecord

// FetchProducts calls f
func (f FetcherFunc) FetchProducts(ctx context.Context, category Category) []RawProductRecord {
	return f(ctx, category)
}

// Observer is notified after a category branch is replaced
type Observer func(category Category, state CategoryState)

// Option configures a Store
type Option func(*Store)

// WithObserver registers a callback run after every branch replacement
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

type branch struct {
	products []Product
	loading  bool
}

// Store owns the loaded products of every category.
// Each category is a separate branch: a load only ever replaces its own branch,
// so two loads finishing in either order cannot overwrite each other.
type Store struct {
	fetcher   Fetcher
	registry  *Registry
	observers []Observer

	mu       sync.RWMutex
	branches map[Category]branch

	once  sync.Once
	ready chan struct{}
}

// NewStore creates a store with every category empty and loading
func NewStore(fetcher Fetcher, registry *Registry, opts ...Option) *Store {
	if registry == nil {
		registry = NewRegistry(PriceSchemeCascade)
	}

	s := &Store{
		fetcher:  fetcher,
		registry: registry,
		branches: make(map[Category]branch, len(Categories())),
		ready:    make(chan struct{}),
	}
	for _, c := range Categories() {
		s.branches[c] = branch{products: []Product{}, loading: true}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the filter registry used by sessions of this store
func (s *Store) Registry() *Registry {
	return s.registry
}

// Load fetches every category once and blocks until all of them are applied.
// Later calls wait for the first load and do not fetch again.
// The caller's cancellation is not propagated to the fetches.
func (s *Store) Load(ctx context.Context) {
	s.once.Do(func() {
		s.load(context.WithoutCancel(ctx))
	})
	<-s.ready
}

// Start runs Load in the background
func (s *Store) Start(ctx context.Context) {
	go s.Load(ctx)
}

// Ready is closed once every category has finished loading
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) load(ctx context.Context) {
	var g errgroup.Group
	for _, c := range Categories() {
		g.Go(func() error {
			s.markLoading(c)
			records := s.fetcher.FetchProducts(ctx, c)
			s.replace(c, NormalizeBatch(records))
			return nil
		})
	}
	_ = g.Wait()
	close(s.ready)
}

func (s *Store) markLoading(c Category) {
	s.mu.Lock()
	b := s.branches[c]
	b.loading = true
	s.branches[c] = b
	s.mu.Unlock()
}

// replace swaps c's branch for the freshly loaded batch, empty or not
func (s *Store) replace(c Category, products []Product) {
	if products == nil {
		products = []Product{}
	}

	s.mu.Lock()
	s.branches[c] = branch{products: products, loading: false}
	s.mu.Unlock()

	state := s.State(c)
	for _, o := range s.observers {
		o(c, state)
	}
}

// State returns a copy of c's branch. Filter selection belongs to a Session,
// so SelectedFilterID is left empty.
func (s *Store) State(c Category) CategoryState {
	s.mu.RLock()
	b := s.branches[c]
	s.mu.RUnlock()

	products := make([]Product, len(b.products))
	copy(products, b.products)
	return CategoryState{
		Products: products,
		Loading:  b.loading,
	}
}

// Loading reports whether c is still waiting for its fetch
func (s *Store) Loading(c Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branches[c].loading
}

// Products returns a copy of c's unfiltered product list
func (s *Store) Products(c Category) []Product {
	return s.State(c).Products
}
