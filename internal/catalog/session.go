package catalog

// ViewState is the visitor-owned part of the storefront: which category is shown and which
// filter is selected in each category. Selections are kept per category and survive switching.
type ViewState struct {
	Category Category
	Selected map[Category]string
}

// DefaultViewState shows accessories with "all" selected everywhere
func DefaultViewState() *ViewState {
	v := &ViewState{
		Category: CategoryAccessories,
		Selected: make(map[Category]string, len(Categories())),
	}
	for _, c := range Categories() {
		v.Selected[c] = FilterAll
	}
	return v
}

// Session binds a ViewState to a Store. Reads are pure: switching category never refetches.
type Session struct {
	store *Store
	view  *ViewState
}

// Session returns a session over view; a nil view starts from DefaultViewState
func (s *Store) Session(view *ViewState) *Session {
	if view == nil {
		view = DefaultViewState()
	}
	if !view.Category.Valid() {
		view.Category = CategoryAccessories
	}
	if view.Selected == nil {
		view.Selected = make(map[Category]string, len(Categories()))
	}
	return &Session{store: s, view: view}
}

// View returns the underlying state container
func (ss *Session) View() *ViewState {
	return ss.view
}

// Category returns the active category
func (ss *Session) Category() Category {
	return ss.view.Category
}

// SetCategory switches the active category; unknown categories are ignored
func (ss *Session) SetCategory(c Category) bool {
	if !c.Valid() {
		return false
	}
	ss.view.Category = c
	return true
}

// SelectFilter records a filter selection for the active category
func (ss *Session) SelectFilter(id string) {
	ss.SelectFilterFor(ss.view.Category, id)
}

// SelectFilterFor records a filter selection for c without touching other categories
func (ss *Session) SelectFilterFor(c Category, id string) {
	if !c.Valid() {
		return
	}
	ss.view.Selected[c] = id
}

// SelectedFilter returns the effective filter id of the active category
func (ss *Session) SelectedFilter() string {
	return ss.SelectedFilterFor(ss.view.Category)
}

// SelectedFilterFor returns the effective filter id of c; unknown ids resolve to "all"
func (ss *Session) SelectedFilterFor(c Category) string {
	return ss.store.registry.Resolve(c, ss.view.Selected[c])
}

// Loading reports whether the active category is still loading
func (ss *Session) Loading() bool {
	return ss.store.Loading(ss.view.Category)
}

// Filters returns the filter chips of the active category
func (ss *Session) Filters() []Filter {
	return ss.store.registry.Filters(ss.view.Category)
}

// Products returns the active category's products after applying the selected filter
func (ss *Session) Products() []Product {
	c := ss.view.Category
	return ss.store.registry.Apply(c, ss.view.Selected[c], ss.store.Products(c))
}

// State returns the active category's branch with the session's filter applied
func (ss *Session) State() CategoryState {
	return CategoryState{
		Products:         ss.Products(),
		Loading:          ss.Loading(),
		SelectedFilterID: ss.SelectedFilter(),
	}
}
