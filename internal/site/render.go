package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/curations/storefront/internal/catalog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// SkeletonCards is the number of placeholder cards shown while loading
const SkeletonCards = 6

// LowStockThreshold is the quantity at or below which the stock note is shown
const LowStockThreshold = 5

// Options configures the rendered page
type Options struct {
	Title            string
	Description      string
	AccessoriesLabel string
	GiftsLabel       string
	Analytics        Analytics
	Links            *Links
}

// Analytics configures the optional analytics snippet
type Analytics struct {
	Enabled   bool
	ScriptURL string
	SiteID    string
}

// Renderer executes the storefront page template
type Renderer struct {
	opts Options
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Links == nil {
		opts.Links = NewLinks("", "", "", ChannelWhatsApp)
	}
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"rupees":   Rupees,
		"skeleton": func() []int { return make([]int, SkeletonCards) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{opts: opts, tmpl: tmpl}, nil
}

// Label returns the display label of c
func (r *Renderer) Label(c catalog.Category) string {
	if c == catalog.CategoryGifts {
		return r.opts.GiftsLabel
	}
	return r.opts.AccessoriesLabel
}

// DocumentTitle is "<title> | <label of c>"
func (r *Renderer) DocumentTitle(c catalog.Category) string {
	return fmt.Sprintf("%s | %s", r.opts.Title, r.Label(c))
}

// Chip is a filter button
type Chip struct {
	Label  string
	Href   string
	Active bool
}

// Card is one rendered product
type Card struct {
	Name        string
	Desc        string
	Image       string
	Badge       string
	Price       string
	StrikePrice string
	InStock     bool
	Quantity    int
	Limited     bool
	InquiryURL  string
}

// Page is the template model
type Page struct {
	Title        string
	AppTitle     string
	Description  string
	Category     string
	Theme        Theme
	ToggleHref   string
	ToggleLabel  string
	Gifts        bool
	Chips        []Chip
	Loading      bool
	Cards        []Card
	Testimonials []Testimonial
	CustomOrder  string
	Instagram    string
	PlaceOrder   string
	Analytics    Analytics
}

// Build assembles the page model for a session
func (r *Renderer) Build(sess *catalog.Session) Page {
	c := sess.Category()
	theme := ThemeFor(c)
	links := r.opts.Links

	other := catalog.CategoryGifts
	if c == catalog.CategoryGifts {
		other = catalog.CategoryAccessories
	}

	selected := sess.SelectedFilter()
	filters := sess.Filters()
	chips := make([]Chip, 0, len(filters))
	for _, f := range filters {
		chips = append(chips, Chip{
			Label:  f.Label,
			Href:   PageURL(c, withSelection(sess, c, f.ID)),
			Active: f.ID == selected,
		})
	}

	page := Page{
		Title:        r.DocumentTitle(c),
		AppTitle:     r.opts.Title,
		Description:  r.opts.Description,
		Category:     c.String(),
		Theme:        theme,
		ToggleHref:   PageURL(other, withSelection(sess, c, selected)),
		ToggleLabel:  r.Label(other),
		Gifts:        c == catalog.CategoryGifts,
		Chips:        chips,
		Loading:      sess.Loading(),
		Testimonials: Testimonials,
		CustomOrder:  links.CustomOrder(c),
		Instagram:    links.Instagram(c),
		PlaceOrder:   links.PlaceOrder(),
		Analytics:    r.opts.Analytics,
	}

	if !page.Loading {
		products := sess.Products()
		page.Cards = make([]Card, 0, len(products))
		for _, p := range products {
			card := Card{
				Name:       p.Name,
				Desc:       p.Desc,
				Image:      p.Image,
				Price:      p.EffectivePrice(),
				InStock:    p.InStock(),
				InquiryURL: links.ProductInquiry(c, p.Name),
			}
			if p.AvailableQuantity != nil {
				card.Quantity = *p.AvailableQuantity
				card.Limited = card.Quantity <= LowStockThreshold
			}
			if p.HasBadge() {
				card.Badge = *p.Badge
			}
			if p.HasDiscount() {
				card.StrikePrice = p.StrikePrice()
			}
			page.Cards = append(page.Cards, card)
		}
	}
	return page
}

// Render writes the HTML page for a session
func (r *Renderer) Render(w io.Writer, sess *catalog.Session) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html.tmpl", r.Build(sess)); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// PageURL is the link to a category with per-category filter selections
func PageURL(c catalog.Category, selected map[catalog.Category]string) string {
	q := url.Values{}
	q.Set("category", c.String())
	for _, cat := range catalog.Categories() {
		if id := selected[cat]; id != "" && id != catalog.FilterAll {
			q.Set(cat.String(), id)
		}
	}
	return "/?" + q.Encode()
}

func withSelection(sess *catalog.Session, c catalog.Category, id string) map[catalog.Category]string {
	selected := make(map[catalog.Category]string, 2)
	for _, cat := range catalog.Categories() {
		selected[cat] = sess.SelectedFilterFor(cat)
	}
	selected[c] = id
	return selected
}

// Rupees prefixes a display price with the rupee sign unless it already carries one
func Rupees(price string) string {
	price = strings.TrimSpace(price)
	if price == "" || strings.HasPrefix(price, "₹") {
		return price
	}
	return "₹" + price
}
