package site

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curations/storefront/internal/catalog"
)

func str(s string) *string { return &s }

func qty(n int) *int { return &n }

type fixedFetcher map[catalog.Category][]catalog.RawProductRecord

func (f fixedFetcher) FetchProducts(ctx context.Context, c catalog.Category) []catalog.RawProductRecord {
	return f[c]
}

func testRenderer(t *testing.T, channel string) *Renderer {
	t.Helper()
	r, err := NewRenderer(Options{
		Title:            "Curations by Amreen",
		Description:      "Elegant handcrafted accessories and bespoke gifts, curated by Amreen.",
		AccessoriesLabel: "EverGlow Accessories",
		GiftsLabel:       "Gifts & Crafts Hub",
		Links:            NewLinks("917406785941", "ever_glow_accessories01", "gifts_n_crafts_hub", channel),
	})
	require.NoError(t, err)
	return r
}

func loaded(t *testing.T, data fixedFetcher) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(data, nil)
	store.Load(context.Background())
	return store
}

func TestLinks(t *testing.T) {
	l := NewLinks("+917406785941", "@ever_glow_accessories01", "gifts_n_crafts_hub", "")

	u, err := url.Parse(l.ProductInquiry(catalog.CategoryGifts, "Rose Bouquet"))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/917406785941", u.Path)
	assert.Equal(t, "Hi! I'm interested in: Rose Bouquet", u.Query().Get("text"))

	u, err = url.Parse(l.CustomOrder(catalog.CategoryAccessories))
	require.NoError(t, err)
	assert.Equal(t, "Hi! I'd like a custom accessory.", u.Query().Get("text"))

	u, err = url.Parse(l.CustomOrder(catalog.CategoryGifts))
	require.NoError(t, err)
	assert.Equal(t, "Hi! I'd like a custom gift.", u.Query().Get("text"))

	u, err = url.Parse(l.PlaceOrder())
	require.NoError(t, err)
	assert.Equal(t, "Hi! I'd like to place an order.", u.Query().Get("text"))

	assert.Equal(t, "https://instagram.com/ever_glow_accessories01", l.Instagram(catalog.CategoryAccessories))
	assert.Equal(t, "https://instagram.com/gifts_n_crafts_hub", l.Instagram(catalog.CategoryGifts))
	assert.Equal(t, ChannelWhatsApp, l.Channel())
}

func TestInstagramInquiryChannel(t *testing.T) {
	l := NewLinks("917406785941", "ever_glow_accessories01", "gifts_n_crafts_hub", "Instagram")
	assert.Equal(t, "https://instagram.com/gifts_n_crafts_hub", l.ProductInquiry(catalog.CategoryGifts, "Rose Bouquet"))
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, "EverGlow Accessories", ThemeFor(catalog.CategoryAccessories).Name)
	assert.Equal(t, "🌸", ThemeFor(catalog.CategoryGifts).EmptyIcon)
	assert.Equal(t, ThemeFor(catalog.CategoryAccessories), ThemeFor(catalog.Category("shoes")))
	assert.Contains(t, string(ThemeFor(catalog.CategoryGifts).CSSVars()), "--accent: #d4698c;")
}

func TestPageURL(t *testing.T) {
	got := PageURL(catalog.CategoryGifts, map[catalog.Category]string{
		catalog.CategoryAccessories: "featured",
		catalog.CategoryGifts:       catalog.FilterAll,
	})
	assert.Equal(t, "/?accessories=featured&category=gifts", got)
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "₹1,999", Rupees("1,999"))
	assert.Equal(t, "₹500", Rupees("₹500"))
	assert.Equal(t, "", Rupees(" "))
}

func TestRenderLoadingSkeleton(t *testing.T) {
	store := catalog.NewStore(fixedFetcher{}, nil)
	r := testRenderer(t, ChannelWhatsApp)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, store.Session(nil)))
	html := buf.String()

	assert.Contains(t, html, "<title>Curations by Amreen | EverGlow Accessories</title>")
	assert.Equal(t, SkeletonCards, strings.Count(html, `class="card skeleton"`))
	assert.NotContains(t, html, "Coming Soon")
}

func TestRenderEmptyState(t *testing.T) {
	store := loaded(t, fixedFetcher{})
	r := testRenderer(t, ChannelWhatsApp)

	view := catalog.DefaultViewState()
	view.Category = catalog.CategoryGifts

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, store.Session(view)))
	html := buf.String()

	assert.Contains(t, html, "Coming Soon")
	assert.Contains(t, html, "Explore our exclusive gift collection")
	assert.Contains(t, html, "🌸")
	assert.Contains(t, html, "Gifts &amp; Crafts Hub</title>")
}

func TestRenderProducts(t *testing.T) {
	store := loaded(t, fixedFetcher{
		catalog.CategoryGifts: {
			{Title: str("Rose Bouquet"), Price: catalog.ScalarOf("1999"), OfferPrice: catalog.ScalarOf("1499"), Badge: str("Bestseller"), ImageURL: str("https://img.example/rose.jpg")},
			{Title: str("Gift Box"), Price: catalog.ScalarOf("2600"), AvailableQuantity: qty(0)},
			{Title: str("Keepsake Card"), Price: catalog.ScalarOf("300"), AvailableQuantity: qty(2)},
		},
	})
	r := testRenderer(t, ChannelWhatsApp)

	view := catalog.DefaultViewState()
	view.Category = catalog.CategoryGifts
	view.Selected[catalog.CategoryAccessories] = "featured"

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, store.Session(view)))
	html := buf.String()

	assert.Equal(t, 3, strings.Count(html, `<article class="card">`))
	assert.Contains(t, html, `<span class="badge">Bestseller</span>`)
	assert.Contains(t, html, "₹1499 <s>₹1999</s>")
	assert.Contains(t, html, "Currently out of stock")
	assert.Contains(t, html, "Only 2 left")
	assert.Contains(t, html, `class="no-photo"`)
	assert.Contains(t, html, "Hi%21+I%27m+interested+in%3A+Rose+Bouquet")
	// chips keep the other category's selection
	assert.Contains(t, html, `href="/?accessories=featured&amp;category=gifts&amp;gifts=hampers"`)
}

func TestBuildFiltersGrid(t *testing.T) {
	store := loaded(t, fixedFetcher{
		catalog.CategoryGifts: {
			{Title: str("Rose Bouquet"), Price: catalog.ScalarOf("1999")},
			{Title: str("Gift Box"), Price: catalog.ScalarOf("2600")},
		},
	})
	r := testRenderer(t, ChannelWhatsApp)

	sess := store.Session(nil)
	sess.SetCategory(catalog.CategoryGifts)
	sess.SelectFilter("hampers")

	page := r.Build(sess)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "Gift Box", page.Cards[0].Name)

	var active []string
	for _, c := range page.Chips {
		if c.Active {
			active = append(active, c.Label)
		}
	}
	assert.Equal(t, []string{"Hampers"}, active)
	assert.Equal(t, "/?category=accessories&gifts=hampers", page.ToggleHref)
	assert.Equal(t, "EverGlow Accessories", page.ToggleLabel)
}

func TestRenderAnalytics(t *testing.T) {
	r, err := NewRenderer(Options{
		Title:     "Shop",
		Analytics: Analytics{Enabled: true, ScriptURL: "https://plausible.io/js/script.js", SiteID: "shop.example"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, loaded(t, fixedFetcher{}).Session(nil)))
	assert.Contains(t, buf.String(), `src="https://plausible.io/js/script.js"`)
}
