package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/curations/storefront/internal/catalog"
)

// Inquiry channels
const (
	ChannelWhatsApp  = "whatsapp"
	ChannelInstagram = "instagram"
)

// Links builds outbound contact URLs
type Links struct {
	whatsAppNumber string
	instagram      map[catalog.Category]string
	channel        string
}

// NewLinks creates a link builder; an unknown channel falls back to WhatsApp
func NewLinks(whatsAppNumber, instagramAccessories, instagramGifts, channel string) *Links {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel != ChannelInstagram {
		channel = ChannelWhatsApp
	}
	return &Links{
		whatsAppNumber: strings.TrimPrefix(strings.TrimSpace(whatsAppNumber), "+"),
		instagram: map[catalog.Category]string{
			catalog.CategoryAccessories: strings.TrimPrefix(instagramAccessories, "@"),
			catalog.CategoryGifts:       strings.TrimPrefix(instagramGifts, "@"),
		},
		channel: channel,
	}
}

// Channel returns the configured inquiry channel
func (l *Links) Channel() string {
	return l.channel
}

// WhatsApp returns a wa.me deep link prefilled with text
func (l *Links) WhatsApp(text string) string {
	return fmt.Sprintf("https://wa.me/%s?%s", l.whatsAppNumber, url.Values{"text": {text}}.Encode())
}

// ProductInquiry links to a conversation about one product
func (l *Links) ProductInquiry(c catalog.Category, name string) string {
	if l.channel == ChannelInstagram {
		return l.Instagram(c)
	}
	return l.WhatsApp("Hi! I'm interested in: " + name)
}

// CustomOrder links to a custom order request for c
func (l *Links) CustomOrder(c catalog.Category) string {
	return l.WhatsApp(fmt.Sprintf("Hi! I'd like a custom %s.", ThemeFor(c).CustomNoun))
}

// PlaceOrder is the floating order button's target
func (l *Links) PlaceOrder() string {
	return l.WhatsApp("Hi! I'd like to place an order.")
}

// Instagram links to the profile of c
func (l *Links) Instagram(c catalog.Category) string {
	return "https://instagram.com/" + l.instagram[c]
}
