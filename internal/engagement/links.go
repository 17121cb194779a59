package engagement

import (
	"net/url"
	"strconv"
	"strings"
)

// Hosts are the sites the outbound links point at.
type Hosts struct {
	// LikeCo is a bare host name, e.g. "like.co".
	LikeCo string
	// LikerLand and Button are base URLs, e.g. "https://liker.land".
	LikerLand string
	Button    string
}

// DefaultHosts are the production sites.
var DefaultHosts = Hosts{
	LikeCo:    "like.co",
	LikerLand: "https://liker.land",
	Button:    "https://button.like.co",
}

// Links builds the URLs the button navigates to.
type Links struct {
	hosts    Hosts
	creator  string
	amount   int
	referrer string
}

// Links returns the link builder for this widget's creator and referrer.
func (w *Widget) Links(h Hosts) Links {
	return NewLinks(h, w.target)
}

// NewLinks returns a link builder for a target.
func NewLinks(h Hosts, t Target) Links {
	if h.LikeCo == "" {
		h.LikeCo = DefaultHosts.LikeCo
	}
	if h.LikerLand == "" {
		h.LikerLand = DefaultHosts.LikerLand
	}
	if h.Button == "" {
		h.Button = DefaultHosts.Button
	}
	h.LikerLand = strings.TrimRight(h.LikerLand, "/")
	h.Button = strings.TrimRight(h.Button, "/")
	t = NormalizeTarget(t)
	return Links{hosts: h, creator: t.CreatorID, amount: t.Amount, referrer: t.Referrer}
}

// query is "?from=<id>[&referrer=<r>]&utm_source=button".
func (l Links) query() string {
	var b strings.Builder
	b.WriteString("?from=")
	b.WriteString(escapeComponent(l.creator))
	if l.referrer != "" {
		b.WriteString("&referrer=")
		b.WriteString(escapeComponent(l.referrer))
	}
	b.WriteString("&utm_source=button")
	return b.String()
}

// SignUp is the like.co register popup.
func (l Links) SignUp() string {
	return "https://" + l.hosts.LikeCo + "/in/register" + l.query() + "&register=1&is_popup=1"
}

// SignUpRedirect is the full page variant that returns to returnURL afterwards.
func (l Links) SignUpRedirect(returnURL string) string {
	return l.SignUp() + "&redirect=" + escapeComponent(returnURL)
}

// SuperLike is the creator's like.co page, with the amount when one was given.
func (l Links) SuperLike() string {
	var amount string
	if l.amount > 0 {
		amount = "/" + strconv.Itoa(l.amount)
	}
	return "https://" + l.hosts.LikeCo + "/" + url.PathEscape(l.creator) + amount + l.query()
}

// LikeStats lists who liked the referrer.
func (l Links) LikeStats() string {
	return l.hosts.Button + "/in/embed/" + url.PathEscape(l.creator) + "/list" + l.query()
}

// CTA points supporters at the welcome page and everyone else at the
// civic liker sign up.
func (l Links) CTA(supporting bool) string {
	if supporting {
		return l.hosts.LikerLand + "/" + url.PathEscape(l.creator) + "?civic_welcome=1"
	}
	return l.hosts.LikerLand + "/" + url.PathEscape(l.creator) + "/civic" + l.query()
}

// Portfolio is the creator's liker.land page.
func (l Links) Portfolio() string {
	u := l.hosts.LikerLand + "/" + url.PathEscape(l.creator) + "/civic?utm_source=button"
	if l.referrer != "" {
		u += "&referrer=" + escapeComponent(l.referrer)
	}
	return u
}

// componentUnescaper undoes the escapes url.QueryEscape adds beyond those of
// a URI component: spaces become %20 and !'()* stay literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s the way the hosted pages decode query values.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
