// Package booking decides where a guest goes after choosing a room:
// out to the external reservation engine when the stay dates are known,
// or to the room's detail page when they are not.
package booking

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// DeepLinkDateLayout is the dd/MM/yyyy layout the reservation engine expects.
const DeepLinkDateLayout = "02/01/2006"

// Fixed query values of the reservation engine deep-link.
const (
	TargetTemplate  = "4"
	DefaultCurrency = "INR"
)

// Kind tells the caller how to act on an Intent.
type Kind string

const (
	KindExternal Kind = "external"
	KindInternal Kind = "internal"
)

// Intent is the decision returned by Dispatch.  URL is set for
// KindExternal, Route for KindInternal.
type Intent struct {
	Kind   Kind   `json:"kind"`
	UnitID string `json:"unit_id"`
	URL    string `json:"url,omitempty"`
	Route  string `json:"route,omitempty"`
	Auto   bool   `json:"auto"`
}

// Target returns the URL or route, whichever applies.
func (i Intent) Target() string {
	if i.Kind == KindExternal {
		return i.URL
	}
	return i.Route
}

// Dispatcher builds reservation engine deep-links.
type Dispatcher struct {
	BaseURL  string
	RegCode  string
	Currency string
}

// NewDispatcher returns a dispatcher for the given engine base URL and
// property registration code.
func NewDispatcher(baseURL, regCode string) *Dispatcher {
	return &Dispatcher{BaseURL: baseURL, RegCode: regCode, Currency: DefaultCurrency}
}

// Dispatch is pure: the same unit and criteria always give the same Intent.
func (d *Dispatcher) Dispatch(unit model.BookableUnit, c model.SearchCriteria) Intent {
	if !c.HasDates() || d.BaseURL == "" {
		return Intent{Kind: KindInternal, UnitID: unit.ID, Route: RoomRoute(unit.ID)}
	}
	return Intent{Kind: KindExternal, UnitID: unit.ID, URL: d.DeepLink(c)}
}

// DeepLink renders the engine URL.  The parameter order is fixed so the
// output is byte-identical across calls.  Both dates must be set.
func (d *Dispatcher) DeepLink(c model.SearchCriteria) string {
	arr := c.CheckIn.Format(DeepLinkDateLayout)
	dep := c.CheckOut.Format(DeepLinkDateLayout)
	curr := d.Currency
	if curr == "" {
		curr = DefaultCurrency
	}

	var b strings.Builder
	b.WriteString(d.BaseURL)
	if strings.Contains(d.BaseURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString("targetTemplate=" + TargetTemplate)
	b.WriteString("&regCode=" + url.QueryEscape(d.RegCode))
	b.WriteString("&curr=" + url.QueryEscape(curr))
	// dd/MM/yyyy goes out unescaped; the engine does not decode %2F.
	b.WriteString("&arrDate=" + arr)
	b.WriteString("&depDate=" + dep)
	b.WriteString("&arr_date=" + arr)
	b.WriteString("&dep_date=" + dep)
	b.WriteString("&adult_1=" + strconv.Itoa(c.Adults))
	return b.String()
}

// RoomRoute is the in-app detail route for a room.
func RoomRoute(unitID string) string {
	return "/hotels/room/" + url.PathEscape(unitID)
}
