package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/orderfeed/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// carrierTrackingURLs maps a lower-cased carrier name to its tracking page. The
// tracking number is appended query-escaped.
var carrierTrackingURLs = map[string]string{
	"ups":                            "http://wwwapps.ups.com/WebTracking/track?track=yes&trackNums=",
	"usps":                           "https://tools.usps.com/go/TrackConfirmAction_input?qtc_tLabels1=",
	"fedex":                          "http://www.fedex.com/Tracking?action=track&tracknumbers=",
	"fedexinternationalmailservice": "http://www.fedex.com/Tracking?action=track&tracknumbers=",
}

// TrackingLinkResolver builds carrier tracking links for shipment confirmations
type TrackingLinkResolver struct {
	hooks         *fulfillment.Hooks
	shippingInfos commerce.ShippingInfoRepository
}

// NewTrackingLinkResolver creates a new TrackingLinkResolver
func NewTrackingLinkResolver(hooks *fulfillment.Hooks, shippingInfos commerce.ShippingInfoRepository) *TrackingLinkResolver {
	return &TrackingLinkResolver{
		hooks:         hooks,
		shippingInfos: shippingInfos,
	}
}

// TrackingURL returns the tracking link for info. A registered hook answer is used
// verbatim; otherwise the carrier is matched against the known carriers.
func (r *TrackingLinkResolver) TrackingURL(ctx context.Context, info commerce.ShippingInfo) (string, bool) {
	if u, ok := r.hooks.TrackingURL(ctx, info); ok {
		return u, true
	}
	base, ok := carrierTrackingURLs[cases.Lower(language.Und).String(info.Carrier)]
	if !ok {
		return "", false
	}
	return base + url.QueryEscape(info.TrackingNumber), true
}

// LatestTrackingURL resolves the link of the order's active shipping entry.
// ok is false when the order has no entry or its carrier is unknown.
func (r *TrackingLinkResolver) LatestTrackingURL(ctx context.Context, orderID int64) (string, bool, error) {
	info, err := r.shippingInfos.FindLatest(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	u, ok := r.TrackingURL(ctx, *info)
	return u, ok, nil
}

// TrackingLinkHTML renders the tracking number as a link when one resolves,
// otherwise as the escaped number alone.
func (r *TrackingLinkResolver) TrackingLinkHTML(ctx context.Context, info commerce.ShippingInfo) string {
	number := html.EscapeString(info.TrackingNumber)
	u, ok := r.TrackingURL(ctx, info)
	if !ok {
		return number
	}
	return fmt.Sprintf(`<a target="blank" href="%s">%s</a>`, html.EscapeString(u), number)
}
