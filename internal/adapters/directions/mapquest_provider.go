package directions

import (
	"bytes"
	"context"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const DefaultMapQuestBaseURL = "https://www.mapquestapi.com"

// MapQuestProvider implements DirectionsProvider using the MapQuest
// Directions API (route endpoint, kilometers, raw shape).
//
// Calls are throttled by a token bucket and never retried. Deadlines come
// from the caller's context. The provider is safe for concurrent use.
type MapQuestProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	locale  string
	limiter *rate.Limiter
}

type Option func(*MapQuestProvider)

func WithBaseURL(u string) Option {
	return func(m *MapQuestProvider) { m.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(m *MapQuestProvider) { m.session = c }
}

// WithRateLimit allows perSecond calls with a burst of one; perSecond <= 0 disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(m *MapQuestProvider) {
		if perSecond <= 0 {
			m.limiter = nil
			return
		}
		m.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func WithLocale(locale string) Option {
	return func(m *MapQuestProvider) { m.locale = locale }
}

func NewMapQuestProvider(apiKey string, opts ...Option) (*MapQuestProvider, error) {
	if apiKey == "" {
		return nil, errors.New("MapQuest api key is empty")
	}

	provider := &MapQuestProvider{
		session: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		apiKey:  apiKey,
		baseURL: DefaultMapQuestBaseURL,
		locale:  "es_MX",
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, o := range opts {
		o(provider)
	}

	return provider, nil
}

type routeOptions struct {
	RouteType         string `json:"routeType"`
	DoReverseGeocode  bool   `json:"doReverseGeocode"`
	NarrativeType     string `json:"narrativeType"`
	EnhancedNarrative bool   `json:"enhancedNarrative"`
	Unit              string `json:"unit"`
	Locale            string `json:"locale"`
	RouteOptimization bool   `json:"routeOptimization"`
	ShapeFormat       string `json:"shapeFormat"`
	Generalize        int    `json:"generalize"`
}

type routeRequest struct {
	Locations []string     `json:"locations"`
	Options   routeOptions `json:"options"`
}

type mqLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type mqManeuver struct {
	StartPoint mqLatLng `json:"startPoint"`
	Narrative  string   `json:"narrative"`
	Distance   float64  `json:"distance"`
	Time       int      `json:"time"`
	TurnType   int      `json:"turnType"`
	Streets    []string `json:"streets"`
}

type mqLeg struct {
	Maneuvers []mqManeuver `json:"maneuvers"`
}

type mqLocation struct {
	Street     string    `json:"street"`
	AdminArea5 string    `json:"adminArea5"`
	LatLng     *mqLatLng `json:"latLng"`
}

type routeResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Route *struct {
		Distance float64 `json:"distance"`
		Time     int     `json:"time"`
		Legs     []mqLeg `json:"legs"`
		Shape    *struct {
			ShapePoints []float64 `json:"shapePoints"`
		} `json:"shape"`
		Locations   []mqLocation `json:"locations"`
		BoundingBox *struct {
			UL mqLatLng `json:"ul"`
			LR mqLatLng `json:"lr"`
		} `json:"boundingBox"`
	} `json:"route"`
}

// Directions requests a multi-stop route. A non-zero provider status code is
// returned in the response, not as an error.
func (m *MapQuestProvider) Directions(
	ctx context.Context,
	req ports.DirectionsRequest,
) (_ *ports.DirectionsResponse, err error) {
	defer obs.Time(ctx, "mapquest.Directions")(&err)

	if len(req.Locations) < 2 {
		return nil, fmt.Errorf("MapQuest directions: need at least 2 locations, got %d", len(req.Locations))
	}

	bodyObj := routeRequest{
		Locations: req.Locations,
		Options: routeOptions{
			RouteType:         "fastest",
			NarrativeType:     "text",
			EnhancedNarrative: true,
			Unit:              "k",
			Locale:            m.locale,
			RouteOptimization: req.Optimize,
			ShapeFormat:       "raw",
		},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal route request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/directions/v2/route?key=%s", m.baseURL, url.QueryEscape(m.apiKey))
	httpReq, err := m.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := m.do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	return toPortsResponse(&rr), nil
}

func toPortsResponse(rr *routeResponse) *ports.DirectionsResponse {
	out := &ports.DirectionsResponse{
		StatusCode: rr.Info.StatusCode,
		Messages:   rr.Info.Messages,
	}
	if rr.Route == nil {
		return out
	}

	r := rr.Route
	route := &ports.ProviderRoute{
		DistanceKm: r.Distance,
		TimeSecs:   r.Time,
		Legs:       make([]ports.ProviderLeg, 0, len(r.Legs)),
		Locations:  make([]ports.ProviderLocation, 0, len(r.Locations)),
	}

	for _, leg := range r.Legs {
		ms := make([]ports.ProviderManeuver, 0, len(leg.Maneuvers))
		for _, mv := range leg.Maneuvers {
			ms = append(ms, ports.ProviderManeuver{
				StartPoint: domain.Coordinates{Lat: mv.StartPoint.Lat, Lon: mv.StartPoint.Lng},
				Narrative:  mv.Narrative,
				DistanceKm: mv.Distance,
				TimeSecs:   mv.Time,
				TurnType:   mv.TurnType,
				Streets:    mv.Streets,
			})
		}
		route.Legs = append(route.Legs, ports.ProviderLeg{Maneuvers: ms})
	}

	if r.Shape != nil {
		route.ShapePoints = r.Shape.ShapePoints
	}

	for _, loc := range r.Locations {
		pl := ports.ProviderLocation{Street: loc.Street, City: loc.AdminArea5}
		if loc.LatLng != nil {
			pl.LatLng = &domain.Coordinates{Lat: loc.LatLng.Lat, Lon: loc.LatLng.Lng}
		}
		route.Locations = append(route.Locations, pl)
	}

	if r.BoundingBox != nil {
		route.BoundingBox = &domain.BoundingBox{
			UpperLeft:  domain.Coordinates{Lat: r.BoundingBox.UL.Lat, Lon: r.BoundingBox.UL.Lng},
			LowerRight: domain.Coordinates{Lat: r.BoundingBox.LR.Lat, Lon: r.BoundingBox.LR.Lng},
		}
	}

	out.Route = route
	return out
}
