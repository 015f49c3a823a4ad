package ctdf

import "time"

type RouteType string

const (
	RouteTypeDirect       RouteType = "direct"
	RouteTypeTransferViaA RouteType = "transfer-via-a"
	RouteTypeTransferViaB RouteType = "transfer-via-b"
)

type LegKind string

const (
	LegKindDeparture         LegKind = "departure"
	LegKindTransferArrival   LegKind = "transfer-arrival"
	LegKindTransferDeparture LegKind = "transfer-departure"
	LegKindArrival           LegKind = "arrival"
)

func (k LegKind) Icon() string {
	switch k {
	case LegKindDeparture:
		return "🔵"
	case LegKindTransferArrival:
		return "🔶"
	case LegKindTransferDeparture:
		return "🔻"
	case LegKindArrival:
		return "🏁"
	default:
		return ""
	}
}

type Leg struct {
	Kind LegKind   `json:"kind" groups:"basic"`
	Icon string    `json:"icon" groups:"basic"`
	Time TimeOfDay `json:"time" groups:"basic"`
	Text string    `json:"text" groups:"basic"`

	WaitMinutes int `json:"wait_minutes,omitempty" groups:"detailed"`
}

// Route is one candidate journey to the destination. Routes are built once by
// the planner and treated as values afterwards.
type Route struct {
	Type      RouteType `json:"type" groups:"basic"`
	TypeLabel string    `json:"type_label" groups:"basic"`

	Departure TimeOfDay `json:"departure" groups:"basic"`
	Arrival   TimeOfDay `json:"arrival" groups:"basic"`
	TrainType string    `json:"train_type" groups:"basic"`

	TotalMinutes int `json:"total_minutes" groups:"basic"`

	DepartureInstant time.Time `json:"departure_instant" groups:"detailed"`
	ArrivalInstant   time.Time `json:"arrival_instant" groups:"detailed"`

	Timeline []Leg `json:"timeline" groups:"basic"`
}

func (r Route) Transfers() int {
	if r.Type == RouteTypeDirect {
		return 0
	}

	return 1
}

// WaitMinutes is the connection time at the transfer station, zero for direct routes
func (r Route) WaitMinutes() int {
	for _, leg := range r.Timeline {
		if leg.Kind == LegKindTransferArrival {
			return leg.WaitMinutes
		}
	}

	return 0
}

type RouteAlternative struct {
	Route         Route `json:"route" groups:"basic"`
	MinutesBehind int   `json:"minutes_behind" groups:"basic"`
}

type JourneyPlanResults struct {
	OriginStation      string `json:"origin_station" groups:"basic"`
	DestinationStation string `json:"destination_station" groups:"basic"`

	Departure   TimeOfDay `json:"departure" groups:"basic"`
	ServiceDate string    `json:"service_date" groups:"basic"`

	Routes []Route `json:"routes" groups:"detailed"`

	Best         *Route             `json:"best" groups:"basic"`
	Alternatives []RouteAlternative `json:"alternatives" groups:"basic"`
}

// NewJourneyPlanResults splits ranked routes into the best route and the
// remaining alternatives with their delay against it
func NewJourneyPlanResults(origin string, destination string, departure TimeOfDay, serviceDate time.Time, routes []Route) *JourneyPlanResults {
	results := &JourneyPlanResults{
		OriginStation:      origin,
		DestinationStation: destination,
		Departure:          departure,
		ServiceDate:        serviceDate.Format(time.DateOnly),
		Routes:             routes,
		Alternatives:       []RouteAlternative{},
	}

	if len(routes) == 0 {
		return results
	}

	best := routes[0]
	results.Best = &best

	for _, route := range routes[1:] {
		behind := route.TotalMinutes - best.TotalMinutes
		if behind < 0 {
			behind = 0
		}

		results.Alternatives = append(results.Alternatives, RouteAlternative{
			Route:         route,
			MinutesBehind: behind,
		})
	}

	return results
}

func (r *JourneyPlanResults) Found() bool {
	return r.Best != nil
}
