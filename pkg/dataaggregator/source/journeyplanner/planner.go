package journeyplanner

import (
	"fmt"
	"time"

	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/util"
	"golang.org/x/exp/slices"
)

// Planner enumerates the journeys from an origin station to the destination
// over a pair of timetables. It never modifies the timetables it is given.
type Planner struct {
	Config *config.Config
}

func NewPlanner(c *config.Config) *Planner {
	return &Planner{Config: c}
}

// FindRoutes returns every direct and single transfer route departing the
// origin within the departure window after the target time. The result is in
// enumeration order, see RankRoutes.
func (p *Planner) FindRoutes(origin ctdf.Station, target ctdf.TimeOfDay, serviceDay time.Time, timetables *ctdf.Timetables) []ctdf.Route {
	rules := p.Config.Rules
	routes := []ctdf.Route{}

	queryInstant := target.On(serviceDay)

	for i := range timetables.Origin {
		train1 := &timetables.Origin[i]

		departure, ok := train1.Cell(origin.Column).Time()
		if !ok {
			continue
		}

		departureInstant := departure.On(serviceDay)
		if departureInstant.Before(queryInstant) {
			continue
		}
		if departureInstant.Sub(queryInstant) > rules.DepartureWindow {
			continue
		}

		if route, ok := p.directRoute(origin, train1, departure, departureInstant, serviceDay); ok {
			routes = append(routes, route)
		}

		if origin.Name != p.Config.Network.TransferA {
			if route, ok := p.transferARoute(origin, train1, departure, departureInstant, serviceDay, timetables); ok {
				routes = append(routes, route)
			}
		}

		if route, ok := p.transferBRoute(origin, train1, departure, departureInstant, serviceDay, timetables); ok {
			routes = append(routes, route)
		}
	}

	return routes
}

func (p *Planner) directRoute(origin ctdf.Station, train1 *ctdf.TimetableEntry, departure ctdf.TimeOfDay, departureInstant time.Time, serviceDay time.Time) (ctdf.Route, bool) {
	arrival, ok := train1.DirectArrivalTime.Time()
	if !ok {
		return ctdf.Route{}, false
	}

	arrivalInstant := util.RollOver(arrival.On(serviceDay), departureInstant)
	if !arrivalInstant.After(departureInstant) {
		return ctdf.Route{}, false
	}

	return ctdf.Route{
		Type:             ctdf.RouteTypeDirect,
		TypeLabel:        p.Config.DirectLabel(),
		Departure:        departure,
		Arrival:          arrival,
		TrainType:        train1.TrainType,
		TotalMinutes:     util.WholeMinutesBetween(arrivalInstant, departureInstant),
		DepartureInstant: departureInstant,
		ArrivalInstant:   arrivalInstant,
		Timeline: []ctdf.Leg{
			departureLeg(ctdf.LegKindDeparture, departure, origin.Name, train1.TrainType, train1.Destination),
			p.arrivalLeg(arrival),
		},
	}, true
}

// transferARoute connects at station A onto the first later train in the
// origin timetable that reaches the destination within the wait cap. Rows are
// taken in timetable order, not by shortest wait.
func (p *Planner) transferARoute(origin ctdf.Station, train1 *ctdf.TimetableEntry, departure ctdf.TimeOfDay, departureInstant time.Time, serviceDay time.Time, timetables *ctdf.Timetables) (ctdf.Route, bool) {
	rules := p.Config.Rules
	stationA := p.Config.Network.TransferA

	transferArrival, ok := train1.TransferATime.Time()
	if !ok {
		return ctdf.Route{}, false
	}

	transferArrivalInstant := util.RollOver(transferArrival.On(serviceDay), departureInstant)
	if !transferArrivalInstant.After(departureInstant) {
		return ctdf.Route{}, false
	}

	readyInstant := transferArrivalInstant.Add(rules.TransferAMinimum)

	for j := range timetables.Origin {
		train2 := &timetables.Origin[j]

		arrival, ok := train2.DirectArrivalTime.Time()
		if !ok {
			continue
		}

		connection, ok := train2.TransferATime.Time()
		if !ok {
			continue
		}

		connectionInstant := util.RollOver(connection.On(serviceDay), departureInstant)
		if connectionInstant.Before(readyInstant) {
			continue
		}

		if connectionInstant.Sub(transferArrivalInstant) > rules.TransferAMaximumWait {
			continue
		}

		arrivalInstant := util.RollOver(arrival.On(serviceDay), connectionInstant)
		waitMinutes := util.WholeMinutesBetween(connectionInstant, transferArrivalInstant)

		return ctdf.Route{
			Type:             ctdf.RouteTypeTransferViaA,
			TypeLabel:        p.Config.TransferALabel(),
			Departure:        departure,
			Arrival:          arrival,
			TrainType:        train1.TrainType,
			TotalMinutes:     util.WholeMinutesBetween(arrivalInstant, departureInstant),
			DepartureInstant: departureInstant,
			ArrivalInstant:   arrivalInstant,
			Timeline: []ctdf.Leg{
				departureLeg(ctdf.LegKindDeparture, departure, origin.Name, train1.TrainType, train1.Destination),
				transferLeg(transferArrival, stationA, waitMinutes),
				departureLeg(ctdf.LegKindTransferDeparture, connection, stationA, train2.TrainType, train2.Destination),
				p.arrivalLeg(arrival),
			},
		}, true
	}

	return ctdf.Route{}, false
}

// transferBRoute connects at station B onto the first train in the transfer
// timetable leaving at or after the ready time. The wait is unbounded.
func (p *Planner) transferBRoute(origin ctdf.Station, train1 *ctdf.TimetableEntry, departure ctdf.TimeOfDay, departureInstant time.Time, serviceDay time.Time, timetables *ctdf.Timetables) (ctdf.Route, bool) {
	stationB := p.Config.Network.TransferB

	transferArrival, ok := train1.TransferBArrival.Time()
	if !ok {
		return ctdf.Route{}, false
	}

	transferArrivalInstant := util.RollOver(transferArrival.On(serviceDay), departureInstant)
	if !transferArrivalInstant.After(departureInstant) {
		return ctdf.Route{}, false
	}

	// Compared as clock times, so a ready time past midnight matches early trains
	ready := ctdf.TimeOfDayFromTime(transferArrivalInstant.Add(p.Config.Rules.TransferBMinimum))

	var connectingTrain *ctdf.TransferTimetableEntry
	var connection ctdf.TimeOfDay

	for k := range timetables.Transfer {
		candidate, ok := timetables.Transfer[k].DepartureTime.Time()
		if ok && candidate >= ready {
			connectingTrain = &timetables.Transfer[k]
			connection = candidate
			break
		}
	}

	if connectingTrain == nil {
		return ctdf.Route{}, false
	}

	arrival, ok := connectingTrain.DirectArrivalTime.Time()
	if !ok {
		return ctdf.Route{}, false
	}

	arrivalInstant := util.RollOver(arrival.On(serviceDay), transferArrivalInstant)
	waitMinutes := util.WholeMinutesBetween(connection.On(serviceDay), transferArrivalInstant)

	return ctdf.Route{
		Type:             ctdf.RouteTypeTransferViaB,
		TypeLabel:        p.Config.TransferBLabel(),
		Departure:        departure,
		Arrival:          arrival,
		TrainType:        train1.TrainType,
		TotalMinutes:     util.WholeMinutesBetween(arrivalInstant, departureInstant),
		DepartureInstant: departureInstant,
		ArrivalInstant:   arrivalInstant,
		Timeline: []ctdf.Leg{
			departureLeg(ctdf.LegKindDeparture, departure, origin.Name, train1.TrainType, train1.Destination),
			transferLeg(transferArrival, stationB, waitMinutes),
			departureLeg(ctdf.LegKindTransferDeparture, connection, stationB, connectingTrain.TrainType, connectingTrain.Destination),
			p.arrivalLeg(arrival),
		},
	}, true
}

// RankRoutes orders routes by arrival, keeping enumeration order for ties.
// The input slice is left untouched.
func RankRoutes(routes []ctdf.Route) []ctdf.Route {
	ranked := slices.Clone(routes)

	slices.SortStableFunc(ranked, func(a, b ctdf.Route) int {
		return a.ArrivalInstant.Compare(b.ArrivalInstant)
	})

	return ranked
}

func departureLeg(kind ctdf.LegKind, at ctdf.TimeOfDay, station string, trainType string, destination string) ctdf.Leg {
	return ctdf.Leg{
		Kind: kind,
		Icon: kind.Icon(),
		Time: at,
		Text: fmt.Sprintf("%s 発 (%s・%s行)", station, trainType, destination),
	}
}

func transferLeg(at ctdf.TimeOfDay, station string, waitMinutes int) ctdf.Leg {
	return ctdf.Leg{
		Kind:        ctdf.LegKindTransferArrival,
		Icon:        ctdf.LegKindTransferArrival.Icon(),
		Time:        at,
		Text:        fmt.Sprintf("%s 着 (待ち%d分)", station, waitMinutes),
		WaitMinutes: waitMinutes,
	}
}

func (p *Planner) arrivalLeg(at ctdf.TimeOfDay) ctdf.Leg {
	return ctdf.Leg{
		Kind: ctdf.LegKindArrival,
		Icon: ctdf.LegKindArrival.Icon(),
		Time: at,
		Text: fmt.Sprintf("%s 着", p.Config.Network.Destination),
	}
}
