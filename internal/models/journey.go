package models

import (
	"github.com/twpayne/go-polyline"

	"raptor.opentransit.org/internal/raptor"
	"raptor.opentransit.org/internal/utils"
)

// LegModel is the JSON shape of one journey leg: either riding a trip or
// walking a transfer between platforms.
type LegModel struct {
	Mode          string    `json:"mode"`
	Trip          string    `json:"trip,omitempty"`
	From          StopModel `json:"from"`
	To            StopModel `json:"to"`
	Departure     string    `json:"departure"`
	DepartureSecs int       `json:"departureSecs"`
	Arrival       string    `json:"arrival"`
	ArrivalSecs   int       `json:"arrivalSecs"`
	Fare          float64   `json:"fare,omitempty"`
	Geometry      string    `json:"geometry,omitempty"`
}

// JourneyModel is the JSON shape of a full journey.
type JourneyModel struct {
	From          string     `json:"from"`
	To            string     `json:"to"`
	Departure     string     `json:"departure"`
	DepartureSecs int        `json:"departureSecs"`
	Arrival       string     `json:"arrival"`
	ArrivalSecs   int        `json:"arrivalSecs"`
	TravelTime    int        `json:"travelTimeSecs"`
	Transfers     int        `json:"transfers"`
	Fare          float64    `json:"fare"`
	Legs          []LegModel `json:"legs"`
}

// NewLegModel builds a LegModel from a journey leg.
func NewLegModel(leg raptor.Leg) LegModel {
	model := LegModel{
		Mode:          "trip",
		From:          NewStopModel(leg.From),
		To:            NewStopModel(leg.To),
		Departure:     utils.FormatTimeOfDay(leg.Departure),
		DepartureSecs: leg.Departure,
		Arrival:       utils.FormatTimeOfDay(leg.Arrival),
		ArrivalSecs:   leg.Arrival,
		Fare:          leg.Fare,
		Geometry:      legGeometry(leg),
	}
	if leg.IsTransfer() {
		model.Mode = "walk"
	} else {
		model.Trip = leg.Trip.LongName
	}
	return model
}

// NewJourneyModel builds a JourneyModel from a reconstructed journey.
func NewJourneyModel(j raptor.Journey) JourneyModel {
	legs := make([]LegModel, 0, len(j.Legs))
	for _, leg := range j.Legs {
		legs = append(legs, NewLegModel(leg))
	}

	model := JourneyModel{
		Departure:     utils.FormatTimeOfDay(j.Departure()),
		DepartureSecs: j.Departure(),
		Arrival:       utils.FormatTimeOfDay(j.Arrival()),
		ArrivalSecs:   j.Arrival(),
		TravelTime:    j.TravelTime(),
		Transfers:     j.Transfers(),
		Fare:          j.Fare(),
		Legs:          legs,
	}
	if len(j.Legs) > 0 {
		model.From = j.Legs[0].From.Station.Name
		model.To = j.Legs[len(j.Legs)-1].To.Station.Name
	}
	return model
}

// NewJourneyModels builds JourneyModels for a slice of journeys.
func NewJourneyModels(journeys []raptor.Journey) []JourneyModel {
	result := make([]JourneyModel, 0, len(journeys))
	for _, j := range journeys {
		result = append(result, NewJourneyModel(j))
	}
	return result
}

// legGeometry encodes the leg's endpoints as a Google polyline. Legs whose
// stops carry no coordinates get no geometry.
func legGeometry(leg raptor.Leg) string {
	if (leg.From.Lat == 0 && leg.From.Lon == 0) || (leg.To.Lat == 0 && leg.To.Lon == 0) {
		return ""
	}
	coords := [][]float64{
		{leg.From.Lat, leg.From.Lon},
		{leg.To.Lat, leg.To.Lon},
	}
	return string(polyline.EncodeCoords(coords))
}
