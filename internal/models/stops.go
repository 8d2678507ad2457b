package models

import "raptor.opentransit.org/internal/timetable"

// StopModel is the JSON shape of a single platform.
type StopModel struct {
	ID           string  `json:"id"`
	DisplayID    string  `json:"displayId"`
	Station      string  `json:"station"`
	PlatformCode string  `json:"platformCode"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// StationModel is the JSON shape of a station and its platforms.
type StationModel struct {
	Name  string      `json:"name"`
	Stops []StopModel `json:"stops"`
}

// NewStopModel builds a StopModel from a timetable stop.
func NewStopModel(stop *timetable.Stop) StopModel {
	return StopModel{
		ID:           stop.ID,
		DisplayID:    stop.DisplayID(),
		Station:      stop.Station.Name,
		PlatformCode: stop.PlatformCode,
		Lat:          stop.Lat,
		Lon:          stop.Lon,
	}
}

// NewStationModel builds a StationModel from a timetable station.
func NewStationModel(station *timetable.Station) StationModel {
	stops := make([]StopModel, 0, len(station.Stops))
	for _, stop := range station.Stops {
		stops = append(stops, NewStopModel(stop))
	}
	return StationModel{
		Name:  station.Name,
		Stops: stops,
	}
}

// NewStopModels builds StopModels for a slice of stops.
func NewStopModels(stops []*timetable.Stop) []StopModel {
	result := make([]StopModel, 0, len(stops))
	for _, stop := range stops {
		result = append(result, NewStopModel(stop))
	}
	return result
}
