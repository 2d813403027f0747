package wire

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
)

// Report field names.
const (
	FieldStart          = "start"
	FieldEnd            = "end"
	FieldTotalReadings  = "total_readings"
	FieldFireReadings   = "fire_readings"
	FieldNormalReadings = "normal_readings"
	FieldWarnings       = "warnings"
	FieldCriticalAlerts = "critical_alerts"
	FieldRaised         = "raised"
	FieldCleared        = "cleared"
	FieldAverages       = "averages"
)

// FromReport converts a monitoring report to a Struct.
func FromReport(r *alert.Report) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldStart:          structpb.NewStringValue(formatTime(r.Start)),
		FieldEnd:            structpb.NewStringValue(formatTime(r.End)),
		FieldTotalReadings:  structpb.NewNumberValue(float64(r.TotalReadings)),
		FieldFireReadings:   structpb.NewNumberValue(float64(r.FireReadings)),
		FieldNormalReadings: structpb.NewNumberValue(float64(r.NormalReadings)),
		FieldWarnings:       structpb.NewNumberValue(float64(r.Warnings)),
		FieldCriticalAlerts: structpb.NewNumberValue(float64(r.CriticalAlerts)),
		FieldRaised:         structpb.NewNumberValue(float64(r.Raised)),
		FieldCleared:        structpb.NewNumberValue(float64(r.Cleared)),
		FieldAverages:       structpb.NewStructValue(FromReading(r.Averages)),
	}}
}

// ToReport converts a Struct produced by FromReport.
func ToReport(s *structpb.Struct) (*alert.Report, error) {
	fields := s.GetFields()

	start, err := parseTime(fields[FieldStart].GetStringValue())
	if err != nil {
		return nil, err
	}

	end, err := parseTime(fields[FieldEnd].GetStringValue())
	if err != nil {
		return nil, err
	}

	averages, err := ToReading(fields[FieldAverages].GetStructValue())
	if err != nil {
		return nil, err
	}

	return &alert.Report{
		Start:          start,
		End:            end,
		TotalReadings:  int(fields[FieldTotalReadings].GetNumberValue()),
		FireReadings:   int(fields[FieldFireReadings].GetNumberValue()),
		NormalReadings: int(fields[FieldNormalReadings].GetNumberValue()),
		Warnings:       int(fields[FieldWarnings].GetNumberValue()),
		CriticalAlerts: int(fields[FieldCriticalAlerts].GetNumberValue()),
		Raised:         int(fields[FieldRaised].GetNumberValue()),
		Cleared:        int(fields[FieldCleared].GetNumberValue()),
		Averages:       averages,
	}, nil
}
