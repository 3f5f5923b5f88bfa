package dto

import "github.com/fieldops-microservice/internal/domain"

// ListTargetsRequest - query filters for a target listing
type ListTargetsRequest struct {
	Module string `query:"module" validate:"omitempty,oneof=TASKFORCE TWINBIN SWEEPING"`
	Zone   string `query:"zone" validate:"omitempty,max=100"`
	Ward   string `query:"ward" validate:"omitempty,max=100"`
	Status string `query:"status" validate:"omitempty,oneof=PENDING APPROVED ASSIGNED REJECTED"`
}

// ListTargetsResponse - target listing with count
type ListTargetsResponse struct {
	Targets []TargetDTO `json:"targets"`
	Total   int         `json:"total"`
}

// TargetDTO - one target point as presented to field apps
type TargetDTO struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Module   string             `json:"module"`
	AreaName string             `json:"area_name,omitempty"`
	Zone     string             `json:"zone,omitempty"`
	Ward     string             `json:"ward,omitempty"`
	Location *domain.Coordinate `json:"location,omitempty"`
	Status   string             `json:"status"`
}

// NearestTargetRequest - origin point for nearest-target selection
type NearestTargetRequest struct {
	Latitude  float64 `query:"lat" validate:"min=-90,max=90"`
	Longitude float64 `query:"lon" validate:"min=-180,max=180"`
	Module    string  `query:"module" validate:"omitempty,oneof=TASKFORCE TWINBIN SWEEPING"`
	Zone      string  `query:"zone" validate:"omitempty,max=100"`
	Ward      string  `query:"ward" validate:"omitempty,max=100"`
}

// NearestTargetResponse - nearest reachable target, null when none exists
type NearestTargetResponse struct {
	Target         *TargetDTO `json:"target"`
	DistanceMeters *float64   `json:"distance_meters,omitempty"`
}

// TargetFromDomain maps a domain target onto the transport shape.
func TargetFromDomain(t *domain.TargetPoint) TargetDTO {
	return TargetDTO{
		ID:       t.ID.String(),
		Name:     t.Name,
		Module:   string(t.Module),
		AreaName: t.AreaName,
		Zone:     t.Zone,
		Ward:     t.Ward,
		Location: t.Location,
		Status:   string(t.Status),
	}
}
