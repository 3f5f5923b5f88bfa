package domain

import (
	"time"

	"github.com/google/uuid"
)

// Module identifies a sanitation service module. Each module has its own
// target kind, questionnaire and fence radius.
type Module string

const (
	ModuleTaskforce Module = "TASKFORCE" // feeder-point surveys
	ModuleTwinbin   Module = "TWINBIN"   // litter-bin inspections
	ModuleSweeping  Module = "SWEEPING"  // street-sweeping beat inspections
)

// TargetStatus is the lifecycle status of a target point. Owned by the
// backend record; this service reads it for scoping only.
type TargetStatus string

const (
	TargetStatusPending  TargetStatus = "PENDING"
	TargetStatusApproved TargetStatus = "APPROVED"
	TargetStatusAssigned TargetStatus = "ASSIGNED"
	TargetStatusRejected TargetStatus = "REJECTED"
)

// TargetPoint is a feeder point, litter bin or sweeping beat a field
// worker can report against. Location may be absent for targets that
// were registered without a survey fix.
type TargetPoint struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Module    Module       `json:"module" db:"module"`
	AreaName  string       `json:"area_name" db:"area_name"`
	Zone      string       `json:"zone" db:"zone"`
	Ward      string       `json:"ward" db:"ward"`
	Location  *Coordinate  `json:"location,omitempty"`
	Status    TargetStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// HasLocation reports whether a distance check against this target is
// applicable at all.
func (t *TargetPoint) HasLocation() bool {
	return t.Location != nil
}

// Actionable reports whether the target may receive a field report.
func (t *TargetPoint) Actionable() bool {
	return t.Status == TargetStatusApproved || t.Status == TargetStatusAssigned
}

// TargetFilter narrows target listings to the caller's scope.
type TargetFilter struct {
	Module Module
	Zone   string
	Ward   string
	Status TargetStatus
}

// ModuleProfile bundles the per-module rules: which questionnaire a
// report must answer, how close the worker must be, and whether the
// submission needs a server-issued proximity token.
type ModuleProfile struct {
	Module                Module
	FenceRadiusMeters     float64
	Questionnaire         *Questionnaire
	RequireProximityToken bool
}

// ModuleProfiles resolves a ModuleProfile per module. Radii differ per
// module (taskforce 100 m, twinbin 50 m) and are configurable.
type ModuleProfiles struct {
	profiles map[Module]ModuleProfile
}

func NewModuleProfiles(defaultRadius, twinbinRadius float64) *ModuleProfiles {
	return &ModuleProfiles{
		profiles: map[Module]ModuleProfile{
			ModuleTaskforce: {
				Module:            ModuleTaskforce,
				FenceRadiusMeters: defaultRadius,
				Questionnaire:     TaskforceFeederQuestionnaire(),
			},
			ModuleTwinbin: {
				Module:                ModuleTwinbin,
				FenceRadiusMeters:     twinbinRadius,
				Questionnaire:         TwinbinChecklist(),
				RequireProximityToken: true,
			},
			ModuleSweeping: {
				Module:            ModuleSweeping,
				FenceRadiusMeters: defaultRadius,
				Questionnaire:     SweepingBeatQuestionnaire(),
			},
		},
	}
}

// Get returns the profile for a module, or false for unknown modules.
func (p *ModuleProfiles) Get(m Module) (ModuleProfile, bool) {
	profile, ok := p.profiles[m]
	return profile, ok
}
