// Package document defines the validated extraction result and its
// validation contract. A FieldDocument exists only after raw model output
// passes schema validation; it is never partially constructed or mutated.
package document

import "time"

// FieldDocument is a validated maritime cargo field document.
type FieldDocument struct {
	Barge                    BargeInfo                `json:"barge"`
	Port                     PortInfo                 `json:"port"`
	Arrival                  ArrivalDeparture         `json:"arrival"`
	Departure                ArrivalDeparture         `json:"departure"`
	ProductsLoadedDischarged map[string]ProductTotals `json:"products_loaded_discharged,omitempty"`
}

// BargeInfo identifies the barge.
type BargeInfo struct {
	Name         string  `json:"name"`
	VoyageNumber *string `json:"voyage_number,omitempty"`
	OtbJobNumber *string `json:"otb_job_number,omitempty"`
}

// PortInfo identifies the serviced vessel and port.
type PortInfo struct {
	VesselName string  `json:"vessel_name"`
	PortCity   *string `json:"port_city,omitempty"`
}

// ArrivalDeparture is one side of the transfer (recorded twice: on arrival
// and on departure).
type ArrivalDeparture struct {
	WaterSpecificGravity *float64                 `json:"water_specific_gravity,omitempty"`
	DraftsFt             *Drafts                  `json:"drafts_ft,omitempty"`
	Timestamps           *Timestamps              `json:"timestamps,omitempty"`
	Tanks                []TankCondition          `json:"tanks"`
	SummaryByProduct     map[string]ProductTotals `json:"summary_by_product,omitempty"`
}

// Drafts is a four-corner draft reading in feet.
type Drafts struct {
	FwdPort float64 `json:"fwd_port"`
	FwdStbd float64 `json:"fwd_stbd"`
	AftPort float64 `json:"aft_port"`
	AftStbd float64 `json:"aft_stbd"`
}

// Timestamps are the named transfer milestones. All optional; documents
// rarely record every one.
type Timestamps struct {
	Arrival *time.Time `json:"arrival,omitempty"`
	AllFast *time.Time `json:"all_fast,omitempty"`
	BoomOn  *time.Time `json:"boom_on,omitempty"`
	HoseOn  *time.Time `json:"hose_on,omitempty"`
	CommLd  *time.Time `json:"comm_ld,omitempty"`
	CompLd  *time.Time `json:"comp_ld,omitempty"`
	HoseOff *time.Time `json:"hose_off,omitempty"`
	BoomOff *time.Time `json:"boom_off,omitempty"`
	Depart  *time.Time `json:"depart,omitempty"`
}

// TankCondition is one tank row. WaterBbls is a plain float64 so an omitted
// value reads as 0, matching the document convention of leaving dry tanks
// blank.
type TankCondition struct {
	TankID       string   `json:"tank_id"`
	Product      string   `json:"product"`
	API          float64  `json:"api"`
	UllageFt     float64  `json:"ullage_ft"`
	UllageIn     float64  `json:"ullage_in"`
	TemperatureF float64  `json:"temperature_f"`
	WaterBbls    float64  `json:"water_bbls"`
	GrossBbls    float64  `json:"gross_bbls"`
	NetBbls      *float64 `json:"net_bbls,omitempty"`
	MetricTons   *float64 `json:"metric_tons,omitempty"`
}

// ProductTotals are summary volumes for one product.
type ProductTotals struct {
	GrossBbls  float64  `json:"gross_bbls"`
	NetBbls    *float64 `json:"net_bbls,omitempty"`
	MetricTons *float64 `json:"metric_tons,omitempty"`
}
