package plan

import (
	"time"

	"salescomp/internal/domain/comp"
)

type Plan struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	PlanYear            int       `json:"planYear"`
	Status              string    `json:"status"`
	CollectionGraceDays int       `json:"collectionGraceDays"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Metric is one weighted component of a plan: its payout logic, gate,
// multiplier grid and booking/collection/year-end split.
type Metric struct {
	ID               string                `json:"id"`
	PlanID           string                `json:"planId"`
	Name             string                `json:"name"`
	LogicType        string                `json:"logicType"`
	WeightagePct     float64               `json:"weightagePct"`
	GateThresholdPct *float64              `json:"gateThresholdPct,omitempty"`
	Split            comp.PayoutSplit      `json:"split"`
	Bands            []comp.MultiplierBand `json:"bands"`
}

// Spiff is a fixed incentive pool attributed across an employee's deals
// outside the weighted metric calculation.
type Spiff struct {
	ID      string           `json:"id"`
	PlanID  string           `json:"planId"`
	Name    string           `json:"name"`
	PoolUSD float64          `json:"poolUsd"`
	Split   comp.PayoutSplit `json:"split"`
}

// ToComp converts the stored metric into the calculation engine's shape.
func (m Metric) ToComp() comp.Metric {
	return comp.Metric{
		ID:               m.ID,
		Name:             m.Name,
		LogicType:        m.LogicType,
		WeightagePct:     m.WeightagePct,
		GateThresholdPct: m.GateThresholdPct,
		Grid:             m.Bands,
		Split:            m.Split,
	}
}
