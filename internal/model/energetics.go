package model

// Energetics are the proxy thermodynamic quantities of one state snapshot.
type Energetics struct {
	// WStruct is the useful work converted into structure.
	WStruct float64
	// EDiss is transformation inefficiency plus structural maintenance.
	EDiss float64
	// Pt is the predictive efficiency WStruct / (EDiss + epsilon).
	Pt float64
}

// ComputeEnergetics derives work, dissipation and efficiency from a state
// snapshot and its dynamic coherence. Negative information is floored at
// zero and coupling is clamped, so WStruct and EDiss are never negative and
// Pt is always finite for a validated parameter set.
func ComputeEnergetics(iRaw, iSub, coupling, cDynamic, load float64, p Parameters) Energetics {
	iRaw = FloorZero(iRaw)
	iSub = FloorZero(iSub)
	coupling = Clamp01(coupling)

	lam := p.Lambda(load)

	convFrac := Clamp01(coupling * p.Alpha * cDynamic)
	wStruct := convFrac * lam * iRaw

	costTransform := (1 - convFrac) * lam * iRaw
	costMaintenance := p.Mu * iSub
	eDiss := costTransform + costMaintenance

	return Energetics{
		WStruct: wStruct,
		EDiss:   eDiss,
		Pt:      wStruct / (eDiss + p.Epsilon),
	}
}
