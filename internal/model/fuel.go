package model

// Fuel identifies a generator's primary fuel type.
type Fuel string

const (
	FuelCoal       Fuel = "coal"
	FuelNuclear    Fuel = "nuclear"
	FuelGeothermal Fuel = "geothermal"
	FuelHydro      Fuel = "hydro"
	FuelWind       Fuel = "wind"
	FuelSolar      Fuel = "solar"
	FuelNaturalGas Fuel = "natural-gas"
	FuelOil        Fuel = "distillate-fuel-oil"
	FuelBiomass    Fuel = "biomass"
	FuelOther      Fuel = "other"
)

// IsRenewable reports whether the fuel's output ceiling comes from a
// time-series profile rather than the nameplate pmax.
func (f Fuel) IsRenewable() bool {
	switch f {
	case FuelHydro, FuelWind, FuelSolar:
		return true
	}
	return false
}

// Known reports whether f is one of the recognised fuel types.
func (f Fuel) Known() bool {
	switch f {
	case FuelCoal, FuelNuclear, FuelGeothermal, FuelHydro, FuelWind,
		FuelSolar, FuelNaturalGas, FuelOil, FuelBiomass, FuelOther:
		return true
	}
	return false
}
