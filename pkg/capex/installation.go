package capex

// InstallationRates are the per square meter unit costs in base currency.
type InstallationRates struct {
	Cabling        float64
	Infrastructure float64
	Labor          float64
}

// PerSquareMeter returns the combined unit rate.
func (r InstallationRates) PerSquareMeter() float64 {
	return r.Cabling + r.Infrastructure + r.Labor
}

// InstallationTotal scales the combined unit rate by the floor area of every hub.
func InstallationTotal(rates InstallationRates, avgAreaPerHub float64, totalHubs int) float64 {
	return rates.PerSquareMeter() * avgAreaPerHub * float64(totalHubs)
}
