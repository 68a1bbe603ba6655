package main

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curverisk/bond"
	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/curve"
	"github.com/meenmo/curverisk/risk"
	"github.com/meenmo/curverisk/utils"
)

func main() {
	zeros := map[string]float64{
		"3M":  2.7600000000,
		"6M":  2.7225000000,
		"1Y":  2.7225000000,
		"2Y":  2.8075000000,
		"3Y":  2.8882142857,
		"5Y":  3.0189285714,
		"7Y":  3.0889285714,
		"10Y": 3.1578571429,
		"20Y": 3.0946428571,
	}
	spreads := map[string]float64{
		"3M": 0.05, "6M": 0.06, "1Y": 0.08, "2Y": 0.11, "3Y": 0.14,
		"5Y": 0.19, "7Y": 0.23, "10Y": 0.28, "20Y": 0.35,
	}

	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	crv, err := curve.FromTenors(settlement, calendar.KRW, zeros, spreads, utils.Act365F)
	if err != nil {
		panic(err)
	}

	cfs, err := bond.FixedBond(10000000000, 3.24, settlement, time.Date(2035, 11, 21, 0, 0, 0, 0, time.UTC), 6, calendar.KRW, utils.Act365F)
	if err != nil {
		panic(err)
	}

	res, err := risk.NewGamma(risk.BumpRisker{Instrument: cfs}).CrossGamma(crv, nil)
	if err != nil {
		panic(err)
	}

	ss, sz, zz := res.Parallel()
	fmt.Printf("PV: %.2f\n", cfs.PV(crv, crv))
	fmt.Printf("dP/ds ds:\n%.4f\n", mat.Formatted(res.SpreadSpread, mat.Squeeze()))
	fmt.Printf("dP/ds dz:\n%.4f\n", mat.Formatted(res.SpreadZero, mat.Squeeze()))
	fmt.Printf("Parallel: dsds=%.4f dsdz=%.4f dzdz=%.4f\n", ss, sz, zz)
}
