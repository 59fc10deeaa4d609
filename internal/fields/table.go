package fields

import "github.com/tamzrod/luxtronik-bridge/internal/i18n"

// Register addresses within the READ_CALCUL frame.
const (
	regSupplyTemp       = 10
	regReturnTemp       = 11
	regReturnTempTarget = 12
	regOutsideTemp      = 15
	regOutsideTempAvg   = 16
	regDHWTemp          = 17
	regSourceInTemp     = 19
	regSourceOutTemp    = 20
	regMC1Temp          = 21
	regMC1TempTarget    = 22
	regMC2Temp          = 24
	regMC2TempTarget    = 25
	regWorkingMode      = 80
	regFlow             = 173
	regRoomTemp         = 227
	regRoomTempTarget   = 228
	regCompressorFreq   = 231
	regHeatOutput       = 257
	regPowerInput       = 268
)

// Register addresses within the READ_PARAMS frame; for writable fields the
// same address is used on the WRIT_PARAMS side.
const (
	paramTempOffset    = 1
	paramHeatingMode   = 3
	paramHotWaterMode  = 4
	paramDHWTempTarget = 105
	paramCooling       = 108
)

// Operating modes held by the working-mode register.
const (
	modeHeating  int32 = 0
	modeHotWater int32 = 1
	modePoolPV   int32 = 2
	modeCooling  int32 = 3
	modeNone     int32 = 4
)

// idlePowerThreshold is the instant power (kW) below which the pump is
// considered idle regardless of the reported operating mode.
const idlePowerThreshold = 0.1

// Default builds the registry for one display language. It panics on a
// malformed table, which is deliberate: see NewRegistry.
func Default(tr *i18n.Translator) *Registry {
	modeSelectorLevels := []int32{0, 1, 2, 3, 4}
	modeSelectorOptions := []string{
		tr.T("Automatic"),
		tr.T("2nd heat source"),
		tr.T("Party"),
		tr.T("Holidays"),
		tr.T("Off"),
	}

	workingModes := map[int32]string{
		modeHeating:  tr.T("Heating mode"),
		modeHotWater: tr.T("Hot water mode"),
		modePoolPV:   tr.T("Swimming pool mode / Photovoltaik"),
		modeCooling:  tr.T("Cooling"),
		modeNone:     tr.T("No requirement"),
	}

	temp := func(name string, addr int) Field {
		return Field{
			Name:        name,
			DisplayName: tr.T(name),
			Source:      SourceCalculated,
			Address:     addr,
			Convert:     Converter{Kind: ScaledFloat, Divider: 10},
			Category:    CategoryTemperature,
			Unit:        "°C",
		}
	}

	power := func(name string, addr int, validModes []int32) Field {
		f := Field{
			Name:        name,
			DisplayName: tr.T(name),
			Source:      SourceCalculated,
			Address:     addr,
			Convert:     Converter{Kind: InstantPower},
			Category:    CategoryPower,
			Unit:        "W",
		}
		if validModes != nil {
			f.Convert = Converter{
				Kind:       InstantPowerGated,
				ModeAddr:   regWorkingMode,
				ValidModes: validModes,
			}
		}
		return f
	}

	return NewRegistry([]Field{
		temp("Heat supply temp", regSupplyTemp),
		temp("Heat return temp", regReturnTemp),
		temp("Return temp target", regReturnTempTarget),
		temp("Outside temp", regOutsideTemp),
		temp("Outside temp avg", regOutsideTempAvg),
		temp("DHW temp", regDHWTemp),
		temp("WP source in temp", regSourceInTemp),
		temp("WP source out temp", regSourceOutTemp),
		temp("MC1 temp", regMC1Temp),
		temp("MC1 temp target", regMC1TempTarget),
		temp("MC2 temp", regMC2Temp),
		temp("MC2 temp target", regMC2TempTarget),
		temp("Room temp", regRoomTemp),
		temp("Room temp target", regRoomTempTarget),

		{
			Name:        "Heat temp spread",
			DisplayName: tr.T("Heat temp spread"),
			Source:      SourceCalculated,
			Address:     regSupplyTemp,
			Convert:     Converter{Kind: TempDiff, AddrB: regReturnTemp, Divider: 10},
			Category:    CategoryCustom,
			Unit:        "K",
		},
		{
			Name:        "Working mode",
			DisplayName: tr.T("Working mode"),
			Source:      SourceCalculated,
			Address:     regWorkingMode,
			Convert: Converter{
				Kind:           TextState,
				PowerAddr:      regPowerInput,
				PowerThreshold: idlePowerThreshold,
				Modes:          workingModes,
				NoRequirement:  tr.T("No requirement"),
			},
			Category: CategoryText,
		},
		{
			Name:        "Flow",
			DisplayName: tr.T("Flow"),
			Source:      SourceCalculated,
			Address:     regFlow,
			Convert:     Converter{Kind: ScaledFloat, Divider: 1},
			Category:    CategoryCustom,
			Unit:        "l/h",
		},
		{
			Name:        "Compressor freq",
			DisplayName: tr.T("Compressor freq"),
			Source:      SourceCalculated,
			Address:     regCompressorFreq,
			Convert:     Converter{Kind: ScaledFloat, Divider: 1},
			Category:    CategoryCustom,
			Unit:        "Hz",
		},

		power("Power total", regPowerInput, nil),
		power("Power heating", regPowerInput, []int32{modeHeating}),
		power("Power DHW", regPowerInput, []int32{modeHotWater}),
		power("Heat out total", regHeatOutput, nil),
		power("Heat out heating", regHeatOutput, []int32{modeHeating}),
		power("Heat out DHW", regHeatOutput, []int32{modeHotWater}),

		{
			Name:        "COP total",
			DisplayName: tr.T("COP total"),
			Source:      SourceCalculated,
			Address:     regHeatOutput,
			Convert: Converter{
				Kind:      COP,
				HeatAddr:  regHeatOutput,
				PowerAddr: regPowerInput,
			},
			Category: CategoryCustom,
			Unit:     "COP",
		},

		{
			Name:         "DHW temp target",
			DisplayName:  tr.T("DHW temp target"),
			Source:       SourceParameters,
			Address:      paramDHWTempTarget,
			Convert:      Converter{Kind: ScaledFloat, Divider: 10},
			Category:     CategorySetpoint,
			Unit:         "°C",
			Write:        WriteConverter{Kind: WriteLevelScaled, Divider: 1.0 / 10},
			WriteAddress: paramDHWTempTarget,
			Allowed:      rangeInt32(300, 650, 5),
		},
		{
			Name:         "Temp +-",
			DisplayName:  tr.T("Temp +-"),
			Source:       SourceParameters,
			Address:      paramTempOffset,
			Convert:      Converter{Kind: ScaledFloat, Divider: 10},
			Category:     CategorySetpoint,
			Unit:         "°C",
			Write:        WriteConverter{Kind: WriteLevelScaled, Divider: 1.0 / 10},
			WriteAddress: paramTempOffset,
			Allowed:      rangeInt32(-50, 50, 5),
		},
		{
			Name:         "Heating mode",
			DisplayName:  tr.T("Heating mode"),
			Source:       SourceParameters,
			Address:      paramHeatingMode,
			Convert:      Converter{Kind: Selector, Levels: modeSelectorLevels},
			Category:     CategorySelector,
			Options:      modeSelectorOptions,
			Write:        WriteConverter{Kind: WriteSelectorLevel},
			WriteAddress: paramHeatingMode,
			Allowed:      modeSelectorLevels,
		},
		{
			Name:         "Hot water mode",
			DisplayName:  tr.T("Hot water mode"),
			Source:       SourceParameters,
			Address:      paramHotWaterMode,
			Convert:      Converter{Kind: Selector, Levels: modeSelectorLevels},
			Category:     CategorySelector,
			Options:      modeSelectorOptions,
			Write:        WriteConverter{Kind: WriteSelectorLevel},
			WriteAddress: paramHotWaterMode,
			Allowed:      modeSelectorLevels,
		},
		{
			Name:         "Cooling",
			DisplayName:  tr.T("Cooling"),
			Source:       SourceParameters,
			Address:      paramCooling,
			Convert:      Converter{Kind: ScaledInt, Divider: 1},
			Category:     CategorySwitch,
			Write:        WriteConverter{Kind: WriteOnOff},
			WriteAddress: paramCooling,
			Allowed:      []int32{0, 1},
		},
	})
}

func rangeInt32(from, to, step int32) []int32 {
	var out []int32
	for v := from; v <= to; v += step {
		out = append(out, v)
	}
	return out
}
