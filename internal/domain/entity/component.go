package entity

import "strings"

// Component is the blood product a request asks for.
type Component string

const (
	ComponentWholeBlood      Component = "Whole Blood"
	ComponentRedBloodCells   Component = "Red Blood Cells"
	ComponentPlasma          Component = "Plasma"
	ComponentPlatelets       Component = "Platelets"
	ComponentCryoprecipitate Component = "Cryoprecipitate"
)

// componentAliases is keyed by the upper-cased spelling with spaces, dots and
// hyphens removed.
var componentAliases = map[string]Component{
	"WHOLEBLOOD": ComponentWholeBlood,
	"WB":         ComponentWholeBlood,

	"REDBLOODCELLS":       ComponentRedBloodCells,
	"PACKEDREDBLOODCELLS": ComponentRedBloodCells,
	"PRBC":                ComponentRedBloodCells,
	"RBC":                 ComponentRedBloodCells,
	"PACKEDRBC":           ComponentRedBloodCells,
	"SAGM":                ComponentRedBloodCells,

	"PLASMA":            ComponentPlasma,
	"FRESHFROZENPLASMA": ComponentPlasma,
	"FFP":               ComponentPlasma,
	"FROZENPLASMA":      ComponentPlasma,

	"PLATELETS":            ComponentPlatelets,
	"PLATELET":             ComponentPlatelets,
	"PLT":                  ComponentPlatelets,
	"RANDOMDONORPLATELETS": ComponentPlatelets,
	"RDP":                  ComponentPlatelets,
	"SINGLEDONORPLATELETS": ComponentPlatelets,
	"SDP":                  ComponentPlatelets,
	"PLATELETCONCENTRATE":  ComponentPlatelets,

	"CRYOPRECIPITATE": ComponentCryoprecipitate,
	"CRYO":            ComponentCryoprecipitate,
	"CRYOPPT":         ComponentCryoprecipitate,
}

// ParseComponent resolves the spellings used by blood banks ("PRBC", "F.F.P",
// "Whole-Blood") to a canonical Component. Empty input yields Whole Blood.
func ParseComponent(raw string) (Component, bool) {
	key := strings.ToUpper(raw)
	key = strings.NewReplacer(" ", "", ".", "", "-", "", "_", "").Replace(key)
	if key == "" {
		return ComponentWholeBlood, true
	}

	component, ok := componentAliases[key]

	return component, ok
}

// String returns the string representation of the Component.
func (c Component) String() string {
	return string(c)
}
