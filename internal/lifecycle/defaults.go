package lifecycle

// DefaultSequence 未指定时检查项的默认排序值
const DefaultSequence = 10

type defaultItem struct {
	name        string
	requirement string
}

var defaultChecklists = map[EquipmentCategory][]defaultItem{
	CategoryCrane: {
		{"Structural condition of boom and jib", "ISO 9927-1 §5.2"},
		{"Hoist rope condition and terminations", "ISO 4309"},
		{"Hook, safety latch and swivel", "ISO 9927-1 §5.5"},
		{"Brakes and limit switches", "ISO 9927-1 §5.7"},
		{"Load moment indicator calibration", "EN 13000"},
		{"Outriggers and stabilisers", "EN 13000 §4.2.6"},
		{"Load test at 110% of rated capacity", "ISO 4310"},
	},
	CategoryElevator: {
		{"Car and landing doors interlocks", "EN 81-20 §5.3"},
		{"Suspension ropes and sheaves", "EN 81-20 §5.5"},
		{"Overspeed governor and safety gear", "EN 81-20 §5.6"},
		{"Buffers and pit condition", "EN 81-20 §5.8"},
		{"Emergency alarm and lighting", "EN 81-28"},
	},
	CategoryPressureVessel: {
		{"Nameplate and marking legibility", "PED 2014/68/EU Annex I §3.3"},
		{"External visual examination", "EN 13445-5"},
		{"Safety valve setting and seal", "EN ISO 4126-1"},
		{"Pressure gauge calibration", "EN 837-1"},
		{"Hydrostatic test", "EN 13445-5 §10.2"},
	},
	CategoryForklift: {
		{"Mast, chains and forks wear", "ISO 5057"},
		{"Hydraulic system leaks", "ISO 3691-1 §4.4"},
		{"Service and parking brakes", "ISO 3691-1 §4.3"},
		{"Overhead guard and load backrest", "ISO 6055"},
		{"Warning devices and lights", "ISO 3691-1 §4.11"},
	},
	CategoryOverheadCrane: {
		{"Runway rails and end stops", "EN 15011 §5.4"},
		{"Hoist rope or chain condition", "ISO 4309"},
		{"Upper and lower limit switches", "EN 15011 §5.7"},
		{"Pendant or radio control functions", "EN 60204-32"},
		{"Load test at 125% of rated capacity", "EN 15011 Annex"},
	},
	CategoryLiftingPlatform: {
		{"Platform guardrails and gate", "EN 280 §5.5"},
		{"Emergency lowering system", "EN 280 §5.10"},
		{"Tilt alarm and overload cut-out", "EN 280 §5.4"},
		{"Hydraulic cylinders and hoses", "EN 280 §5.9"},
	},
	CategoryOther: {
		{"General visual examination", ""},
		{"Safety devices function test", ""},
		{"Identification and documentation", ""},
	},
}

// DefaultTemplates 内置检查项模板,序号按 10 递增
func DefaultTemplates() []ChecklistItemTemplate {
	var templates []ChecklistItemTemplate
	for _, category := range Categories() {
		for i, item := range defaultChecklists[category] {
			templates = append(templates, ChecklistItemTemplate{
				Category:    category,
				Sequence:    (i + 1) * DefaultSequence,
				Name:        item.name,
				Requirement: item.requirement,
				Active:      true,
			})
		}
	}
	return templates
}
