package panel

// FieldID identifies one display field independent of where it is laid out.
type FieldID string

const (
	FieldLevel      FieldID = "level"
	FieldSource     FieldID = "source"
	FieldTimeLabel  FieldID = "timeLabel"
	FieldTime       FieldID = "time"
	FieldLastCharge FieldID = "lastCharge"

	FieldHealth       FieldID = "health"
	FieldCapacity     FieldID = "capacity"
	FieldCycles       FieldID = "cycles"
	FieldTemperature  FieldID = "temperature"
	FieldBatteryPower FieldID = "batteryPower"
	FieldAmperage     FieldID = "amperage"
	FieldVoltage      FieldID = "voltage"

	FieldChargingState   FieldID = "chargingState"
	FieldAdapterPower    FieldID = "adapterPower"
	FieldChargingCurrent FieldID = "chargingCurrent"
	FieldChargingVoltage FieldID = "chargingVoltage"
)

// Field is what a presenter renders for one FieldID.
type Field struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip,omitempty"`
}

// FieldUpdate is a single field write.
type FieldUpdate struct {
	ID      FieldID `json:"id"`
	Text    string  `json:"text"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// Field returns the value carried by u.
func (u FieldUpdate) Field() Field {
	return Field{Text: u.Text, Tooltip: u.Tooltip}
}

// FieldInfo describes where a field is rendered. Label is a localization key.
type FieldInfo struct {
	ID      FieldID
	Label   string
	Section SectionKind
}

// The time row takes its label from FieldTimeLabel at runtime.
var fieldLayout = []FieldInfo{
	{FieldLevel, "Level", SectionDetails},
	{FieldSource, "Source", SectionDetails},
	{FieldTime, "Time", SectionDetails},
	{FieldLastCharge, "Last charge", SectionDetails},

	{FieldHealth, "Health", SectionBattery},
	{FieldCapacity, "Capacity", SectionBattery},
	{FieldCycles, "Cycles", SectionBattery},
	{FieldTemperature, "Temperature", SectionBattery},
	{FieldBatteryPower, "Power", SectionBattery},
	{FieldAmperage, "Current", SectionBattery},
	{FieldVoltage, "Voltage", SectionBattery},

	{FieldChargingState, "Is charging", SectionAdapter},
	{FieldAdapterPower, "Power", SectionAdapter},
	{FieldChargingCurrent, "Current", SectionAdapter},
	{FieldChargingVoltage, "Voltage", SectionAdapter},
}

// FieldsIn returns the rows of a section in display order.
func FieldsIn(kind SectionKind) []FieldInfo {
	var out []FieldInfo
	for _, f := range fieldLayout {
		if f.Section == kind {
			out = append(out, f)
		}
	}
	return out
}

// Registry is the flat store of current field values.
type Registry struct {
	fields map[FieldID]Field
}

func NewRegistry() *Registry {
	return &Registry{fields: make(map[FieldID]Field)}
}

// Set stores f under id and reports whether the stored value changed.
func (r *Registry) Set(id FieldID, f Field) bool {
	if cur, ok := r.fields[id]; ok && cur == f {
		return false
	}
	r.fields[id] = f
	return true
}

func (r *Registry) Get(id FieldID) (Field, bool) {
	f, ok := r.fields[id]
	return f, ok
}

// Apply writes every update and returns the ones that changed something.
func (r *Registry) Apply(updates []FieldUpdate) []FieldUpdate {
	var changed []FieldUpdate
	for _, u := range updates {
		if r.Set(u.ID, u.Field()) {
			changed = append(changed, u)
		}
	}
	return changed
}

// Snapshot returns a copy of all stored values.
func (r *Registry) Snapshot() map[FieldID]Field {
	out := make(map[FieldID]Field, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}
