package probe

// behaviorAuxPrefix is the reserved key prefix behaviors use to store their
// per-element state in AttachedValues.Objects.
const behaviorAuxPrefix = "Internal.Behavior:"

// BehaviorAuxKey returns the reserved auxiliary-object key a behavior with
// the given GUID should use to store its per-element state.
func BehaviorAuxKey(behaviorID string) string {
	return behaviorAuxPrefix + behaviorID
}

// AuxiliaryObject is an opaque, behavior- or user-owned value attached to an
// Element by string key. Implementations are typically small value structs
// holding a behavior's per-element state (deltas, flick velocity, and so
// on).
type AuxiliaryObject interface {
	Copy() AuxiliaryObject
	UpdateFrom(other AuxiliaryObject)
}

// AttachedValues is a bag of float values, strings, and keyed opaque
// objects that can be attached to a Prototype and carried onto its
// Element instances. Behaviors read and write their own state here under
// BehaviorAuxKey.
type AttachedValues struct {
	Values  []float64
	Strings []string
	Objects map[string]AuxiliaryObject
}

// NewAttachedValues returns an empty AttachedValues bag.
func NewAttachedValues() *AttachedValues {
	return &AttachedValues{Objects: make(map[string]AuxiliaryObject)}
}

// FillValues resizes Values to length n: it resizes to the target length,
// zero-fills any newly-added slots, then copies the overlap (min(old len,
// n) elements) forward from the previous contents.
func (a *AttachedValues) FillValues(n int) {
	next := make([]float64, n)
	copy(next, a.Values)
	a.Values = next
}

// FillStrings resizes Strings to length n with the same semantics as
// FillValues.
func (a *AttachedValues) FillStrings(n int) {
	next := make([]string, n)
	copy(next, a.Strings)
	a.Strings = next
}

// Object returns the auxiliary object stored under key, or nil if absent.
// Absence is not an error.
func (a *AttachedValues) Object(key string) AuxiliaryObject {
	if a.Objects == nil {
		return nil
	}
	return a.Objects[key]
}

// SetObject stores obj under key.
func (a *AttachedValues) SetObject(key string, obj AuxiliaryObject) {
	if a.Objects == nil {
		a.Objects = make(map[string]AuxiliaryObject)
	}
	a.Objects[key] = obj
}

// Copy returns a deep copy: Values and Strings are cloned, and every
// Object is cloned via its own Copy method.
func (a *AttachedValues) Copy() *AttachedValues {
	out := &AttachedValues{
		Values:  append([]float64(nil), a.Values...),
		Strings: append([]string(nil), a.Strings...),
		Objects: make(map[string]AuxiliaryObject, len(a.Objects)),
	}
	for k, v := range a.Objects {
		out.Objects[k] = v.Copy()
	}
	return out
}

// UpdateFrom overwrites Values and Strings from other (via FillValues/
// FillStrings semantics) and merges Objects, calling UpdateFrom on any
// object whose key already exists and Copy-ing in any new key.
func (a *AttachedValues) UpdateFrom(other *AttachedValues) {
	a.FillValues(len(other.Values))
	copy(a.Values, other.Values)
	a.FillStrings(len(other.Strings))
	copy(a.Strings, other.Strings)
	if a.Objects == nil {
		a.Objects = make(map[string]AuxiliaryObject)
	}
	for k, v := range other.Objects {
		if existing, ok := a.Objects[k]; ok {
			existing.UpdateFrom(v)
		} else {
			a.Objects[k] = v.Copy()
		}
	}
}
