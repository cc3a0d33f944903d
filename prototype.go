package probe

// Prototype is a stateless, user-owned description of an element. It is
// the declarative source of truth a host edits; Context reconciles a tree
// of prototypes onto a tree of stateful Elements (see element.go's
// UpdateFrom/UpdateChildren and Context.AddOrUpdateElements).
type Prototype struct {
	ID   int
	Name string

	Active      bool
	Transparent bool

	FadeInTime    float64
	FadeInDelay   float64
	FadeOutTime   float64
	FadeOutDelay  float64

	TransformationFollowTime float64

	DisplayTransform *Transform

	Behaviors []Behavior

	AttachedValues *AttachedValues

	// Environment is an opaque host-owned object (e.g. lighting or audio
	// context) carried onto the Element without interpretation.
	Environment any

	OnlyHitIfParentIsHit bool

	ApplyTransformMask ApplyTransformMode

	SubContextOptions *SubContextOptions

	Shape       ShapeKind
	ShapeParams ShapeParams

	Children map[int]*Prototype

	Parent *Prototype
}

// NewPrototype returns a Prototype with the documented defaults: active,
// opaque, an identity display transform, and ApplyAll.
func NewPrototype(id int, name string) *Prototype {
	return &Prototype{
		ID:                 id,
		Name:               name,
		Active:             true,
		DisplayTransform:   NewTransform(),
		ApplyTransformMask: ApplyAll,
		Children:           make(map[int]*Prototype),
	}
}

// AddChild inserts child under this prototype, rejecting a child whose id
// equals this prototype's id (the construction-time half of the no-cycle
// invariant; the rest is enforced by Element instantiation).
func (p *Prototype) AddChild(child *Prototype) error {
	if child.ID == p.ID {
		return &FrameError{Kind: ErrStructural, Message: "child id equals parent id"}
	}
	child.Parent = p
	p.Children[child.ID] = child
	return nil
}

// Clone returns a deep copy of this prototype and its entire subtree. Child
// clones have their Parent back-reference rewired to the cloned parent.
func (p *Prototype) Clone() *Prototype {
	clone := &Prototype{
		ID:                       p.ID,
		Name:                     p.Name,
		Active:                   p.Active,
		Transparent:              p.Transparent,
		FadeInTime:               p.FadeInTime,
		FadeInDelay:              p.FadeInDelay,
		FadeOutTime:              p.FadeOutTime,
		FadeOutDelay:             p.FadeOutDelay,
		TransformationFollowTime: p.TransformationFollowTime,
		DisplayTransform:         p.DisplayTransform.Clone(),
		Behaviors:                append([]Behavior(nil), p.Behaviors...),
		Environment:              p.Environment,
		OnlyHitIfParentIsHit:     p.OnlyHitIfParentIsHit,
		ApplyTransformMask:       p.ApplyTransformMask,
		Shape:                    p.Shape,
		ShapeParams:              p.ShapeParams,
		Children:                 make(map[int]*Prototype, len(p.Children)),
	}
	if p.AttachedValues != nil {
		clone.AttachedValues = p.AttachedValues.Copy()
	}
	if p.SubContextOptions != nil {
		opts := *p.SubContextOptions
		clone.SubContextOptions = &opts
	}
	for id, child := range p.Children {
		childClone := child.Clone()
		childClone.Parent = clone
		clone.Children[id] = childClone
	}
	return clone
}
