package calendar

import (
	"slices"
)

// ResolvedDef is a definition after inheritance, together with the calendar
// layer that last shaped it.
type ResolvedDef struct {
	DateDef

	// Calendar is the most specific calendar that defined or overrode the day.
	Calendar string

	// Depth is the position of Calendar in the chain, the root being 0.
	Depth int
}

// Resolved is the flat definition set of a calendar and its ancestors.
type Resolved struct {
	Key         string
	Chain       []string
	Definitions []ResolvedDef
	Particular  ParticularConfig

	// Dropped lists the keys removed by a drop somewhere in the chain.
	Dropped []string
}

// Lookup returns the merged definition of a day key.
func (r *Resolved) Lookup(key string) (ResolvedDef, bool) {
	for _, def := range r.Definitions {
		if def.Key == key {
			return def, true
		}
	}
	return ResolvedDef{}, false
}

// Keys returns the merged day keys in definition order.
func (r *Resolved) Keys() []string {
	keys := make([]string, len(r.Definitions))
	for i, def := range r.Definitions {
		keys[i] = def.Key
	}
	return keys
}

// Resolve merges the calendar key with its ancestors. Layers are applied
// from the root down, so the most specific definition of each field wins.
//
// A drop removes the key from the layer that drops it and from every layer
// below. A descendant can only bring a dropped key back with a complete
// definition (date and precedence); partial overrides of a dropped key are
// ignored.
func (r *Registry) Resolve(key string) (*Resolved, error) {
	chain, err := r.Chain(key)
	if err != nil {
		return nil, err
	}

	var (
		order      []string
		merged     = make(map[string]ResolvedDef)
		dropped    = make(map[string]bool)
		particular ParticularConfig
	)

	for depth, layerKey := range chain {
		layer := r.definition(layerKey)
		particular = layer.ParticularConfig.over(particular)

		for _, def := range layer.Definitions {
			if def.Drop {
				if _, ok := merged[def.Key]; ok {
					delete(merged, def.Key)
					order = slices.DeleteFunc(order, func(k string) bool { return k == def.Key })
				}
				dropped[def.Key] = true
				continue
			}

			parent, exists := merged[def.Key]
			switch {
			case exists:
				merged[def.Key] = ResolvedDef{
					DateDef:  mergeDateDef(parent.DateDef, def),
					Calendar: layerKey,
					Depth:    depth,
				}
			case dropped[def.Key] && !def.IsComplete():
				continue
			default:
				delete(dropped, def.Key)
				merged[def.Key] = ResolvedDef{
					DateDef:  mergeDateDef(DateDef{Key: def.Key}, def),
					Calendar: layerKey,
					Depth:    depth,
				}
				order = append(order, def.Key)
			}
		}
	}

	out := &Resolved{
		Key:         key,
		Chain:       chain,
		Definitions: make([]ResolvedDef, 0, len(order)),
		Particular:  particular,
	}
	for _, k := range order {
		out.Definitions = append(out.Definitions, merged[k])
	}
	for k := range dropped {
		out.Dropped = append(out.Dropped, k)
	}
	slices.Sort(out.Dropped)
	return out, nil
}
