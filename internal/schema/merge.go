package schema

// ownerFields are goal fields that always take the bundled default value.
var ownerFields = []string{"targetAmount", "targetDate"}

// mergeDefaults injects missing top-level collections and target bands, then
// merges goals present on both sides.
func mergeDefaults(raw, defaults map[string]any) {
	for key, value := range defaults {
		if key == "schemaVersion" {
			continue
		}
		if raw[key] == nil {
			raw[key] = clone(value)
		}
	}

	if stored, ok := raw["targets"].(map[string]any); ok {
		if def, ok := defaults["targets"].(map[string]any); ok {
			for cat, band := range def {
				if stored[cat] == nil {
					stored[cat] = clone(band)
				}
			}
		}
	}

	stored, ok := raw["goals"].(map[string]any)
	if !ok {
		return
	}
	def, _ := defaults["goals"].(map[string]any)
	for key, dv := range def {
		sg, ok := stored[key].(map[string]any)
		if !ok {
			continue
		}
		dg, ok := dv.(map[string]any)
		if !ok {
			continue
		}
		stored[key] = mergeGoal(sg, dg)
	}
}

// mergeGoal lays stored fields over the default goal. Owner fields follow the default,
// and are removed when the default does not set them.
func mergeGoal(stored, def map[string]any) map[string]any {
	merged := clone(def).(map[string]any)
	for k, v := range stored {
		merged[k] = v
	}
	for _, k := range ownerFields {
		if v, ok := def[k]; ok && v != nil {
			merged[k] = clone(v)
		} else {
			delete(merged, k)
		}
	}
	return merged
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clone(e)
		}
		return out
	default:
		return v
	}
}
