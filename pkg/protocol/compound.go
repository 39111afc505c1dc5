package protocol

import "math"

// Compound is a decoded NBT compound. Values are whatever the decoder
// produced: numbers of any width, strings, nested compounds and lists.
type Compound map[string]any

func asCompound(value any) (Compound, bool) {
	switch v := value.(type) {
	case Compound:
		return v, true
	case map[string]any:
		return Compound(v), true
	case map[any]any:
		c := make(Compound, len(v))
		for key, inner := range v {
			name, ok := key.(string)
			if !ok {
				return nil, false
			}
			c[name] = inner
		}
		return c, true
	}
	return nil, false
}

func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func (c Compound) Int(key string) (int64, bool) {
	value, ok := c[key]
	if !ok {
		return 0, false
	}
	return asInt(value)
}

func (c Compound) String(key string) (string, bool) {
	value, ok := c[key].(string)
	return value, ok
}

func (c Compound) Compound(key string) (Compound, bool) {
	value, ok := c[key]
	if !ok {
		return nil, false
	}
	return asCompound(value)
}

// Compounds returns the list under key, keeping only compound entries.
func (c Compound) Compounds(key string) []Compound {
	values, ok := c[key].([]any)
	if !ok {
		return nil
	}

	result := make([]Compound, 0, len(values))
	for _, value := range values {
		if inner, ok := asCompound(value); ok {
			result = append(result, inner)
		}
	}
	return result
}

// Simplify unwraps a compound that is itself wrapped under a single
// "value" key, which is how some decoders hand back typed NBT.
func (c Compound) Simplify() Compound {
	if len(c) != 1 {
		return c
	}
	if inner, ok := c.Compound("value"); ok {
		return inner
	}
	return c
}
