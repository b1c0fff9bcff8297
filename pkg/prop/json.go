package prop

import (
	"encoding/json"
	"fmt"

	"github.com/valdris/riftkit/pkg/geom"
)

// JSON rendering for inspection tooling. This is a one-way, human-facing
// view: hashes render as hex strings and maps as ordered key/value pairs.

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

// MarshalJSON renders the tree as {"dependencies": [...], "entries": [...]}.
func (t *Tree) MarshalJSON() ([]byte, error) {
	deps := t.Dependencies
	if deps == nil {
		deps = []string{}
	}
	entries := make([]json.RawMessage, 0, len(t.Entries))
	for _, entry := range t.Entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, raw)
	}
	return json.Marshal(map[string]any{
		"dependencies": deps,
		"entries":      entries,
	})
}

// MarshalJSON renders the entry with hex class/path ids.
func (e Entry) MarshalJSON() ([]byte, error) {
	values := make([]json.RawMessage, 0, len(e.Values))
	for _, value := range e.Values {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		values = append(values, raw)
	}
	return json.Marshal(map[string]any{
		"class":  hex32(e.Class),
		"path":   hex32(e.Path),
		"values": values,
	})
}

// MarshalJSON renders a value as {"name", "type", "value"}; bare values
// omit the name.
func (v Value) MarshalJSON() ([]byte, error) {
	payload, err := v.jsonPayload()
	if err != nil {
		return nil, err
	}
	out := map[string]any{"type": v.Kind.String()}
	if v.Name != 0 {
		out["name"] = hex32(v.Name)
	}
	if payload != nil || v.Kind != KindNone {
		out["value"] = payload
	}
	return json.Marshal(out)
}

func (v Value) jsonPayload() (any, error) {
	switch data := v.Data.(type) {
	case nil:
		return nil, nil
	case bool, int8, uint8, int16, uint16, int32, int64, uint64, float32, string:
		return data, nil
	case uint32:
		if v.Kind == KindHash || v.Kind == KindLink {
			return hex32(data), nil
		}
		return data, nil
	case geom.Vector2:
		return []float32{data.X, data.Y}, nil
	case geom.Vector3:
		return []float32{data.X, data.Y, data.Z}, nil
	case geom.Vector4:
		return []float32{data.X, data.Y, data.Z, data.W}, nil
	case geom.Matrix44:
		rows := make([][]float32, 4)
		for i, row := range data {
			rows[i] = row[:]
		}
		return rows, nil
	case geom.ColorRGBA:
		return map[string]float32{"r": data.R, "g": data.G, "b": data.B, "a": data.A}, nil
	case *Container:
		items := make([]json.RawMessage, 0, len(data.Items))
		for _, item := range data.Items {
			raw, err := json.Marshal(item)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		return map[string]any{"itemType": data.Kind.String(), "items": items}, nil
	case *Struct:
		fields := make([]json.RawMessage, 0, len(data.Fields))
		for _, field := range data.Fields {
			raw, err := json.Marshal(field)
			if err != nil {
				return nil, err
			}
			fields = append(fields, raw)
		}
		return map[string]any{"name": hex32(data.Name), "fields": fields}, nil
	case *Optional:
		if data.Value == nil {
			return map[string]any{"valueType": data.Kind.String(), "value": nil}, nil
		}
		inner, err := json.Marshal(*data.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"valueType": data.Kind.String(), "value": json.RawMessage(inner)}, nil
	case *Map:
		pairs := make([]map[string]json.RawMessage, 0, data.Len())
		for _, entry := range data.Entries() {
			key, err := json.Marshal(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(entry.Value)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, map[string]json.RawMessage{"key": key, "value": value})
		}
		return map[string]any{
			"keyType":   data.KeyKind.String(),
			"valueType": data.ValueKind.String(),
			"entries":   pairs,
		}, nil
	}
	return nil, fmt.Errorf("prop: %s value holds %T", v.Kind, v.Data)
}
