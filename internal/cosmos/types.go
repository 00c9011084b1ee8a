package cosmos

import (
	"fmt"
	"sort"
)

// CheckError is returned when a telemetry check does not hold.
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string {
	return e.Message
}

// Packet is the projection of a telemetry packet definition onto its item names.
type Packet struct {
	Target string
	Name   string
	Items  []string
}

// PacketsFromDefinitions projects the result of get_all_tlm onto packets.
// The API returns either a list of packet definitions carrying packet_name
// and an items list, or a map from packet name to item definitions.
func PacketsFromDefinitions(target string, raw any) ([]Packet, error) {
	switch defs := raw.(type) {
	case []any:
		packets := make([]Packet, 0, len(defs))
		for _, d := range defs {
			def, ok := d.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected packet definition %T", d)
			}
			name, _ := def["packet_name"].(string)
			packets = append(packets, Packet{Target: target, Name: name, Items: itemNames(def["items"])})
		}
		return packets, nil
	case map[string]any:
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		packets := make([]Packet, 0, len(defs))
		for _, name := range names {
			packets = append(packets, Packet{Target: target, Name: name, Items: itemNames(defs[name])})
		}
		return packets, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected telemetry definition %T", raw)
	}
}

func itemNames(raw any) []string {
	switch items := raw.(type) {
	case []any:
		names := make([]string, 0, len(items))
		for _, it := range items {
			switch item := it.(type) {
			case map[string]any:
				if name, ok := item["name"].(string); ok {
					names = append(names, name)
				}
			case string:
				names = append(names, item)
			}
		}
		return names
	case map[string]any:
		names := make([]string, 0, len(items))
		for name := range items {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	default:
		return []string{}
	}
}
