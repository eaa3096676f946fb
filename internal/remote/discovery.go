package remote

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

// Entity is one Home Assistant MQTT discovery record.
type Entity struct {
	Domain string
	ID     string
	Config map[string]any
}

// DiscoveryTopic returns the retained config topic for e.
func (e Entity) DiscoveryTopic() string {
	return fmt.Sprintf("homeassistant/%s/%s/config", e.Domain, e.ID)
}

// Discovery describes every parameter as a Home Assistant entity:
// continuous values as number sliders, slopes as selects and bypass flags as
// switches.
func (h *Handler) Discovery(node string) []Entity {
	node = strings.ReplaceAll(node, "-", "_")
	device := map[string]any{
		"identifiers":  []string{node},
		"name":         "Parametric EQ",
		"manufacturer": "algo-eq",
		"model":        "Low Cut / Peak / High Cut",
	}
	availability := map[string]any{
		"topic": h.AvailabilityTopic(),
	}

	params := eq.Parameters()
	out := make([]Entity, 0, len(params))
	for _, p := range params {
		key := StateKey(p)
		id := node + "_" + key
		cfg := map[string]any{
			"name":          p.Name,
			"unique_id":     id,
			"device":        device,
			"availability":  availability,
			"command_topic": CommandTopic(h.topic, p),
			"state_topic":   h.StateTopic(),
		}

		var domain string
		switch p.Kind {
		case eq.KindChoice:
			domain = "select"
			cfg["options"] = p.Choices
			cfg["value_template"] = "{{ value_json." + key + " }}"
		case eq.KindToggle:
			domain = "switch"
			cfg["payload_on"] = "ON"
			cfg["payload_off"] = "OFF"
			cfg["value_template"] = "{% if value_json." + key + " %}ON{% else %}OFF{% endif %}"
		default:
			domain = "number"
			cfg["min"] = p.Min
			cfg["max"] = p.Max
			cfg["step"] = p.Step
			cfg["value_template"] = "{{ value_json." + key + " }}"
			if p.Unit != "" {
				cfg["unit_of_measurement"] = p.Unit
			}
		}

		out = append(out, Entity{Domain: domain, ID: id, Config: cfg})
	}
	return out
}
