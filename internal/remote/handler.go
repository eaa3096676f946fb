// Package remote exposes the equalizer parameters over MQTT.
//
// Every parameter gets a command topic <topic>/<slug>/set. The current
// settings are published as one JSON object on <topic>/state, and
// <topic>/availability carries online/offline with a retained last will.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

// ErrUnknownTopic is returned for messages on topics no parameter owns.
var ErrUnknownTopic = errors.New("remote: unknown topic")

// Handler maps command topics onto a parameter store. It holds no
// connection and is safe for concurrent use.
type Handler struct {
	params *eq.Params
	topic  string
	routes map[string]eq.ParamID
}

// NewHandler binds topic to params.
func NewHandler(topic string, params *eq.Params) *Handler {
	topic = strings.TrimRight(topic, "/")
	h := &Handler{
		params: params,
		topic:  topic,
		routes: make(map[string]eq.ParamID, eq.NumParams),
	}
	for _, p := range eq.Parameters() {
		h.routes[CommandTopic(topic, p)] = p.ID
	}
	return h
}

// CommandTopic returns the topic that sets p.
func CommandTopic(topic string, p eq.ParamInfo) string {
	return topic + "/" + p.Slug + "/set"
}

// StateKey returns the JSON key of p in the state document.
func StateKey(p eq.ParamInfo) string {
	return strings.ReplaceAll(p.Slug, "-", "_")
}

func (h *Handler) Topic() string { return h.topic }

func (h *Handler) StateTopic() string { return h.topic + "/state" }

func (h *Handler) AvailabilityTopic() string { return h.topic + "/availability" }

// CommandTopics lists every command topic in parameter order.
func (h *Handler) CommandTopics() []string {
	params := eq.Parameters()
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = CommandTopic(h.topic, p)
	}
	return out
}

// Apply parses payload for the parameter owning topic and stores it.
func (h *Handler) Apply(topic string, payload []byte) (eq.ParamID, error) {
	id, ok := h.routes[topic]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	info, _ := id.Info()

	v, err := info.Parse(string(payload))
	if err != nil {
		return id, err
	}
	h.params.Set(id, v)
	return id, nil
}

// State encodes the current settings. Continuous values are numbers,
// choices are their labels and toggles are booleans.
func (h *Handler) State() ([]byte, error) {
	s := h.params.Snapshot()
	state := make(map[string]any, eq.NumParams)
	for _, p := range eq.Parameters() {
		v := s.Value(p.ID)
		switch p.Kind {
		case eq.KindChoice:
			state[StateKey(p)] = p.Format(v)
		case eq.KindToggle:
			state[StateKey(p)] = v != 0
		default:
			state[StateKey(p)] = v
		}
	}
	return json.Marshal(state)
}
