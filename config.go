package xintersect

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ObserverConfig is the declarative form of Init, as found in YAML files:
//
//	root_margin: "10px 0px"
//	threshold: [0, 0.5, 1]
type ObserverConfig struct {
	RootMargin string         `yaml:"root_margin"`
	Threshold  ThresholdInput `yaml:"threshold"`
}

// ParseObserverConfig decodes a YAML document into an ObserverConfig.
// Values are validated when the observer is built, not here.
func ParseObserverConfig(data []byte) (ObserverConfig, error) {
	var c ObserverConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return ObserverConfig{}, fmt.Errorf("xintersect: observer config: %w", err)
	}
	return c, nil
}

// Init converts the config into construction options for root.
func (c ObserverConfig) Init(root Element) Init {
	return Init{Root: root, RootMargin: c.RootMargin, Threshold: c.Threshold}
}
