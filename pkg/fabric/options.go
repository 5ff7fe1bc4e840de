package fabric

import (
	"time"

	"github.com/newtron-network/leafspine/pkg/util"
)

// Defaults for the link classes and the switch protocol.
const (
	DefaultSpineLeafBandwidth = 10.0
	DefaultLeafHostBandwidth  = 1.0
	DefaultSpineLeafDelay     = Duration(time.Millisecond)
	DefaultLeafHostDelay      = Duration(500 * time.Microsecond)
	DefaultProtocol           = "OpenFlow13"
	DefaultControllerPort     = 6633
)

// ControllerAddr is the remote controller switches are pointed at.
type ControllerAddr struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// LinkBandwidths holds one bandwidth per link class.
type LinkBandwidths struct {
	SpineLeaf float64 `json:"spine_leaf" yaml:"spine_leaf"`
	LeafHost  float64 `json:"leaf_host" yaml:"leaf_host"`
}

// LinkDelays holds one propagation delay per link class.
type LinkDelays struct {
	SpineLeaf Duration `json:"spine_leaf" yaml:"spine_leaf"`
	LeafHost  Duration `json:"leaf_host" yaml:"leaf_host"`
}

// Options carries the optional settings that do not affect feasibility:
// controller address, link classes, and the forwarding protocol declared
// on every switch. The planner treats Protocol as opaque.
type Options struct {
	Controller *ControllerAddr `json:"controller,omitempty" yaml:"controller,omitempty"`
	Bandwidth  LinkBandwidths  `json:"bandwidth" yaml:"bandwidth"`
	Delay      LinkDelays      `json:"delay" yaml:"delay"`
	Protocol   string          `json:"protocol" yaml:"protocol"`
}

// DefaultOptions returns the defaults: no controller, 10/1 bandwidth,
// 1ms/0.5ms delay, OpenFlow13.
func DefaultOptions() Options {
	return Options{
		Bandwidth: LinkBandwidths{SpineLeaf: DefaultSpineLeafBandwidth, LeafHost: DefaultLeafHostBandwidth},
		Delay:     LinkDelays{SpineLeaf: DefaultSpineLeafDelay, LeafHost: DefaultLeafHostDelay},
		Protocol:  DefaultProtocol,
	}
}

// Option configures Options before a build.
type Option func(*Options)

// WithController points switches at a remote controller. A zero port
// selects DefaultControllerPort.
func WithController(host string, port int) Option {
	return func(o *Options) {
		if port == 0 {
			port = DefaultControllerPort
		}
		o.Controller = &ControllerAddr{Host: host, Port: port}
	}
}

// WithLinkBandwidths overrides both link-class bandwidths.
func WithLinkBandwidths(spineLeaf, leafHost float64) Option {
	return func(o *Options) {
		o.Bandwidth = LinkBandwidths{SpineLeaf: spineLeaf, LeafHost: leafHost}
	}
}

// WithLinkDelays overrides both link-class delays.
func WithLinkDelays(spineLeaf, leafHost time.Duration) Option {
	return func(o *Options) {
		o.Delay = LinkDelays{SpineLeaf: Duration(spineLeaf), LeafHost: Duration(leafHost)}
	}
}

// WithProtocol sets the forwarding protocol declared on every switch.
func WithProtocol(protocol string) Option {
	return func(o *Options) { o.Protocol = protocol }
}

// WithOptions replaces the whole option set, for callers that already
// hold a resolved Options (plan files, stored plans).
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// Validate checks that option values are usable by an emulator.
func (o Options) Validate() error {
	v := &util.ValidationBuilder{}
	v.Add(o.Bandwidth.SpineLeaf > 0, "spine-leaf bandwidth must be positive")
	v.Add(o.Bandwidth.LeafHost > 0, "leaf-host bandwidth must be positive")
	v.Add(o.Delay.SpineLeaf >= 0, "spine-leaf delay must not be negative")
	v.Add(o.Delay.LeafHost >= 0, "leaf-host delay must not be negative")
	v.Add(o.Protocol != "", "protocol is required")
	if o.Controller != nil {
		v.Add(o.Controller.Host != "", "controller host is required")
		v.Add(o.Controller.Port > 0 && o.Controller.Port <= 65535, "controller port must be between 1 and 65535")
	}
	return v.Build()
}

func resolveOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	if o.Controller != nil {
		c := *o.Controller
		o.Controller = &c
	}
	return o, nil
}
