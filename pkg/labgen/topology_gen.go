package labgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newtron-network/leafspine/pkg/fabric"
)

// EmulatorSpecFile is the file name GenerateEmulatorSpec writes.
const EmulatorSpecFile = "topology.json"

// EmulatorSpec is the plain-data hand-off consumed by an external network
// emulator: every switch, host and link with the attributes needed to
// instantiate it.
type EmulatorSpec struct {
	Version    string                 `json:"version"`
	Name       string                 `json:"name"`
	Params     fabric.Params          `json:"params"`
	Controller *fabric.ControllerAddr `json:"controller,omitempty"`
	Switches   []EmulatorSwitch       `json:"switches"`
	Hosts      []EmulatorHost         `json:"hosts"`
	Links      []EmulatorLink         `json:"links"`
}

// EmulatorSwitch is one switch entry. DPID is the datapath id an OpenFlow
// switch announces to the controller.
type EmulatorSwitch struct {
	Name     string      `json:"name"`
	Tier     fabric.Tier `json:"tier"`
	DPID     string      `json:"dpid"`
	Protocol string      `json:"protocol"`
}

// EmulatorHost is one host entry.
type EmulatorHost struct {
	Name   string `json:"name"`
	IP     string `json:"ip"`
	MAC    string `json:"mac"`
	Switch string `json:"switch"`
}

// EmulatorLink is one link entry. Bandwidth is in Mbit/s, delay is a
// duration string and loss a percentage.
type EmulatorLink struct {
	A     string           `json:"a"`
	APort string           `json:"a_port"`
	B     string           `json:"b"`
	BPort string           `json:"b_port"`
	Class fabric.LinkClass `json:"class"`
	BW    float64          `json:"bw"`
	Delay string           `json:"delay"`
	Loss  float64          `json:"loss"`
}

// BuildEmulatorSpec converts a topology into its emulator form. Host
// addressing must be valid; fabrics whose leaf or host numbering overflows
// the address plan are rejected.
func BuildEmulatorSpec(name string, t *fabric.Topology) (*EmulatorSpec, error) {
	if err := fabric.VerifyAddressing(t); err != nil {
		return nil, fmt.Errorf("topology %s: %w", name, err)
	}

	spec := &EmulatorSpec{
		Version:  "1.0",
		Name:     name,
		Params:   t.Params,
		Switches: make([]EmulatorSwitch, 0, len(t.Switches)),
		Hosts:    make([]EmulatorHost, 0, len(t.Hosts)),
		Links:    make([]EmulatorLink, 0, len(t.Links)),
	}
	if t.Options.Controller != nil {
		c := *t.Options.Controller
		spec.Controller = &c
	}

	for i, sw := range t.Switches {
		spec.Switches = append(spec.Switches, EmulatorSwitch{
			Name:     sw.Name,
			Tier:     sw.Tier,
			DPID:     fmt.Sprintf("%016x", i+1),
			Protocol: t.Options.Protocol,
		})
	}
	for _, h := range t.Hosts {
		spec.Hosts = append(spec.Hosts, EmulatorHost{
			Name:   h.Name,
			IP:     h.IP,
			MAC:    h.MAC,
			Switch: h.LeafName(),
		})
	}
	for _, lp := range assignPorts(t) {
		spec.Links = append(spec.Links, EmulatorLink{
			A:     lp.link.A,
			APort: lp.aPort,
			B:     lp.link.B,
			BPort: lp.bPort,
			Class: lp.link.Class,
			BW:    lp.link.Bandwidth,
			Delay: lp.link.Delay.String(),
			Loss:  lp.link.Loss,
		})
	}
	return spec, nil
}

// RenderEmulatorSpec returns the indented JSON form of the emulator spec.
func RenderEmulatorSpec(name string, t *fabric.Topology) ([]byte, error) {
	spec, err := BuildEmulatorSpec(name, t)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling emulator spec: %w", err)
	}
	return append(data, '\n'), nil
}

// GenerateEmulatorSpec writes topology.json into outputDir.
func GenerateEmulatorSpec(name string, t *fabric.Topology, outputDir string) error {
	data, err := RenderEmulatorSpec(name, t)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(outputDir, EmulatorSpecFile), data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
