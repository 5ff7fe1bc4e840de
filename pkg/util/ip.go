package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// HostIPv4 returns the structured host address 10.0.<leaf>.<pos>/24.
// Both indices are 1-based; the leaf index selects the /24 and the
// intra-leaf position selects the host octet.
func HostIPv4(leafIndex, position int) string {
	return fmt.Sprintf("10.0.%d.%d/24", leafIndex, position)
}

// HostMAC returns the structured link-layer address
// 00:00:00:00:<leaf %02d>:<pos %02d>.
func HostMAC(leafIndex, position int) string {
	return fmt.Sprintf("00:00:00:00:%02d:%02d", leafIndex, position)
}

// ComputeNetworkAddr returns the network address for a given IP and mask
func ComputeNetworkAddr(ipStr string, maskLen int) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	ip = ip.To4()
	if ip == nil {
		return ""
	}

	mask := net.CIDRMask(maskLen, 32)
	network := ip.Mask(mask)
	return network.String()
}

// IsValidIPv4CIDR checks if a string is a valid IPv4 CIDR notation
func IsValidIPv4CIDR(cidr string) bool {
	_, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	parts := strings.Split(cidr, "/")
	ip := net.ParseIP(parts[0])
	return ip != nil && ip.To4() != nil
}

// IsValidMAC checks if a string is a valid 48-bit colon-separated MAC address
func IsValidMAC(mac string) bool {
	hw, err := net.ParseMAC(mac)
	return err == nil && len(hw) == 6 && strings.Count(mac, ":") == 5
}

// SplitIPMask splits a CIDR notation into IP and mask length
// Returns the IP (without mask) and mask length
func SplitIPMask(cidr string) (string, int) {
	parts := strings.Split(cidr, "/")
	if len(parts) != 2 {
		return cidr, 0
	}
	maskLen, err := strconv.Atoi(parts[1])
	if err != nil {
		return parts[0], 0
	}
	return parts[0], maskLen
}

// SplitHostPort splits "host[:port]" and falls back to defaultPort when the
// port is absent.
func SplitHostPort(addr string, defaultPort int) (string, int, error) {
	if addr == "" {
		return "", 0, fmt.Errorf("empty address")
	}
	if !strings.Contains(addr, ":") {
		return addr, defaultPort, nil
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in address %q", addr)
	}
	return host, port, nil
}
