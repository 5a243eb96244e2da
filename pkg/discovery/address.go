package discovery

import (
	"net"
	"sort"
)

// SortIPsByPreference sorts IP addresses for dialing the out-of-band
// endpoint. Priority order (highest to lowest):
//  1. IPv6 global unicast
//  2. IPv6 unique local (fc00::/7)
//  3. IPv6 link-local
//  4. IPv4
func SortIPsByPreference(ips []net.IP) []net.IP {
	if len(ips) <= 1 {
		return ips
	}

	sorted := make([]net.IP, len(ips))
	copy(sorted, ips)

	sort.SliceStable(sorted, func(i, j int) bool {
		return ipPriority(sorted[i]) < ipPriority(sorted[j])
	})

	return sorted
}

// ipPriority returns the dial priority of an IP address (lower is
// better).
func ipPriority(ip net.IP) int {
	ip = ip.To16()
	if ip == nil {
		return 99
	}

	if ip.To4() != nil {
		return 50
	}

	if isUniqueLocal(ip) {
		return 1
	}

	if ip.IsGlobalUnicast() {
		return 0
	}

	if ip.IsLinkLocalUnicast() {
		return 2
	}

	if ip.IsLoopback() {
		return 80
	}

	if ip.IsMulticast() {
		return 90
	}

	return 10
}

// isUniqueLocal reports whether the IP is an IPv6 unique local address
// (fc00::/7).
func isUniqueLocal(ip net.IP) bool {
	ip = ip.To16()
	if ip == nil {
		return false
	}
	return ip[0] == 0xfc || ip[0] == 0xfd
}

// FilterIPv6 returns only IPv6 addresses from the slice.
func FilterIPv6(ips []net.IP) []net.IP {
	var result []net.IP
	for _, ip := range ips {
		if ip.To4() == nil && ip.To16() != nil {
			result = append(result, ip)
		}
	}
	return result
}

// FilterIPv4 returns only IPv4 addresses from the slice.
func FilterIPv4(ips []net.IP) []net.IP {
	var result []net.IP
	for _, ip := range ips {
		if ip.To4() != nil {
			result = append(result, ip)
		}
	}
	return result
}

// LocalAddresses returns all non-loopback IP addresses on the host.
func LocalAddresses() ([]net.IP, error) {
	var addresses []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && !ip.IsLoopback() {
				addresses = append(addresses, ip)
			}
		}
	}

	return addresses, nil
}
