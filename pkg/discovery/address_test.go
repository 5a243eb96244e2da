package discovery

import (
	"net"
	"testing"
)

func TestSortIPsByPreference(t *testing.T) {
	v4 := net.ParseIP("192.168.1.5")
	linkLocal := net.ParseIP("fe80::1")
	ula := net.ParseIP("fd00::1")
	global := net.ParseIP("2001:db8::1")

	sorted := SortIPsByPreference([]net.IP{v4, linkLocal, ula, global})
	want := []net.IP{global, ula, linkLocal, v4}
	for i := range want {
		if !sorted[i].Equal(want[i]) {
			t.Fatalf("sorted[%d] = %v, want %v", i, sorted[i], want[i])
		}
	}
}

func TestSortIPsByPreferenceStable(t *testing.T) {
	a := net.ParseIP("192.168.1.5")
	b := net.ParseIP("192.168.1.6")
	sorted := SortIPsByPreference([]net.IP{a, b})
	if !sorted[0].Equal(a) || !sorted[1].Equal(b) {
		t.Fatalf("sorted = %v", sorted)
	}
}

func TestFilterIPs(t *testing.T) {
	ips := []net.IP{
		net.ParseIP("192.168.1.5"),
		net.ParseIP("2001:db8::1"),
		net.ParseIP("10.0.0.1"),
	}

	v6 := FilterIPv6(ips)
	if len(v6) != 1 || !v6[0].Equal(net.ParseIP("2001:db8::1")) {
		t.Fatalf("v6 = %v", v6)
	}

	v4 := FilterIPv4(ips)
	if len(v4) != 2 {
		t.Fatalf("v4 = %v", v4)
	}
}
