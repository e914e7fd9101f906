package config

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// CIDRSubnet calculates a subnet address given a network address, a netmask
// size increase, and a subnet number, like Terraform's cidrsubnet.
// Only IPv4 prefixes are supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	network, err := netip.ParsePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !network.Addr().Is4() {
		return "", fmt.Errorf("only IPv4 addresses are supported, got %s", prefix)
	}
	if newbits < 0 || netnum < 0 {
		return "", fmt.Errorf("newbits and netnum must be non-negative")
	}

	network = network.Masked()
	newMaskSize := network.Bits() + newbits
	if newMaskSize > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}
	if maxSubnets := uint64(1) << newbits; uint64(netnum) >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	base := network.Addr().As4()
	// #nosec G115
	start := uint64(binary.BigEndian.Uint32(base[:])) + uint64(netnum)<<(32-newMaskSize)

	var out [4]byte
	// #nosec G115
	binary.BigEndian.PutUint32(out[:], uint32(start))
	return netip.PrefixFrom(netip.AddrFrom4(out), newMaskSize).String(), nil
}

// SubnetLayout splits a VPC prefix into public and private subnets, one of
// each per availability zone. Public subnets take the low half of the
// index space, private subnets the high half.
func SubnetLayout(vpcCIDR string, zones int) (public, private []string, err error) {
	if zones <= 0 {
		return nil, nil, fmt.Errorf("at least one zone is required")
	}
	newbits := 1
	for (1 << newbits) < 2*zones {
		newbits++
	}
	half := 1 << (newbits - 1)
	for i := range zones {
		pub, err := CIDRSubnet(vpcCIDR, newbits, i)
		if err != nil {
			return nil, nil, err
		}
		priv, err := CIDRSubnet(vpcCIDR, newbits, half+i)
		if err != nil {
			return nil, nil, err
		}
		public = append(public, pub)
		private = append(private, priv)
	}
	return public, private, nil
}
