package tfvars

import (
	"regexp"
	"strings"
)

var (
	networkLine = regexp.MustCompile(`^\s*(\w+)\s*=\s*(\[.*\]|"[^"]+"|[^#\s]+)`)
	cidrPattern = regexp.MustCompile(`[0-9]{1,3}(?:\.[0-9]{1,3}){3}/[0-9]{1,2}`)
	ipv4Pattern = regexp.MustCompile(`[0-9]{1,3}(?:\.[0-9]{1,3}){3}`)
	prefixLen   = regexp.MustCompile(`^/[0-9]{1,2}`)

	bracketsAndQuotes = strings.NewReplacer("[", "", "]", "", `"`, "")
)

// ExtractNetwork maps CIDR blocks and bare IPv4 addresses found in
// assignment values to the key of the line they appear on. An address that
// is the network part of a CIDR block is not also mapped as a bare address.
func ExtractNetwork(lines []string) Mapping {
	m := make(Mapping)
	for _, line := range lines {
		match := networkLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		key := match[1]
		value := bracketsAndQuotes.Replace(match[2])

		for _, cidr := range cidrPattern.FindAllString(value, -1) {
			m.setIfAbsent(cidr, key)
		}
		for _, ip := range bareIPv4s(value) {
			m.setIfAbsent(ip, key)
		}
	}
	return m
}

// bareIPv4s returns dotted quads in s that are not followed by a prefix
// length.
func bareIPv4s(s string) []string {
	var ips []string
	for _, loc := range ipv4Pattern.FindAllStringIndex(s, -1) {
		if prefixLen.MatchString(s[loc[1]:]) {
			continue
		}
		ips = append(ips, s[loc[0]:loc[1]])
	}
	return ips
}
