// Package lookup turns domain names into IPv4 addresses by scraping the
// ipaddress.com lookup pages.
package lookup

import (
	"fmt"
	"strings"
)

// ServiceSuffix is appended to the registrable root of every looked up domain.
const ServiceSuffix = "ipaddress.com"

// Target is the lookup page that describes a domain.
type Target struct {
	ServiceHost string
	Path        string
}

// BuildTarget maps a domain to its lookup page. Domains with more than two
// labels are looked up under their last two labels with the full domain as path.
func BuildTarget(domain string) Target {
	labels := strings.Split(domain, ".")
	if len(labels) > 2 {
		return Target{
			ServiceHost: strings.Join(labels[len(labels)-2:], ".") + "." + ServiceSuffix,
			Path:        "/" + domain,
		}
	}
	return Target{
		ServiceHost: domain + "." + ServiceSuffix,
		Path:        "/",
	}
}

// Request renders the HTTP/1.0 request for the target.
func (t Target) Request() string {
	return fmt.Sprintf("GET %s HTTP/1.0\r\nHost: %s\r\n\r\n", t.Path, t.ServiceHost)
}

func (t Target) String() string {
	return t.ServiceHost + t.Path
}
