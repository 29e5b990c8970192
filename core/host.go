package core

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	// DefaultRegion is used if no region is configured.
	DefaultRegion = "us-east-1"

	// DefaultScheme is used if no valid forwarded protocol is present.
	DefaultScheme = "https"

	amazonawsSuffix = ".amazonaws.com"
	elbSuffix       = ".elb.amazonaws.com"
	fallbackHost    = "localhost"
)

// Origin identifies the API an event was received from.
type Origin struct {
	// APIID is the API Gateway id. Empty for load balancer events.
	APIID string

	// Region is the AWS region of the API. Defaults to DefaultRegion.
	Region string
}

// DefaultHost returns the execute-api host name of the origin.
func (o Origin) DefaultHost() string {
	if o.APIID == "" {
		return fallbackHost
	}

	return fmt.Sprintf("%s.execute-api.%s%s", o.APIID, o.region(), amazonawsSuffix)
}

func (o Origin) region() string {
	if o.Region == "" {
		return DefaultRegion
	}

	return o.Region
}

// Domains is a set of trusted custom host names.
type Domains map[string]struct{}

// NewDomains builds a set of trusted host names, compared case-insensitively.
func NewDomains(names ...string) Domains {
	d := make(Domains, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			d[name] = struct{}{}
		}
	}

	return d
}

// Contains reports whether host, ignoring any port, is trusted.
func (d Domains) Contains(host string) bool {
	_, ok := d[strings.ToLower(hostname(host))]
	return ok
}

// HostResolver reconstructs the externally visible URI of a request.
type HostResolver struct {
	domains Domains
}

// NewHostResolver creates a resolver trusting the given custom domains.
func NewHostResolver(domains Domains) *HostResolver {
	return &HostResolver{domains: domains}
}

// Resolve builds the absolute request URI from the forwarded protocol
// and Host headers. Hosts that are neither the origin's default host
// nor a trusted custom domain are replaced by the default host.
//
// Load balancer events carry no API id, so any load balancer host of
// the origin's region is accepted, whichever account owns it.
func (r *HostResolver) Resolve(header Header, path, rawQuery string, origin Origin) *url.URL {
	if path == "" {
		path = "/"
	}

	u := &url.URL{
		Scheme:   r.scheme(header),
		Host:     r.host(header, origin),
		Path:     path,
		RawQuery: rawQuery,
	}

	// keep the escaped form if the path carries encoded characters
	if unescaped, err := url.PathUnescape(path); err == nil && unescaped != path {
		u.Path = unescaped
		u.RawPath = path
	}

	return u
}

func (r *HostResolver) scheme(header Header) string {
	for _, name := range []string{HeaderCloudFrontForwardedProto, HeaderXForwardedProto} {
		proto := strings.ToLower(strings.TrimSpace(header.Get(name)))
		if proto == "http" || proto == "https" {
			return proto
		}
	}

	return DefaultScheme
}

func (r *HostResolver) host(header Header, origin Origin) string {
	defaultHost := origin.DefaultHost()

	host := strings.TrimSpace(header.Get(HeaderHost))
	if host == "" {
		return defaultHost
	}

	name := strings.ToLower(hostname(host))

	if strings.HasSuffix(name, amazonawsSuffix) {
		if strings.EqualFold(name, defaultHost) {
			return host
		}

		// load balancers have no execute-api host of their own
		if origin.APIID == "" && strings.HasSuffix(name, "."+origin.region()+elbSuffix) {
			return host
		}

		return defaultHost
	}

	if r != nil && r.domains.Contains(name) {
		return host
	}

	return defaultHost
}

func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}

	return host
}
