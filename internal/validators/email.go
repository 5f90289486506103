package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

// Resolver is the part of *net.Resolver the domain check needs.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// DomainChecker accepts an address whose domain has an MX or an A/AAAA
// record.
type DomainChecker struct {
	Resolver Resolver
	Timeout  time.Duration
}

func NewDomainChecker() *DomainChecker {
	return &DomainChecker{Resolver: net.DefaultResolver, Timeout: 3 * time.Second}
}

func (d *DomainChecker) Valid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	if mx, err := d.Resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := d.Resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

func IsEmailDomainValid(email string) bool {
	return NewDomainChecker().Valid(email)
}

// NormalizeEmail trims and lower-cases an address, and rejects anything
// that is not a bare address.
func NormalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return email, false
	}
	return email, true
}
