package middleware

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/config"
)

// TenantResolver extracts the tenant subdomain from the request host and
// stores it in locals. The apex itself, localhost, raw IPs and hosts outside
// the configured base domain resolve to the empty tenant, which renders
// default theming.
func TenantResolver() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("tenant", SubdomainFromHost(c.Hostname(), config.AppConfig.Server.BaseDomain))
		return c.Next()
	}
}

// SubdomainFromHost returns the single label host carries in front of
// baseDomain, else "". Label counting cannot tell a multi-label apex such as
// portal.com.br from a real subdomain, so the apex is explicit configuration.
func SubdomainFromHost(host, baseDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	baseDomain = strings.ToLower(baseDomain)

	if baseDomain == "" || host == baseDomain || net.ParseIP(host) != nil {
		return ""
	}

	sub, found := strings.CutSuffix(host, "."+baseDomain)
	if !found || sub == "" || sub == "www" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}
