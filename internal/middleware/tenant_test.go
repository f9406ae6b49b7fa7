package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubdomainFromHost(t *testing.T) {
	cases := []struct {
		host string
		base string
		want string
	}{
		{"loja1.portal.com.br", "portal.com.br", "loja1"},
		{"Loja1.portal.com.br:443", "portal.com.br", "loja1"},
		{"merchant.portal.dev", "portal.dev", "merchant"},
		// a multi-label apex must not be mistaken for a subdomain
		{"portal.com.br", "portal.com.br", ""},
		{"portal.com.br:8989", "portal.com.br", ""},
		{"www.portal.com.br", "portal.com.br", ""},
		{"deep.loja1.portal.com.br", "portal.com.br", ""},
		{"otherdomain.com", "portal.com.br", ""},
		{"localhost", "portal.com.br", ""},
		{"localhost:8989", "portal.com.br", ""},
		{"127.0.0.1:8989", "portal.com.br", ""},
		{"[::1]:8989", "portal.com.br", ""},
		// unset base domain disables resolution
		{"loja1.portal.com.br", "", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SubdomainFromHost(tc.host, tc.base), "host %q base %q", tc.host, tc.base)
	}
}
