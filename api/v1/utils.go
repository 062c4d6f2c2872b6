package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// unknownIP is recorded when no client address can be resolved at all.
const unknownIP = "unknown"

// getClientIP resolves the client address for an ingestion request.
func getClientIP(c *fiber.Ctx) string {
	return resolveClientIP(c.IP(), c.Get("X-Forwarded-For"), c.Context().RemoteAddr().String())
}

// resolveClientIP picks the client address from the request metadata. The
// fallback order is part of the ingestion contract: the framework-resolved
// IP, then the first X-Forwarded-For entry, then the raw socket address.
func resolveClientIP(resolved, forwarded, remote string) string {
	if ip := strings.TrimSpace(resolved); ip != "" {
		return ip
	}

	if first := firstForwardedAddr(forwarded); first != "" {
		return first
	}

	if remote != "" {
		if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
			return host
		}
		return remote
	}

	return unknownIP
}

// firstForwardedAddr extracts the leading entry of an X-Forwarded-For
// header, which proxies append to so the first entry is the original client.
func firstForwardedAddr(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(header, ",")[0])
}

// generateETag creates a strong ETag from content using SHA-256
func generateETag(content []byte) string {
	hash := sha256.Sum256(content)
	return `"` + hex.EncodeToString(hash[:]) + `"` // Quoted for strong ETag
}
