// Package common contains shared constants and sentinel errors used across
// the catalog service components.
package common

// AuthHeaderName is the HTTP header carrying the identity provider's
// bearer token on inbound requests.
const AuthHeaderName = "Authorization"

// ProvisioningKeyHeaderName is the HTTP header carrying the shared key
// that guards the provisioning and maintenance hooks.
const ProvisioningKeyHeaderName = "X-Provisioning-Key"
