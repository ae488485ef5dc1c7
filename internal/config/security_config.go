// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic     SecurityLevel = iota // No authentication
	SecurityIdentified                      // Verified credential, account may not exist yet
	SecurityMember                          // Verified credential with a registered account
	SecurityHR                              // Registered account with the hr role
)

// Route names used by the HTTP router
const (
	RouteHealth         = "health"
	RouteListPackages   = "packages.list"
	RoutePaymentWebhook = "payments.webhook"
	RouteMockCheckout   = "payments.mock_checkout"

	RouteRegister = "users.register"

	RouteProfile        = "users.profile"
	RouteUpdateProfile  = "users.update_profile"
	RouteCreateRequest  = "requests.create"
	RouteReturnRequest  = "requests.return"
	RouteHRSeatLimit    = "users.hr_limit"
	RouteCreateAsset    = "assets.create"
	RouteUpdateAsset    = "assets.update"
	RouteApproveRequest = "requests.approve"
	RouteRejectRequest  = "requests.reject"
	RouteDirectAssign   = "assignments.create"
	RouteCreateCheckout = "payments.checkout"
	RouteConfirmPayment = "payments.confirm"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteHealth:         SecurityPublic,
	RouteListPackages:   SecurityPublic,
	RoutePaymentWebhook: SecurityPublic, // authenticated by the processor signature
	RouteMockCheckout:   SecurityPublic,

	// Identified only
	RouteRegister: SecurityIdentified,

	// Registered accounts
	RouteProfile:       SecurityMember,
	RouteUpdateProfile: SecurityMember,
	RouteCreateRequest: SecurityMember,
	RouteReturnRequest: SecurityMember,

	// HR only
	RouteHRSeatLimit:    SecurityHR,
	RouteCreateAsset:    SecurityHR,
	RouteUpdateAsset:    SecurityHR,
	RouteApproveRequest: SecurityHR,
	RouteRejectRequest:  SecurityHR,
	RouteDirectAssign:   SecurityHR,
	RouteCreateCheckout: SecurityHR,
	RouteConfirmPayment: SecurityHR,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityHR
}
