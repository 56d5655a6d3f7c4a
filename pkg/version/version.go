// Package version provides version information for the game-prices application.
package version

// Version is the current version of the game-prices application.
const Version = "0.3.1"

// AgentString returns the User-Agent value used for outbound storefront requests.
func AgentString() string {
	return "game-prices/v" + Version
}
