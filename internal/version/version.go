// ABOUTME: Version constants for flexbeeper binaries
// ABOUTME: Reported in logs and the TUI header
package version

const (
	Version      = "0.1.0"
	Product      = "flexbeeper"
	Manufacturer = "emgkit"
)

// String returns the product and version for banners
func String() string {
	return Product + " " + Version
}
