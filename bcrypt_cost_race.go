//go:build race

package vecino

import "golang.org/x/crypto/bcrypt"

func gateCodeHashCost() int {
	// Reduce cost for race-enabled builds so test suites can run with strict timeouts.
	return bcrypt.DefaultCost
}
