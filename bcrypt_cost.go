//go:build !race

package vecino

func gateCodeHashCost() int {
	return 14
}
