package internal

import "fmt"

// MumbaiChainID is the Polygon Mumbai testnet, the collection's home network
const MumbaiChainID int64 = 80001

var knownNetworks = map[int64]string{
	1:        "mainnet",
	5:        "goerli",
	137:      "polygon",
	1337:     "localhost",
	31337:    "hardhat",
	80001:    "mumbai",
	80002:    "amoy",
	11155111: "sepolia",
}

// NetworkName returns a human name for a chain id
func NetworkName(chainID int64) string {
	if name, ok := knownNetworks[chainID]; ok {
		return name
	}
	return fmt.Sprintf("chain-%d", chainID)
}
