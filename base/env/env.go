package env

import (
	"os"
	"strings"
)

// Variables read by the network profiles and the explorer clients.
const (
	BscscanApiKey        = "BSCSCAN_API_KEY"
	BscTestnetPrivateKey = "BSCTESTNET_PRIVATE_KEY_1970"
	BscApiUrl            = "BSC_API_URL"
	BscMainnetPrivateKey = "BSC_MAINNET_PRIVATE_KEY"
	PolygonscanApiUrl    = "POLYGONSCAN_API_URL"
	PolygonscanApiKey    = "POLYGONSCAN_API_KEY"
	RwatArtifacts        = "RWAT_ARTIFACTS"
	podNameEnv           = "PODNAME"
)

// Known lists the variables a fully configured deployer reads.
var Known = []string{
	BscscanApiKey,
	BscTestnetPrivateKey,
	BscApiUrl,
	BscMainnetPrivateKey,
	PolygonscanApiUrl,
	PolygonscanApiKey,
}

// PodName example: k8ssta-deployer-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv(podNameEnv)
}

// Lookup returns the trimmed value and whether it is non-empty.
func Lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// SetDefault exports value unless the process already carries key.
func SetDefault(key, value string) error {
	if _, ok := os.LookupEnv(key); ok {
		return nil
	}
	return os.Setenv(key, value)
}
