package coincap

import "strings"

// DefaultBaseURL is the public CoinCap REST endpoint.
const DefaultBaseURL = "https://api.coincap.io/v2"

// ConstructURL joins baseURL and path with exactly one slash.
// A path that is already an absolute URL is returned unchanged.
func ConstructURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
