package instance

import "os"

// GetID returns the identifier of the running API process. Heroku dynos
// export DYNO; containers fall back to HOSTNAME.
func GetID() string {
	for _, key := range []string{"GOUPROMO_INSTANCE_ID", "DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "api-0"
}
